package transport

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func readN(t *testing.T, r io.Reader, n int) []byte {
	buf := make([]byte, n)
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(r, buf)
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("read %d bytes timeout", n)
	}
	return buf
}

func TestPipe(t *testing.T) {
	host, device := Pipe()
	defer host.Close()
	defer device.Close()

	_, err := host.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, readN(t, device, 3))

	_, err = device.Write([]byte{0x0f})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0f}, readN(t, host, 1))
}

func TestSingleWireLine(t *testing.T) {
	l := NewLine(true)
	defer l.Close()

	_, err := l.Host().Write([]byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, readN(t, l.Device(), 2))
	require.Equal(t, []byte{1, 2}, readN(t, l.Host(), 2))

	_, err = l.Device().Write([]byte{0x0f})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0f}, readN(t, l.Device(), 1))
	require.Equal(t, []byte{0x0f}, readN(t, l.Host(), 1))
}

func TestLineClose(t *testing.T) {
	host, device := Pipe()
	require.NoError(t, device.Close())
	_, err := device.Read(make([]byte, 1))
	require.Equal(t, io.EOF, err)
	_, err = host.Write([]byte{1})
	require.Equal(t, io.ErrClosedPipe, err)
}

func TestSingleWirePort(t *testing.T) {
	host, device := Pipe()
	port := SingleWire(device)
	defer port.Close()

	_, err := host.Write([]byte{5, 6})
	require.NoError(t, err)
	require.Equal(t, []byte{5, 6}, readN(t, port, 2))

	_, err = port.Write([]byte{0x0f})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0f}, readN(t, port, 1))
	require.Equal(t, []byte{0x0f}, readN(t, host, 1))

	host.Close()
	require.NoError(t, device.Close())
	_, err = port.Read(make([]byte, 1))
	require.Equal(t, io.EOF, err)
}

func TestLineErrorString(t *testing.T) {
	require.Equal(t, "none", LineError(0).String())
	require.Equal(t, "noise", LineNoise.String())
	require.Equal(t, "overrun|framing", (LineOverrun | LineFraming).String())
}

func TestNoisyPort(t *testing.T) {
	host, device := Pipe()
	defer host.Close()
	port := WithLineErrors(device, func(b byte) LineError {
		if b == 0xee {
			return LineFraming
		}
		return 0
	})
	defer port.Close()

	_, err := host.Write([]byte{1, 0xee, 2})
	require.NoError(t, err)
	for _, expect := range []struct {
		b       byte
		lineErr bool
	}{{1, false}, {0xee, true}, {2, false}} {
		b, lineErr, err := port.ReadByteWithError()
		require.NoError(t, err)
		require.Equal(t, expect.b, b)
		require.Equal(t, expect.lineErr, lineErr)
	}
}

func TestRandomNoise(t *testing.T) {
	never, always := RandomNoise(0, 1), RandomNoise(1, 1)
	for n := 0; n < 100; n++ {
		require.Equal(t, LineError(0), never(0))
		require.Equal(t, LineNoise, always(0))
	}
}

func TestSerialMode(t *testing.T) {
	mode, err := SerialMode(url.Values{})
	require.NoError(t, err)
	require.Equal(t, &serial.Mode{BaudRate: DefaultBaudRate, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}, mode)

	mode, err = SerialMode(url.Values{"baud": {"921600"}, "parity": {"e"}, "stopbits": {"2"}, "databits": {"7"}})
	require.NoError(t, err)
	require.Equal(t, 921600, mode.BaudRate)
	require.Equal(t, 7, mode.DataBits)
	require.Equal(t, serial.EvenParity, mode.Parity)
	require.Equal(t, serial.TwoStopBits, mode.StopBits)

	for _, query := range []url.Values{
		{"baud": {"fast"}},
		{"databits": {"x"}},
		{"parity": {"M"}},
		{"stopbits": {"3"}},
	} {
		_, err = SerialMode(query)
		require.Error(t, err, "%v", query)
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(context.Background(), "carrier-pigeon://coop")
	require.Equal(t, &UnsupportedSchemeError{Scheme: "carrier-pigeon"}, err)
	_, err = Listen("mqtt://broker/dev")
	require.Equal(t, &UnsupportedSchemeError{Scheme: "mqtt"}, err)
	_, err = Open(context.Background(), "serial://")
	require.Error(t, err)
}

func testListenAndOpen(t *testing.T, listenURL, scheme, path string) {
	ln, err := Listen(listenURL)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan io.ReadWriteCloser, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	host, err := Open(ctx, scheme+"://"+ln.Addr()+path)
	require.NoError(t, err)
	defer host.Close()

	var device io.ReadWriteCloser
	select {
	case device = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("accept timeout")
	}
	defer device.Close()

	_, err = host.Write([]byte{0, 1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3}, readN(t, device, 4))
	_, err = device.Write([]byte{0x0f})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0f}, readN(t, host, 1))
}

func TestTCP(t *testing.T) {
	testListenAndOpen(t, "tcp://127.0.0.1:0", "tcp", "")
}

func TestWebSocket(t *testing.T) {
	testListenAndOpen(t, "ws://127.0.0.1:0/rtecom", "ws", "/rtecom")
}
