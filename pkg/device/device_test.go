package device

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtecom/pkg/env"
	"github.com/robotalks/rtecom/pkg/host"
	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/rtedbg"
	"github.com/robotalks/rtecom/pkg/transport"
)

func testConfig(singleWire bool) *env.Config {
	conf := env.NewConfig()
	conf.SingleWire = singleWire
	conf.BufferWords = 32
	conf.MemoryRanges = nil
	conf.Noise = 0
	conf.Timeout = 50 * time.Millisecond
	return conf
}

func startClient(t *testing.T, port io.ReadWriter, singleWire bool) *host.Client {
	client := host.NewClient(port, singleWire)
	client.Timeout = 100 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	go client.Run(ctx)
	t.Cleanup(cancel)
	return client
}

func TestHandlerConfig(t *testing.T) {
	d := New(testConfig(true))
	conf := d.HandlerConfig()
	require.True(t, conf.SingleWire)
	require.Equal(t, []rtecom.AddressRange{{Start: MemoryBase, End: MemoryBase + MemorySize}}, conf.MemoryRanges)
	require.Equal(t, rtecom.Memory(d.Memory), conf.Memory)

	d.Config.MemoryRanges = []rtecom.AddressRange{{Start: MemoryBase, End: MemoryBase + 16}}
	require.Equal(t, d.Config.MemoryRanges, d.HandlerConfig().MemoryRanges)
}

func TestServeLine(t *testing.T) {
	d := New(testConfig(true))
	line := transport.NewLine(true)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Serve(ctx, line.Device(), false)
	}()

	client := startClient(t, line.Host(), true)
	h, err := client.ReadHeader(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(32), h.BufferSize)

	d.Demo.Pushbutton(2)
	data, err := client.ReadRegion(ctx, rtedbg.HeaderSize, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 0, 0}, data)

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	line.Close()
}

func TestServeListener(t *testing.T) {
	for _, singleWire := range []bool{false, true} {
		d := New(testConfig(singleWire))
		ln, err := transport.Listen("tcp://127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- d.ServeListener(ctx, ln)
		}()

		conn, err := transport.Open(ctx, "tcp://"+ln.Addr())
		require.NoError(t, err)
		var port io.ReadWriter = conn
		if singleWire {
			port = transport.SingleWire(conn)
		}
		client := startClient(t, port, singleWire)

		require.NoError(t, client.WriteWord(ctx, rtedbg.IndexConfig, 0x5a))
		require.Equal(t, uint32(0x5a), d.Region.ReadWord(rtedbg.IndexConfig))
		require.Equal(t, &host.NackError{Command: rtecom.CmdWriteDebugRegion},
			client.WriteWord(ctx, rtedbg.HeaderWords, 0))

		conn.Close()
		cancel()
		require.Equal(t, context.Canceled, <-errCh)
	}
}

func TestRunUnsupported(t *testing.T) {
	conf := testConfig(false)
	conf.Listen = "pigeon://coop"
	err := New(conf).Run(context.Background())
	require.Equal(t, &transport.UnsupportedSchemeError{Scheme: "pigeon"}, err)
}
