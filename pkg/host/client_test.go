package host

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtecom/pkg/link"
	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/rtedbg"
	"github.com/robotalks/rtecom/pkg/transport"
)

type hostTestEnv struct {
	region *rtedbg.Region
	link   *link.Link
	client *Client
}

func newHostTestEnv(t *testing.T, singleWire bool, conf rtecom.Config) *hostTestEnv {
	line := transport.NewLine(singleWire)
	conf.SingleWire = singleWire
	env := &hostTestEnv{region: rtedbg.New(64)}
	env.region.Clock = func() uint32 { return 0x10 }
	env.link = link.New(line.Device(), env.region, conf)
	env.client = NewClient(line.Host(), singleWire)
	env.client.Timeout = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go env.link.Run(ctx)
	go env.client.Run(ctx)
	t.Cleanup(func() {
		cancel()
		line.Close()
	})
	return env
}

func TestClientRegion(t *testing.T) {
	for _, singleWire := range []bool{false, true} {
		env := newHostTestEnv(t, singleWire, rtecom.Config{})
		ctx := context.Background()

		require.NoError(t, env.client.WriteWord(ctx, rtedbg.IndexConfig, 0xcafe))
		require.Equal(t, uint32(0xcafe), env.region.ReadWord(rtedbg.IndexConfig))

		h, err := env.client.ReadHeader(ctx)
		require.NoError(t, err)
		require.Equal(t, env.region.Header(), h)

		env.region.Log(1, 7, 0x11223344)
		data, err := env.client.ReadRegion(ctx, rtedbg.HeaderSize, 8)
		require.NoError(t, err)
		require.Equal(t, uint32(0x11223344), binary.LittleEndian.Uint32(data))
		require.Equal(t, uint32(7<<16|0x10), binary.LittleEndian.Uint32(data[4:]))

		err = env.client.WriteWord(ctx, rtedbg.HeaderWords, 1)
		require.Equal(t, &NackError{Command: rtecom.CmdWriteDebugRegion}, err)

		_, err = env.client.ReadRegion(ctx, uint32(env.region.Size()), 4)
		require.Equal(t, &NackError{Command: rtecom.CmdReadDebugRegion}, err)
	}
}

func TestClientChunkedRead(t *testing.T) {
	env := newHostTestEnv(t, false, rtecom.Config{})
	env.client.MaxChunk = 7
	for n := uint32(0); n < 20; n++ {
		env.region.Log(0, uint16(n), n)
	}
	size := uint32(env.region.Size())
	data, err := env.client.ReadRegion(context.Background(), 0, size)
	require.NoError(t, err)
	require.Equal(t, env.region.ReadBytes(0, int(size)), data)
	require.Equal(t, uint64((size+6)/7), env.link.Handler.Stats().Packets)
}

func TestClientFreezeResume(t *testing.T) {
	env := newHostTestEnv(t, true, rtecom.Config{})
	ctx := context.Background()
	require.NoError(t, env.client.SetFilter(ctx, 0x06))

	require.NoError(t, env.client.Freeze(ctx))
	require.Equal(t, uint32(0), env.region.ReadWord(rtedbg.IndexFilter))
	require.Equal(t, uint32(0x06), env.region.ReadWord(rtedbg.IndexFilterCopy))
	require.False(t, env.region.Log(1, 1))
	// freezing twice keeps the saved filter
	require.NoError(t, env.client.Freeze(ctx))
	require.Equal(t, uint32(0x06), env.region.ReadWord(rtedbg.IndexFilterCopy))

	require.NoError(t, env.client.Resume(ctx))
	require.Equal(t, uint32(0x06), env.region.ReadWord(rtedbg.IndexFilter))
	require.True(t, env.region.Log(1, 1))
}

func TestClientMemoryCompiledOut(t *testing.T) {
	if rtecom.MemoryCommands {
		t.Skip("raw memory commands compiled in")
	}
	env := newHostTestEnv(t, false, rtecom.Config{})
	ctx := context.Background()
	require.Equal(t, &NackError{Command: rtecom.CmdWrite32}, env.client.Write32(ctx, 0x20000000, 1))
	require.Equal(t, &NackError{Command: rtecom.CmdWrite16}, env.client.Write16(ctx, 0x20000000, 1))
	require.Equal(t, &NackError{Command: rtecom.CmdWrite8}, env.client.Write8(ctx, 0x20000000, 1))
	_, err := env.client.ReadMemory(ctx, 0x20000000, 4)
	require.Equal(t, &NackError{Command: rtecom.CmdRead}, err)
}

func TestClientSnapshot(t *testing.T) {
	env := newHostTestEnv(t, false, rtecom.Config{})
	ctx := context.Background()
	env.region.Log(0, 3, 1, 2)

	s, err := env.client.Snapshot(ctx, "board1", true)
	require.NoError(t, err)
	require.Equal(t, "board1", s.Device)
	require.Equal(t, uint32(3), s.LastIndex)
	require.Equal(t, uint32(0), s.Filter)
	require.Equal(t, rtedbg.DefaultFilter, s.FilterCopy)
	require.Len(t, s.Data, env.region.Size())
	require.Equal(t, rtedbg.DefaultFilter, env.region.ReadWord(rtedbg.IndexFilter))

	var buf bytes.Buffer
	require.NoError(t, SaveSnapshot(&buf, s))
	loaded, err := LoadSnapshot(&buf)
	require.NoError(t, err)
	require.True(t, proto.Equal(s, loaded))
	require.Equal(t, SnapshotHeader(s), SnapshotHeader(loaded))
	require.Equal(t, uint32(64), SnapshotHeader(loaded).BufferSize)

	_, err = LoadSnapshot(bytes.NewReader([]byte{0xff}))
	require.Error(t, err)
}

// scriptedPort answers every request with a fixed reply.
type scriptedPort struct {
	reply  func(req []byte) []byte
	readCh chan byte
}

func newScriptedPort(reply func(req []byte) []byte) *scriptedPort {
	return &scriptedPort{reply: reply, readCh: make(chan byte, 64)}
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	v, ok := <-p.readCh
	if !ok {
		return 0, io.EOF
	}
	b[0] = v
	return 1, nil
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	for _, v := range p.reply(b) {
		p.readCh <- v
	}
	return len(b), nil
}

func runScripted(t *testing.T, singleWire bool, reply func(req []byte) []byte) *Client {
	port := newScriptedPort(reply)
	client := NewClient(port, singleWire)
	client.Timeout = 30 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	go client.Run(ctx)
	t.Cleanup(func() {
		cancel()
		close(port.readCh)
	})
	return client
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	req := rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 1, Data: 2}

	client := runScripted(t, false, func([]byte) []byte { return nil })
	_, err := client.Do(ctx, req, 1)
	require.Equal(t, ErrNoResponse, err)

	client = runScripted(t, false, func([]byte) []byte { return []byte{0x55} })
	_, err = client.Do(ctx, req, 1)
	require.Equal(t, &UnexpectedResponseError{Byte: 0x55}, err)

	client = runScripted(t, false, func([]byte) []byte { return []byte{1, 2} })
	data, err := client.Do(ctx, rtecom.Request{Command: rtecom.CmdReadDebugRegion, Data: 4}, 4)
	require.ErrorIs(t, err, ErrNoResponse)
	require.Equal(t, []byte{1, 2}, data)

	// a read returning the command byte alone is a NACK
	client = runScripted(t, false, func([]byte) []byte { return []byte{1} })
	_, err = client.Do(ctx, rtecom.Request{Command: rtecom.CmdReadDebugRegion, Data: 4}, 4)
	require.Equal(t, &NackError{Command: rtecom.CmdReadDebugRegion}, err)

	client = runScripted(t, true, func(b []byte) []byte {
		echo := append([]byte(nil), b...)
		echo[9] ^= 1
		return append(echo, rtecom.Checksum)
	})
	_, err = client.Do(ctx, req, 1)
	require.Equal(t, ErrEchoMismatch, err)

	client = runScripted(t, true, func(b []byte) []byte { return b[:4] })
	_, err = client.Do(ctx, req, 1)
	require.ErrorIs(t, err, ErrNoResponse)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	client = runScripted(t, false, func([]byte) []byte { return nil })
	_, err = client.Do(cancelled, req, 1)
	require.Equal(t, context.Canceled, err)
}

func TestClientDropsStaleBytes(t *testing.T) {
	first := true
	client := runScripted(t, false, func([]byte) []byte {
		if first {
			first = false
			return []byte{rtecom.Checksum, 0x99, 0x98}
		}
		return []byte{rtecom.Checksum}
	})
	ctx := context.Background()
	req := rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 1, Data: 2}
	_, err := client.Do(ctx, req, 1)
	require.NoError(t, err)
	// let the stale bytes arrive
	time.Sleep(20 * time.Millisecond)
	resp, err := client.Do(ctx, req, 1)
	require.NoError(t, err)
	require.Equal(t, rtecom.Ack(), resp)
}
