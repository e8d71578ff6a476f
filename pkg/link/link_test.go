package link

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/rtedbg"
)

type portByte struct {
	b       byte
	lineErr bool
	err     error
}

// chanPort is a port fed from a chan, collecting written bytes.
type chanPort struct {
	readCh  chan portByte
	writeCh chan byte
}

func newChanPort() *chanPort {
	return &chanPort{readCh: make(chan portByte, 64), writeCh: make(chan byte, 256)}
}

func (c *chanPort) Read(p []byte) (int, error) {
	in := <-c.readCh
	if in.err != nil {
		return 0, in.err
	}
	p[0] = in.b
	return 1, nil
}

func (c *chanPort) Write(p []byte) (int, error) {
	for _, b := range p {
		c.writeCh <- b
	}
	return len(p), nil
}

func (c *chanPort) send(in ...byte) {
	for _, b := range in {
		c.readCh <- portByte{b: b}
	}
}

func (c *chanPort) expect(t *testing.T, n int) []byte {
	out := make([]byte, 0, n)
	timeout := time.After(time.Second)
	for len(out) < n {
		select {
		case b := <-c.writeCh:
			out = append(out, b)
		case <-timeout:
			t.Fatalf("expect %d bytes, got %v", n, out)
		}
	}
	return out
}

func (c *chanPort) expectNothing(t *testing.T, d time.Duration) {
	select {
	case b := <-c.writeCh:
		t.Fatalf("unexpected byte %02x", b)
	case <-time.After(d):
	}
}

// lineErrPort reports line errors with every byte.
type lineErrPort struct {
	*chanPort
}

func (p lineErrPort) ReadByteWithError() (byte, bool, error) {
	in := <-p.readCh
	return in.b, in.lineErr, in.err
}

type linkTestEnv struct {
	region *rtedbg.Region
	link   *Link
	cancel func()
	errCh  chan error
}

func runLink(port io.ReadWriter, conf rtecom.Config, timeout time.Duration) *linkTestEnv {
	env := &linkTestEnv{region: rtedbg.New(16), errCh: make(chan error, 1)}
	env.link = New(port, env.region, conf)
	env.link.Watchdog.Timeout = timeout
	var ctx context.Context
	ctx, env.cancel = context.WithCancel(context.Background())
	go func() {
		env.errCh <- env.link.Run(ctx)
	}()
	return env
}

func (e *linkTestEnv) stop(t *testing.T) {
	e.cancel()
	require.Equal(t, context.Canceled, <-e.errCh)
}

func TestLinkServesRequests(t *testing.T) {
	port := newChanPort()
	env := runLink(port, rtecom.Config{}, time.Second)
	defer env.stop(t)

	port.send(rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: rtedbg.IndexConfig, Data: 0x01020304}.Bytes()...)
	require.Equal(t, rtecom.Ack(), port.expect(t, 1))

	port.send(rtecom.Request{Command: rtecom.CmdReadDebugRegion, Address: rtedbg.IndexConfig * 4, Data: 4}.Bytes()...)
	require.Equal(t, []byte{4, 3, 2, 1}, port.expect(t, 4))

	port.send(rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 100, Data: 1}.Bytes()...)
	require.Equal(t, []byte{byte(rtecom.CmdWriteDebugRegion)}, port.expect(t, 1))
}

func TestLinkDropsBadPackets(t *testing.T) {
	port := newChanPort()
	env := runLink(port, rtecom.Config{}, time.Second)
	defer env.stop(t)

	bad := rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 1, Data: 1}.Bytes()
	bad[1]++
	port.send(bad...)
	port.send(0xff, 0x80)
	port.expectNothing(t, 20*time.Millisecond)

	port.send(rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 1, Data: 1}.Bytes()...)
	require.Equal(t, rtecom.Ack(), port.expect(t, 1))
}

func TestLinkLineErrors(t *testing.T) {
	port := lineErrPort{newChanPort()}
	env := runLink(port, rtecom.Config{}, time.Second)
	defer env.stop(t)

	pkt := rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: rtedbg.IndexFilter, Data: 7}.Bytes()
	port.send(pkt[:4]...)
	port.readCh <- portByte{b: pkt[4], lineErr: true}
	port.send(pkt...)
	require.Equal(t, rtecom.Ack(), port.expect(t, 1))
	port.expectNothing(t, 20*time.Millisecond)
	require.Equal(t, uint32(7), env.region.ReadWord(rtedbg.IndexFilter))
}

func TestLinkTimeout(t *testing.T) {
	port := newChanPort()
	env := runLink(port, rtecom.Config{}, 20*time.Millisecond)
	defer env.stop(t)

	pkt := rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 2, Data: 9}.Bytes()
	port.send(pkt[:5]...)
	time.Sleep(80 * time.Millisecond)
	port.send(pkt...)
	require.Equal(t, rtecom.Ack(), port.expect(t, 1))
}

func TestLinkPortError(t *testing.T) {
	port := newChanPort()
	env := runLink(port, rtecom.Config{}, time.Second)
	failure := errors.New("port gone")
	port.readCh <- portByte{err: failure}
	require.Equal(t, failure, <-env.errCh)
}

func TestSendDropsWhenQueueFull(t *testing.T) {
	l := New(newChanPort(), rtedbg.New(4), rtecom.Config{})
	for n := 0; n < DefaultTxQueue+2; n++ {
		l.Send(rtecom.Ack())
	}
	require.Equal(t, uint64(2), l.Dropped())
}

func TestWatchdog(t *testing.T) {
	now := time.Unix(10, 0)
	region := rtedbg.New(4)
	h := rtecom.NewHandler(region, nil, rtecom.Config{
		SingleWire: true,
		Now:        func() time.Time { return now },
	})
	w := Watchdog{Timeout: 100 * time.Millisecond}

	require.False(t, w.Check(h, now.Add(time.Hour)))

	pkt := rtecom.Request{Command: rtecom.CmdWriteDebugRegion, Address: 0, Data: 1}.Bytes()
	for _, b := range pkt[:3] {
		h.ByteReceived(b, false)
	}
	require.False(t, w.Check(h, now.Add(99*time.Millisecond)))
	require.True(t, w.Check(h, now.Add(100*time.Millisecond)))
	require.True(t, h.Idle())

	// an echo that never arrives is dropped after the timeout
	for _, b := range pkt {
		h.ByteReceived(b, false)
	}
	require.Equal(t, 1, h.Discarding())
	require.False(t, w.Check(h, now.Add(99*time.Millisecond)))
	require.True(t, w.Check(h, now.Add(100*time.Millisecond)))
	require.True(t, h.Idle())
}

func TestWatchdogKeepsEchoDiscard(t *testing.T) {
	now := time.Unix(10, 0)
	region := rtedbg.New(4)
	h := rtecom.NewHandler(region, nil, rtecom.Config{
		SingleWire: true,
		Now:        func() time.Time { return now },
	})
	w := Watchdog{Timeout: 100 * time.Millisecond}

	pkt := rtecom.Request{Command: rtecom.CmdReadDebugRegion, Address: 0, Data: 12}.Bytes()
	for _, b := range pkt[:9] {
		h.ByteReceived(b, false)
	}
	// the final byte arrives late
	now = now.Add(150 * time.Millisecond)
	resp := h.ByteReceived(pkt[9], false)
	require.Len(t, resp, 12)
	require.Equal(t, 12, h.Discarding())
	require.False(t, w.Check(h, now))

	// a long echo keeps the discard alive byte by byte
	for _, b := range resp {
		now = now.Add(60 * time.Millisecond)
		require.False(t, w.Check(h, now))
		require.Nil(t, h.ByteReceived(b, false))
	}
	require.True(t, h.Idle())
	require.Equal(t, 0, h.Pending())
	require.Equal(t, uint64(0), h.Stats().Resets)
}
