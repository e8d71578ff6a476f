package host

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rtecom/pkg/rtecom"
)

// DefaultTimeout is how long the client waits for each response byte.
const DefaultTimeout = 500 * time.Millisecond

// Client sends requests over Port. Run must be running for Do to
// receive anything.
type Client struct {
	Port io.ReadWriter
	// SingleWire expects the request to be echoed before the response.
	SingleWire bool
	// Timeout is the wait for every response byte.
	Timeout time.Duration
	// MaxChunk limits the data requested by a single read.
	MaxChunk int

	rxCh chan byte
	lock sync.Mutex
}

// NewClient creates a Client.
func NewClient(port io.ReadWriter, singleWire bool) *Client {
	return &Client{
		Port:       port,
		SingleWire: singleWire,
		Timeout:    DefaultTimeout,
		MaxChunk:   rtecom.DefaultMaxTransfer,
		rxCh:       make(chan byte, 4096),
	}
}

// Run receives bytes from Port until it fails or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		n, err := c.Port.Read(buf)
		for _, b := range buf[:n] {
			select {
			case c.rxCh <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Do sends req and waits for a response of n bytes: n is 1 for commands
// answered with ACK/NACK, or the requested data size for reads.
func (c *Client) Do(ctx context.Context, req rtecom.Request, n int) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if stale := c.drain(); stale > 0 {
		glog.V(2).Infof("%d stale bytes dropped", stale)
	}
	pkt := req.Bytes()
	if glog.V(3) {
		glog.Infof("REQ %v", req)
	}
	if _, err := c.Port.Write(pkt); err != nil {
		return nil, err
	}
	if c.SingleWire {
		echo, err := c.receive(ctx, len(pkt))
		if err != nil {
			return nil, fmt.Errorf("echo: %w", err)
		}
		if !bytes.Equal(echo, pkt) {
			return nil, ErrEchoMismatch
		}
	}
	return c.response(ctx, req.Command, n)
}

func (c *Client) response(ctx context.Context, cmd rtecom.Command, n int) ([]byte, error) {
	first, err := c.receive(ctx, 1)
	if err != nil {
		return nil, err
	}
	if n <= 1 {
		switch first[0] {
		case rtecom.Checksum:
			return first, nil
		case byte(cmd):
			return nil, &NackError{Command: cmd}
		default:
			return nil, &UnexpectedResponseError{Byte: first[0]}
		}
	}
	rest, err := c.receive(ctx, n-1)
	if err == ErrNoResponse && len(rest) == 0 && first[0] == byte(cmd) {
		return nil, &NackError{Command: cmd}
	}
	data := append(first, rest...)
	if err != nil {
		return data, fmt.Errorf("%d of %d bytes: %w", len(data), n, err)
	}
	return data, nil
}

// receive collects n bytes, failing when the gap between bytes exceeds
// Timeout.
func (c *Client) receive(ctx context.Context, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for len(out) < n {
		select {
		case b := <-c.rxCh:
			out = append(out, b)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(timeout)
		case <-timer.C:
			return out, ErrNoResponse
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, nil
}

func (c *Client) drain() (count int) {
	for {
		select {
		case <-c.rxCh:
			count++
		default:
			return
		}
	}
}
