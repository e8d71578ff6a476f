package link

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rtecom/pkg/rtecom"
)

// DefaultTxQueue is the number of responses which may wait for the writer.
const DefaultTxQueue = 4

// ErrTxQueueFull is reported when a response is dropped.
var ErrTxQueueFull = errors.New("transmit queue full")

// LineErrorReader is implemented by ports which report hardware
// reception errors with every byte.
type LineErrorReader interface {
	ReadByteWithError() (b byte, lineErr bool, err error)
}

// Link serves RTEcom requests received over Port.
type Link struct {
	Port     io.ReadWriter
	Handler  *rtecom.Handler
	Watchdog Watchdog
	// Tick is the watchdog check period, Timeout/4 when zero.
	Tick time.Duration

	txCh    chan []byte
	dropped atomic.Uint64
}

type rxByte struct {
	b       byte
	lineErr bool
}

// New creates a Link serving region over port.
func New(port io.ReadWriter, region rtecom.Region, conf rtecom.Config) *Link {
	l := &Link{
		Port:     port,
		Watchdog: Watchdog{Timeout: DefaultTimeout},
		txCh:     make(chan []byte, DefaultTxQueue),
	}
	l.Handler = rtecom.NewHandler(region, l, conf)
	return l
}

// Send implements rtecom.Transmitter.
func (l *Link) Send(p []byte) {
	select {
	case l.txCh <- p:
	default:
		l.dropped.Add(1)
		glog.Warningf("%v: %d bytes response dropped", ErrTxQueueFull, len(p))
	}
}

// Dropped is the number of responses dropped because the queue was full.
func (l *Link) Dropped() uint64 {
	return l.dropped.Load()
}

// Run processes the Port until ctx is done or the Port fails.
func (l *Link) Run(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rxCh, errCh := make(chan rxByte), make(chan error, 2)
	go l.readLoop(subCtx, rxCh, errCh)
	go l.writeLoop(subCtx, errCh)

	tick := l.Tick
	if tick <= 0 {
		if tick = l.Watchdog.Timeout / 4; tick <= 0 {
			tick = DefaultTimeout / 4
		}
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case rx := <-rxCh:
			if glog.V(4) {
				glog.Infof("RX %02x err=%v", rx.b, rx.lineErr)
			}
			if resp := l.Handler.ByteReceived(rx.b, rx.lineErr); resp != nil && glog.V(2) {
				glog.Infof("TX %d bytes", len(resp))
			}
		case now := <-ticker.C:
			if l.Watchdog.Check(l.Handler, now) {
				glog.V(2).Info("receive timeout, packet dropped")
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, rxCh chan rxByte, errCh chan error) {
	if r, ok := l.Port.(LineErrorReader); ok {
		for {
			b, lineErr, err := r.ReadByteWithError()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case rxCh <- rxByte{b: b, lineErr: lineErr}:
			case <-ctx.Done():
				return
			}
		}
	}

	buf := make([]byte, 64)
	for {
		n, err := l.Port.Read(buf)
		for _, b := range buf[:n] {
			select {
			case rxCh <- rxByte{b: b}:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (l *Link) writeLoop(ctx context.Context, errCh chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-l.txCh:
			if _, err := l.Port.Write(p); err != nil {
				errCh <- err
				return
			}
		}
	}
}
