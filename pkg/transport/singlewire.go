package transport

import (
	"io"
	"sync"
)

// SingleWirePort echoes every written byte into its own read side, the
// way a UART in single-wire half-duplex mode receives what it sends.
type SingleWirePort struct {
	rw    io.ReadWriter
	rx    *byteQueue
	wlock sync.Mutex
}

// SingleWire wraps rw. Reads from rw are pumped by a goroutine until rw
// fails.
func SingleWire(rw io.ReadWriter) *SingleWirePort {
	p := &SingleWirePort{rw: rw, rx: newByteQueue()}
	go p.pump()
	return p
}

func (p *SingleWirePort) pump() {
	buf := make([]byte, 256)
	for {
		n, err := p.rw.Read(buf)
		if n > 0 {
			p.wlock.Lock()
			pushErr := p.rx.push(buf[:n])
			p.wlock.Unlock()
			if pushErr != nil {
				return
			}
		}
		if err != nil {
			p.rx.closeWithError(err)
			return
		}
	}
}

// Read implements io.Reader.
func (p *SingleWirePort) Read(b []byte) (int, error) {
	return p.rx.Read(b)
}

// Write implements io.Writer.
func (p *SingleWirePort) Write(b []byte) (int, error) {
	p.wlock.Lock()
	defer p.wlock.Unlock()
	n, err := p.rw.Write(b)
	if n > 0 {
		p.rx.push(b[:n])
	}
	return n, err
}

// Close closes the wrapped port if possible.
func (p *SingleWirePort) Close() error {
	p.rx.closeWithError(nil)
	if closer, ok := p.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
