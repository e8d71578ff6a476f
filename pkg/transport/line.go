package transport

import "io"

// Line is an in-memory serial line between a host end and a device end.
// On a single-wire line every byte written by one end is also received
// by the writer itself, like a half-duplex UART with TX and RX tied.
type Line struct {
	singleWire bool
	host       *lineEnd
	device     *lineEnd
}

type lineEnd struct {
	*byteQueue
	line *Line
	peer *lineEnd
}

// NewLine creates a Line.
func NewLine(singleWire bool) *Line {
	l := &Line{singleWire: singleWire}
	l.host = &lineEnd{byteQueue: newByteQueue(), line: l}
	l.device = &lineEnd{byteQueue: newByteQueue(), line: l}
	l.host.peer, l.device.peer = l.device, l.host
	return l
}

// Pipe is a two-wire Line returned as its host and device ends.
func Pipe() (host, device io.ReadWriteCloser) {
	l := NewLine(false)
	return l.Host(), l.Device()
}

// Host is the host end.
func (l *Line) Host() io.ReadWriteCloser {
	return l.host
}

// Device is the device end.
func (l *Line) Device() io.ReadWriteCloser {
	return l.device
}

// Close closes both ends.
func (l *Line) Close() error {
	l.host.Close()
	return l.device.Close()
}

func (e *lineEnd) Write(p []byte) (int, error) {
	if err := e.peer.push(p); err != nil {
		return 0, err
	}
	if e.line.singleWire {
		if err := e.push(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (e *lineEnd) Close() error {
	e.closeWithError(nil)
	return nil
}
