package transport

import (
	"io"
	"math/rand"
	"strings"
	"sync"
)

// LineError is the set of hardware reception errors flagged for a byte.
type LineError uint8

// Line errors reported by a UART.
const (
	LineOverrun LineError = 1 << iota
	LineNoise
	LineFraming
	LineParity
)

var lineErrorNames = []string{"overrun", "noise", "framing", "parity"}

// String implements fmt.Stringer.
func (e LineError) String() string {
	if e == 0 {
		return "none"
	}
	var names []string
	for n, name := range lineErrorNames {
		if e&(1<<uint(n)) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// Injector decides the line errors of a received byte.
type Injector func(b byte) LineError

// RandomNoise flags bytes with noise errors at the given rate (0..1).
func RandomNoise(rate float64, seed int64) Injector {
	var lock sync.Mutex
	rnd := rand.New(rand.NewSource(seed))
	return func(byte) LineError {
		lock.Lock()
		defer lock.Unlock()
		if rnd.Float64() < rate {
			return LineNoise
		}
		return 0
	}
}

// NoisyPort reports line errors from an Injector for every byte read.
// It implements link.LineErrorReader.
type NoisyPort struct {
	io.ReadWriter
	Inject Injector

	buf  [64]byte
	data []byte
}

// WithLineErrors wraps rw with an Injector.
func WithLineErrors(rw io.ReadWriter, inject Injector) *NoisyPort {
	return &NoisyPort{ReadWriter: rw, Inject: inject}
}

// ReadByteWithError reads a single byte and its line errors.
func (p *NoisyPort) ReadByteWithError() (byte, bool, error) {
	for len(p.data) == 0 {
		n, err := p.ReadWriter.Read(p.buf[:])
		p.data = p.buf[:n]
		if n == 0 && err != nil {
			return 0, false, err
		}
	}
	b := p.data[0]
	p.data = p.data[1:]
	var lineErr LineError
	if p.Inject != nil {
		lineErr = p.Inject(b)
	}
	return b, lineErr != 0, nil
}

// Close closes the wrapped port if possible.
func (p *NoisyPort) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
