package rtecom

import "time"

// Region is the debug-log data structure exposed to the host.
type Region interface {
	// Size is the total size of the region in bytes.
	Size() int
	// HeaderSize is the size of the header in bytes, i.e. the buffer offset.
	HeaderSize() int
	ReadWord(index int) uint32
	WriteWord(index int, value uint32)
	// ReadBytes returns a copy of n bytes starting at offset.
	ReadBytes(offset, n int) []byte
}

// Transmitter sends a response to the host without blocking.
type Transmitter interface {
	Send([]byte)
}

// SendFunc is func type of Transmitter.
type SendFunc func([]byte)

// Send implements Transmitter.
func (f SendFunc) Send(p []byte) {
	f(p)
}

// Config selects the build-time options of a Handler.
type Config struct {
	// SingleWire drops the echo of every response sent.
	SingleWire bool
	// MaxTransfer limits the size of a single response.
	MaxTransfer int
	// Memory overrides the raw memory accessor (raw memory builds only).
	Memory Memory
	// MemoryRanges lists the address windows raw memory commands may touch.
	MemoryRanges []AddressRange
	// Now is the clock for the last byte timestamp.
	Now func() time.Time
}

// Stats counts what the handler has seen.
type Stats struct {
	Packets        uint64
	Acks           uint64
	Nacks          uint64
	LineErrors     uint64
	BadCommands    uint64
	ChecksumErrors uint64
	EchoBytes      uint64
	Resets         uint64
}

// Handler assembles, validates and executes requests.
type Handler struct {
	Region      Region
	Transmitter Transmitter

	config     Config
	state      receiveState
	lastByteAt time.Time
	stats      Stats
}

// NewHandler creates a Handler.
func NewHandler(region Region, tx Transmitter, conf Config) *Handler {
	if conf.MaxTransfer <= 0 {
		conf.MaxTransfer = DefaultMaxTransfer
	}
	if conf.Now == nil {
		conf.Now = time.Now
	}
	return &Handler{Region: region, Transmitter: tx, config: conf}
}

// Config gets the configuration in use.
func (h *Handler) Config() Config {
	return h.config
}

// ByteReceived consumes one received byte. lineErr reports a hardware
// reception error (framing, parity, noise, overrun) for this byte.
// It returns the response sent, or nil.
func (h *Handler) ByteReceived(b byte, lineErr bool) []byte {
	s := &h.state
	if s.mode == rxDiscarding {
		h.stats.EchoBytes++
		h.lastByteAt = h.config.Now()
		s.skip()
		return nil
	}

	switch {
	case lineErr:
		h.stats.LineErrors++
		s.reset()
		return nil
	case s.count == 0 && !Command(b).IsValid():
		h.stats.BadCommands++
		s.reset()
		return nil
	case s.count >= PacketLen:
		s.reset()
		return nil
	}

	s.push(b)
	if !s.complete() {
		h.lastByteAt = h.config.Now()
		return nil
	}

	h.stats.Packets++
	if s.checksum != Checksum {
		h.stats.ChecksumErrors++
		s.reset()
		return nil
	}

	resp := h.dispatch(s.request())
	h.send(resp)
	return resp
}

// Pending is the number of bytes of a partially received packet.
func (h *Handler) Pending() int {
	if h.state.mode == rxReceiving {
		return h.state.count
	}
	return 0
}

// Discarding is the number of echoed bytes still to be dropped.
func (h *Handler) Discarding() int {
	if h.state.mode == rxDiscarding {
		return h.state.count
	}
	return 0
}

// Idle indicates no packet is in progress and no echo is expected.
func (h *Handler) Idle() bool {
	return h.state.mode == rxReceiving && h.state.count == 0
}

// LastByteAt is the time the last byte of an unfinished packet arrived,
// or, while discarding, the time the echo was armed or last progressed.
func (h *Handler) LastByteAt() time.Time {
	return h.lastByteAt
}

// Reset drops any partial packet or pending echo.
func (h *Handler) Reset() {
	if !h.Idle() {
		h.stats.Resets++
	}
	h.state.reset()
}

// Stats gets the counters.
func (h *Handler) Stats() Stats {
	return h.stats
}

func (h *Handler) send(resp []byte) {
	if tx := h.Transmitter; tx != nil {
		tx.Send(resp)
	}
	if h.config.SingleWire {
		h.state.discard(len(resp))
		h.lastByteAt = h.config.Now()
		return
	}
	h.state.reset()
}
