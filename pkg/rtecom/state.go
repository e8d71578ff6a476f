package rtecom

type rxMode int

const (
	rxReceiving  rxMode = iota // count = bytes assembled so far
	rxDiscarding               // count = echoed bytes still to drop
)

// receiveState holds the only in-flight packet.
type receiveState struct {
	mode     rxMode
	count    int
	checksum byte
	buf      [PacketLen]byte
}

func (s *receiveState) reset() {
	s.mode, s.count, s.checksum = rxReceiving, 0, 0
}

func (s *receiveState) discard(n int) {
	if n <= 0 {
		s.reset()
		return
	}
	s.mode, s.count, s.checksum = rxDiscarding, n, 0
}

// skip drops one echoed byte and reports whether reception resumed.
func (s *receiveState) skip() bool {
	if s.count--; s.count <= 0 {
		s.reset()
		return true
	}
	return false
}

func (s *receiveState) push(b byte) {
	s.checksum ^= b
	s.buf[s.count] = b
	s.count++
}

func (s *receiveState) complete() bool {
	return s.mode == rxReceiving && s.count >= PacketLen
}

func (s *receiveState) request() Request {
	return decodeRequest(s.buf[:])
}
