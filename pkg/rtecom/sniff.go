package rtecom

// Sniffed is a request recovered from observed host bytes, or the bytes
// skipped while looking for one.
type Sniffed struct {
	Request Request
	Skipped []byte
}

// Sniffer recovers requests from a byte stream observed on the line,
// sliding one byte ahead whenever no valid packet starts at the head.
type Sniffer struct {
	buf []byte
}

// Feed appends observed bytes and returns what could be decoded.
func (s *Sniffer) Feed(p []byte) []Sniffed {
	s.buf = append(s.buf, p...)
	var out []Sniffed
	var skipped []byte
	flush := func() {
		if len(skipped) > 0 {
			out = append(out, Sniffed{Skipped: skipped})
			skipped = nil
		}
	}
	for len(s.buf) > 0 {
		if !Command(s.buf[0]).IsValid() {
			skipped = append(skipped, s.buf[0])
			s.buf = s.buf[1:]
			continue
		}
		if len(s.buf) < PacketLen {
			break
		}
		req, err := ParseRequest(s.buf[:PacketLen])
		if err != nil {
			skipped = append(skipped, s.buf[0])
			s.buf = s.buf[1:]
			continue
		}
		flush()
		out = append(out, Sniffed{Request: req})
		s.buf = s.buf[PacketLen:]
	}
	flush()
	return out
}
