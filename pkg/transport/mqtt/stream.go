package mqtt

import (
	"errors"
	"io"
	"sync"
)

// Topic suffixes of a device: the host publishes to rx and the device
// publishes to tx.
const (
	TopicRx = "rx"
	TopicTx = "tx"
)

var errNoDevice = errors.New("device name missing")

// Stream is a byte stream carried by MQTT messages.
type Stream struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	sub    *Subscription
	lock   sync.Mutex
	cond   *sync.Cond
	buf    []byte
	closed bool
}

// NewStream subscribes SubTopic and returns the Stream.
func NewStream(q *Queue, subTopic, pubTopic string) (*Stream, error) {
	s := &Stream{Queue: q, SubTopic: subTopic, PubTopic: pubTopic}
	s.cond = sync.NewCond(&s.lock)
	s.sub = q.Sub(subTopic, s.handleMsg)
	if s.sub.Token.Wait() && s.sub.Token.Error() != nil {
		return nil, s.sub.Token.Error()
	}
	return s, nil
}

// Dial connects to the broker in ep and opens the stream of its device.
func Dial(ep *Endpoint) (*Stream, error) {
	q := NewQueue(ep.Options, ep.TopicPrefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	sub, pub := ep.Device+"/"+TopicTx, ep.Device+"/"+TopicRx
	if ep.Role == "device" {
		sub, pub = pub, sub
	}
	s, err := NewStream(q, sub, pub)
	if err != nil {
		q.Close()
		return nil, err
	}
	return s, nil
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Write implements io.Writer, publishing p as one message.
func (s *Stream) Write(p []byte) (int, error) {
	token := s.Queue.Pub(s.PubTopic, append([]byte(nil), p...))
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close unsubscribes and disconnects.
func (s *Stream) Close() error {
	s.lock.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.lock.Unlock()
	err := s.sub.Close()
	s.Queue.Close()
	return err
}

func (s *Stream) handleMsg(_ string, payload []byte) {
	s.lock.Lock()
	s.buf = append(s.buf, payload...)
	s.cond.Broadcast()
	s.lock.Unlock()
}
