package transport

import (
	"io"
	"sync"
)

// byteQueue is an unbounded byte buffer with blocking reads.
type byteQueue struct {
	lock   sync.Mutex
	cond   *sync.Cond
	buf    []byte
	err    error
	closed bool
}

func newByteQueue() *byteQueue {
	q := &byteQueue{}
	q.cond = sync.NewCond(&q.lock)
	return q
}

func (q *byteQueue) Read(p []byte) (int, error) {
	q.lock.Lock()
	defer q.lock.Unlock()
	for len(q.buf) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.buf) == 0 {
		if q.err != nil {
			return 0, q.err
		}
		return 0, io.EOF
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	return n, nil
}

func (q *byteQueue) push(p []byte) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.closed {
		return io.ErrClosedPipe
	}
	q.buf = append(q.buf, p...)
	q.cond.Broadcast()
	return nil
}

// closeWithError makes Read return err once the buffer is drained.
func (q *byteQueue) closeWithError(err error) {
	q.lock.Lock()
	if !q.closed {
		q.closed, q.err = true, err
		q.cond.Broadcast()
	}
	q.lock.Unlock()
}
