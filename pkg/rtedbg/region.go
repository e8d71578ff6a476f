// Package rtedbg provides the debug-log data structure served over RTEcom.
//
// The region is a small header of 32-bit control words followed by a
// ring buffer of 32-bit words. All words are little-endian in the byte
// view the host reads.
package rtedbg

import (
	"encoding/binary"
	"sync"
	"time"
)

// Header word indexes.
const (
	IndexLastIndex = iota
	IndexFilter
	IndexConfig
	IndexTimestampFrequency
	IndexFilterCopy
	IndexBufferSize

	// HeaderWords is the number of words in the header.
	HeaderWords
)

// HeaderSize is the size of the header in bytes.
const HeaderSize = HeaderWords * 4

// Defaults.
const (
	DefaultBufferWords               = 1024
	DefaultTimestampFrequency        = 1000000
	DefaultFilter             uint32 = 0xffffffff
)

// Region is the header and ring buffer guarded by a mutex, so a log
// producer and the protocol engine can run on different goroutines.
type Region struct {
	// Clock returns the current timestamp in TimestampFrequency ticks.
	Clock func() uint32

	lock sync.Mutex
	data []byte
}

// New creates a Region with the buffer size in words.
func New(bufferWords int) *Region {
	if bufferWords <= 0 {
		bufferWords = DefaultBufferWords
	}
	r := &Region{data: make([]byte, HeaderSize+bufferWords*4)}
	r.putWord(IndexFilter, DefaultFilter)
	r.putWord(IndexTimestampFrequency, DefaultTimestampFrequency)
	r.putWord(IndexBufferSize, uint32(bufferWords))
	start := time.Now()
	r.Clock = func() uint32 {
		return uint32(time.Since(start) / time.Microsecond)
	}
	return r
}

// Size implements rtecom.Region.
func (r *Region) Size() int {
	return len(r.data)
}

// HeaderSize implements rtecom.Region.
func (r *Region) HeaderSize() int {
	return HeaderSize
}

// BufferWords is the ring buffer size in words.
func (r *Region) BufferWords() int {
	return (len(r.data) - HeaderSize) / 4
}

// ReadWord implements rtecom.Region.
func (r *Region) ReadWord(index int) uint32 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.word(index)
}

// WriteWord implements rtecom.Region.
func (r *Region) WriteWord(index int, value uint32) {
	r.lock.Lock()
	r.putWord(index, value)
	r.lock.Unlock()
}

// ReadBytes implements rtecom.Region.
func (r *Region) ReadBytes(offset, n int) []byte {
	out := make([]byte, n)
	r.lock.Lock()
	copy(out, r.data[offset:offset+n])
	r.lock.Unlock()
	return out
}

// Header decodes the current header.
func (r *Region) Header() Header {
	r.lock.Lock()
	defer r.lock.Unlock()
	h, _ := DecodeHeader(r.data)
	return h
}

// Clear empties the ring buffer.
func (r *Region) Clear() {
	r.lock.Lock()
	defer r.lock.Unlock()
	for n := HeaderSize; n < len(r.data); n++ {
		r.data[n] = 0
	}
	r.putWord(IndexLastIndex, 0)
}

// Log appends a message if filterNo is enabled in the filter word.
// The entry is the argument words followed by a word carrying the
// format ID in the upper 16 bits and the timestamp in the lower 16 bits.
func (r *Region) Log(filterNo uint, fmtID uint16, args ...uint32) bool {
	if filterNo >= 32 {
		return false
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.word(IndexFilter)&(1<<filterNo) == 0 {
		return false
	}
	size := r.BufferWords()
	words := len(args) + 1
	if words > size {
		return false
	}
	index := int(r.word(IndexLastIndex))
	if index+words > size {
		index = 0
	}
	for _, arg := range args {
		r.putBufferWord(index, arg)
		index++
	}
	r.putBufferWord(index, uint32(fmtID)<<16|r.Clock()&0xffff)
	index++
	r.putWord(IndexLastIndex, uint32(index))
	return true
}

func (r *Region) word(index int) uint32 {
	return binary.LittleEndian.Uint32(r.data[index*4:])
}

func (r *Region) putWord(index int, value uint32) {
	binary.LittleEndian.PutUint32(r.data[index*4:], value)
}

func (r *Region) putBufferWord(index int, value uint32) {
	r.putWord(HeaderWords+index, value)
}
