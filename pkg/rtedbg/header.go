package rtedbg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortHeader indicates not enough bytes for a header.
var ErrShortHeader = errors.New("short header")

// Header is the decoded control part of the region.
type Header struct {
	LastIndex          uint32
	Filter             uint32
	Config             uint32
	TimestampFrequency uint32
	FilterCopy         uint32
	BufferSize         uint32
}

// DecodeHeader decodes the header from the start of the region bytes.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	w := func(index int) uint32 {
		return binary.LittleEndian.Uint32(b[index*4:])
	}
	return Header{
		LastIndex:          w(IndexLastIndex),
		Filter:             w(IndexFilter),
		Config:             w(IndexConfig),
		TimestampFrequency: w(IndexTimestampFrequency),
		FilterCopy:         w(IndexFilterCopy),
		BufferSize:         w(IndexBufferSize),
	}, nil
}

// RegionSize is the total region size described by the header.
func (h Header) RegionSize() int {
	return HeaderSize + int(h.BufferSize)*4
}

// String implements fmt.Stringer.
func (h Header) String() string {
	return fmt.Sprintf("index=%d filter=0x%08x cfg=0x%08x freq=%d filter_copy=0x%08x size=%d",
		h.LastIndex, h.Filter, h.Config, h.TimestampFrequency, h.FilterCopy, h.BufferSize)
}
