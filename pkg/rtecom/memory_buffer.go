package rtecom

import (
	"encoding/binary"
	"sync"
)

// BufferMemory is a Memory backed by a byte slice mapped at Base.
// Accesses outside the slice read zeros and are otherwise ignored.
type BufferMemory struct {
	Base uint32

	lock sync.RWMutex
	data []byte
}

// NewBufferMemory creates size bytes of memory at base.
func NewBufferMemory(base uint32, size int) *BufferMemory {
	return &BufferMemory{Base: base, data: make([]byte, size)}
}

// Range is the address window of the buffer.
func (m *BufferMemory) Range() AddressRange {
	return AddressRange{Start: m.Base, End: uint32(uint64(m.Base) + uint64(len(m.data)))}
}

func (m *BufferMemory) slice(address uint32, n int) []byte {
	if address < m.Base {
		return nil
	}
	off := uint64(address - m.Base)
	if off+uint64(n) > uint64(len(m.data)) {
		return nil
	}
	return m.data[off : off+uint64(n)]
}

// ReadBytes implements Memory.
func (m *BufferMemory) ReadBytes(address uint32, n int) []byte {
	out := make([]byte, n)
	m.lock.RLock()
	copy(out, m.slice(address, n))
	m.lock.RUnlock()
	return out
}

// Read16 implements Memory.
func (m *BufferMemory) Read16(address uint32) uint16 {
	return binary.LittleEndian.Uint16(m.ReadBytes(address, 2))
}

// Read32 implements Memory.
func (m *BufferMemory) Read32(address uint32) uint32 {
	return binary.LittleEndian.Uint32(m.ReadBytes(address, 4))
}

func (m *BufferMemory) write(address uint32, p []byte) {
	m.lock.Lock()
	copy(m.slice(address, len(p)), p)
	m.lock.Unlock()
}

// Write32 implements Memory.
func (m *BufferMemory) Write32(address uint32, value uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	m.write(address, b[:])
}

// Write16 implements Memory.
func (m *BufferMemory) Write16(address uint32, value uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], value)
	m.write(address, b[:])
}

// Write8 implements Memory.
func (m *BufferMemory) Write8(address uint32, value uint8) {
	m.write(address, []byte{value})
}
