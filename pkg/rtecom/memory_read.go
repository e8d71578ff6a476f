//go:build rtecom_memread

package rtecom

import (
	"encoding/binary"
	"unsafe"
)

// MemoryCommands reports which raw memory commands are compiled in.
const MemoryCommands = true

// dispatchMemory serves READ and hands writes over. The accessed window
// must be listed in Config.MemoryRanges.
func (h *Handler) dispatchMemory(req Request) []byte {
	if req.Command != CmdRead {
		return h.dispatchMemoryWrite(req)
	}
	size := int(req.Data)
	if req.Data == 0 || uint64(req.Data) > uint64(h.config.MaxTransfer) {
		return nil
	}
	if !h.memoryAllowed(req.Address, size) {
		return nil
	}
	mem := h.memory()
	switch {
	case size == 2 && aligned(req.Address, 2):
		resp := make([]byte, 2)
		binary.LittleEndian.PutUint16(resp, mem.Read16(req.Address))
		return resp
	case size == 4 && aligned(req.Address, 4):
		resp := make([]byte, 4)
		binary.LittleEndian.PutUint32(resp, mem.Read32(req.Address))
		return resp
	}
	return mem.ReadBytes(req.Address, size)
}

func (h *Handler) memory() Memory {
	if h.config.Memory != nil {
		return h.config.Memory
	}
	return unsafeMemory{}
}

// unsafeMemory dereferences device addresses directly.
type unsafeMemory struct{}

func ptr(address uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(address))
}

func (unsafeMemory) ReadBytes(address uint32, n int) []byte {
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(ptr(address)), n))
	return out
}

func (unsafeMemory) Read16(address uint32) uint16 { return *(*uint16)(ptr(address)) }
func (unsafeMemory) Read32(address uint32) uint32 { return *(*uint32)(ptr(address)) }

func (unsafeMemory) Write32(address uint32, value uint32) { *(*uint32)(ptr(address)) = value }
func (unsafeMemory) Write16(address uint32, value uint16) { *(*uint16)(ptr(address)) = value }
func (unsafeMemory) Write8(address uint32, value uint8)   { *(*uint8)(ptr(address)) = value }
