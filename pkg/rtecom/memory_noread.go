//go:build !rtecom_memread

package rtecom

// MemoryCommands reports which raw memory commands are compiled in.
const MemoryCommands = false

func (h *Handler) dispatchMemory(Request) []byte {
	return nil
}
