//go:build rtecom_memread && rtecom_memwrite

package rtecom

// dispatchMemoryWrite serves WRITE32/16/8 on aligned addresses inside
// Config.MemoryRanges.
func (h *Handler) dispatchMemoryWrite(req Request) []byte {
	var size int
	switch req.Command {
	case CmdWrite32:
		size = 4
	case CmdWrite16:
		size = 2
	case CmdWrite8:
		size = 1
	default:
		return nil
	}
	if !aligned(req.Address, size) || !h.memoryAllowed(req.Address, size) {
		return nil
	}
	mem := h.memory()
	switch size {
	case 4:
		mem.Write32(req.Address, req.Data)
	case 2:
		mem.Write16(req.Address, uint16(req.Data))
	default:
		mem.Write8(req.Address, uint8(req.Data))
	}
	return Ack()
}
