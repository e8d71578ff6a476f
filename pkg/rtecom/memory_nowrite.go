//go:build rtecom_memread && !rtecom_memwrite

package rtecom

func (h *Handler) dispatchMemoryWrite(Request) []byte {
	return nil
}
