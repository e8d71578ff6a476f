package rtecom

// Memory gives raw access to the device address space.
type Memory interface {
	ReadBytes(address uint32, n int) []byte
	Read16(address uint32) uint16
	Read32(address uint32) uint32
	Write32(address uint32, value uint32)
	Write16(address uint32, value uint16)
	Write8(address uint32, value uint8)
}

// AddressRange is the address window [Start, End).
type AddressRange struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end"`
}

// Contains checks if n bytes at address lie inside the window.
func (r AddressRange) Contains(address uint32, n int) bool {
	if n <= 0 || address < r.Start {
		return false
	}
	return uint64(address)+uint64(n) <= uint64(r.End)
}

// memoryAllowed checks n bytes at address against the configured windows.
func (h *Handler) memoryAllowed(address uint32, n int) bool {
	for _, r := range h.config.MemoryRanges {
		if r.Contains(address, n) {
			return true
		}
	}
	return false
}

func aligned(address uint32, size int) bool {
	return address&uint32(size-1) == 0
}
