package rtecom

func (h *Handler) dispatch(req Request) []byte {
	var resp []byte
	switch req.Command {
	case CmdWriteDebugRegion:
		resp = h.writeDebugRegion(req)
	case CmdReadDebugRegion:
		resp = h.readDebugRegion(req)
	default:
		resp = h.dispatchMemory(req)
	}
	if resp == nil {
		h.stats.Nacks++
		return req.Command.Nack()
	}
	if len(resp) == 1 && resp[0] == Checksum {
		h.stats.Acks++
	}
	return resp
}

// writeDebugRegion only accepts word indexes inside the header.
func (h *Handler) writeDebugRegion(req Request) []byte {
	if uint64(req.Address) >= uint64(h.Region.HeaderSize()/4) {
		return nil
	}
	h.Region.WriteWord(int(req.Address), req.Data)
	return Ack()
}

func (h *Handler) readDebugRegion(req Request) []byte {
	size := uint64(req.Data)
	if size == 0 || size > uint64(h.config.MaxTransfer) {
		return nil
	}
	if uint64(req.Address)+size > uint64(h.Region.Size()) {
		return nil
	}
	return h.Region.ReadBytes(int(req.Address), int(size))
}
