package rtecom

import (
	"errors"
	"fmt"
)

var (
	// ErrPacketLength indicates a packet is not PacketLen bytes long.
	ErrPacketLength = errors.New("invalid packet length")
	// ErrChecksum indicates the XOR of the packet is not Checksum.
	ErrChecksum = errors.New("checksum mismatch")
)

// UnknownCommandError reports a command byte outside the known range.
type UnknownCommandError struct {
	Command byte
}

// Error implements error.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %d", e.Command)
}
