package rtecom

import (
	"encoding/binary"
	"fmt"
)

const (
	// PacketLen is the length of every request sent by the host.
	PacketLen = 10

	// Checksum is the expected XOR of all request bytes. It is also the ACK byte.
	Checksum byte = 0x0F

	// DefaultMaxTransfer is the largest response a single transmit can carry.
	DefaultMaxTransfer = 0xFFFF
)

// Offsets of the request fields.
const (
	offCommand  = 0
	offChecksum = 1
	offAddress  = 2
	offData     = 6
)

// Command identifies the requested operation.
type Command byte

// Commands. The first two are always available.
const (
	// CmdWriteDebugRegion writes Data as the 32-bit header word with index Address.
	CmdWriteDebugRegion Command = iota
	// CmdReadDebugRegion reads Data bytes from offset Address of the region.
	CmdReadDebugRegion
	// CmdRead reads Data bytes from absolute address Address.
	CmdRead
	// CmdWrite32 writes a 32-bit value to absolute address Address.
	CmdWrite32
	// CmdWrite16 writes a 16-bit value to absolute address Address.
	CmdWrite16
	// CmdWrite8 writes an 8-bit value to absolute address Address.
	CmdWrite8
	// CmdLast is the first invalid command value.
	CmdLast
)

var commandNames = [...]string{
	CmdWriteDebugRegion: "WRITE_RTEDBG",
	CmdReadDebugRegion:  "READ_RTEDBG",
	CmdRead:             "READ",
	CmdWrite32:          "WRITE32",
	CmdWrite16:          "WRITE16",
	CmdWrite8:           "WRITE8",
}

// IsValid checks if the command is within the known range.
func (c Command) IsValid() bool {
	return c < CmdLast
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if c.IsValid() {
		return commandNames[c]
	}
	return fmt.Sprintf("CMD(%d)", byte(c))
}

// Ack returns the single byte response for success.
func Ack() []byte {
	return []byte{Checksum}
}

// Nack returns the single byte response refusing a command.
func (c Command) Nack() []byte {
	return []byte{byte(c)}
}

// Request is a decoded host request.
type Request struct {
	Command Command
	Address uint32
	Data    uint32
}

// ChecksumOf calculates the XOR of all bytes.
func ChecksumOf(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum ^= v
	}
	return sum
}

// Bytes encodes the request with a checksum byte that makes the packet valid.
func (r Request) Bytes() []byte {
	b := make([]byte, PacketLen)
	b[offCommand] = byte(r.Command)
	binary.LittleEndian.PutUint32(b[offAddress:], r.Address)
	binary.LittleEndian.PutUint32(b[offData:], r.Data)
	b[offChecksum] = Checksum ^ ChecksumOf(b)
	return b
}

// String implements fmt.Stringer.
func (r Request) String() string {
	return fmt.Sprintf("%s address=0x%08x data=0x%08x", r.Command, r.Address, r.Data)
}

// ParseRequest decodes and validates a complete packet.
func ParseRequest(b []byte) (Request, error) {
	if len(b) != PacketLen {
		return Request{}, ErrPacketLength
	}
	if !Command(b[offCommand]).IsValid() {
		return Request{}, &UnknownCommandError{Command: b[offCommand]}
	}
	if ChecksumOf(b) != Checksum {
		return Request{}, ErrChecksum
	}
	return decodeRequest(b), nil
}

func decodeRequest(b []byte) Request {
	return Request{
		Command: Command(b[offCommand]),
		Address: binary.LittleEndian.Uint32(b[offAddress:]),
		Data:    binary.LittleEndian.Uint32(b[offData:]),
	}
}
