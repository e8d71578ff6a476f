// Package rtecom implements the device side of the RTEcom debug protocol.
package rtecom

// RTEcom is spoken between a host tool and a small device over a serial
// line. The host always sends fixed 10-byte requests:
//
//	command(1) | checksum(1) | address(4, LE) | data(4, LE)
//
// The XOR of all 10 bytes must equal Checksum. A request which fails the
// checksum, carries an unknown command or is hit by a line error is
// dropped silently. A well-formed request is always answered: a single
// ACK byte (Checksum), a single NACK byte (the command value) or the
// requested bytes of the debug-log region.
//
// Handler is meant to be fed from a single receive context, one byte at
// a time, in arrival order. It never blocks and never logs; the only
// outputs are the response bytes handed to the Transmitter.
//
// Raw memory commands are compiled in only with build tags:
//
//	rtecom_memread                  READ
//	rtecom_memread,rtecom_memwrite  READ, WRITE32, WRITE16, WRITE8
//
// They access arbitrary addresses and exist for bench debugging only.
