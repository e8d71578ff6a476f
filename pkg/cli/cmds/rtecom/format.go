package rtecom

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/robotalks/rtecom/pkg/rtedbg"
)

// Dump formats data as lines of 16 bytes prefixed by their address.
func Dump(address uint32, data []byte) string {
	var w bytes.Buffer
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&w, "%08x:", address+uint32(off))
		for _, b := range data[off:end] {
			fmt.Fprintf(&w, " %02x", b)
		}
		if end < len(data) {
			w.WriteByte('\n')
		}
	}
	return w.String()
}

// Entry is a logged message: its argument words followed by the word
// carrying the format ID and timestamp.
type Entry struct {
	Index     int      `json:"index"`
	FormatID  uint16   `json:"fmt"`
	Timestamp uint16   `json:"ts"`
	Args      []uint32 `json:"args,omitempty"`
}

// DecodeEntries walks the buffer words back from lastIndex, given the
// number of argument words each format ID carries. Entries are returned
// oldest first.
func DecodeEntries(buf []byte, lastIndex int, argWords func(fmtID uint16) int) []Entry {
	if words := len(buf) / 4; lastIndex > words {
		lastIndex = words
	}
	word := func(n int) uint32 {
		return binary.LittleEndian.Uint32(buf[n*4:])
	}
	var entries []Entry
	for n := lastIndex - 1; n >= 0; {
		w := word(n)
		e := Entry{FormatID: uint16(w >> 16), Timestamp: uint16(w)}
		count := argWords(e.FormatID)
		if count > n {
			break
		}
		e.Index = n - count
		for i := e.Index; i < n; i++ {
			e.Args = append(e.Args, word(i))
		}
		entries = append(entries, e)
		n = e.Index - 1
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// DemoArgWords is the argument count of the simulated demo messages.
func DemoArgWords(fmtID uint16) int {
	switch fmtID {
	case rtedbg.MsgResetCause, rtedbg.MsgTick, rtedbg.MsgPushbuttonPressed:
		return 1
	}
	return 0
}
