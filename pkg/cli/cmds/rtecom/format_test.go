package rtecom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtecom/pkg/rtedbg"
)

func TestDump(t *testing.T) {
	data := make([]byte, 18)
	for n := range data {
		data[n] = byte(n)
	}
	require.Equal(t,
		"00000010: 00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f\n"+
			"00000020: 10 11", Dump(0x10, data))
	require.Equal(t, "", Dump(0, nil))
}

func TestDecodeEntries(t *testing.T) {
	r := rtedbg.New(16)
	r.Clock = func() uint32 { return 7 }
	d := &rtedbg.Demo{Region: r}
	r.Log(rtedbg.FilterDemo, rtedbg.MsgResetCause, 0x0c000000)
	r.Log(rtedbg.FilterDemo, rtedbg.MsgWatchdogReload)
	d.Pushbutton(3)

	h := r.Header()
	buf := r.ReadBytes(rtedbg.HeaderSize, int(h.LastIndex)*4)
	require.Equal(t, []Entry{
		{Index: 0, FormatID: rtedbg.MsgResetCause, Timestamp: 7, Args: []uint32{0x0c000000}},
		{Index: 2, FormatID: rtedbg.MsgWatchdogReload, Timestamp: 7},
		{Index: 3, FormatID: rtedbg.MsgPushbuttonPressed, Timestamp: 7, Args: []uint32{3}},
	}, DecodeEntries(buf, int(h.LastIndex), DemoArgWords))

	// a message cut off at the start is skipped
	require.Equal(t, []Entry{
		{Index: 1, FormatID: rtedbg.MsgWatchdogReload, Timestamp: 7},
		{Index: 2, FormatID: rtedbg.MsgPushbuttonPressed, Timestamp: 7, Args: []uint32{3}},
	}, DecodeEntries(buf[4:], int(h.LastIndex)-1, DemoArgWords))
	require.Empty(t, DecodeEntries(buf, 0, DemoArgWords))
}
