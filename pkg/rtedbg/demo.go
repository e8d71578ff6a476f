package rtedbg

import (
	"context"
	"time"
)

// Filters and format IDs of the demo messages.
const (
	FilterDemo uint = 1

	MsgResetCause        uint16 = 4
	MsgWatchdogReload    uint16 = 6
	MsgTick              uint16 = 50
	MsgPushbuttonPressed uint16 = 256
)

// Demo produces log entries the way a demo firmware does: the reset
// cause once, then a tick message and a watchdog reload every interval.
type Demo struct {
	Region   *Region
	Interval time.Duration
	// ResetCause is logged once on start.
	ResetCause uint32
	// PressEvery simulates a pushbutton press every PressEvery ticks.
	PressEvery int

	presses uint8
}

// Run implements framework.Runnable.
func (d *Demo) Run(ctx context.Context) error {
	interval := d.Interval
	if interval <= 0 {
		interval = time.Second
	}
	d.Region.Log(FilterDemo, MsgResetCause, d.ResetCause)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var ticks uint32
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ticks++
			d.Region.Log(FilterDemo, MsgTick, ticks)
			d.Region.Log(FilterDemo, MsgWatchdogReload)
			if d.PressEvery > 0 && ticks%uint32(d.PressEvery) == 0 {
				d.presses++
				d.Pushbutton(d.presses)
			}
		}
	}
}

// Pushbutton logs a pushbutton event with the press count.
func (d *Demo) Pushbutton(count uint8) bool {
	return d.Region.Log(FilterDemo, MsgPushbuttonPressed, uint32(count))
}
