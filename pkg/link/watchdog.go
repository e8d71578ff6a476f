package link

import (
	"time"

	"github.com/robotalks/rtecom/pkg/rtecom"
)

// DefaultTimeout is the time an unfinished packet may stay idle.
// For single-wire links it must be longer than the gap between two echoed bytes.
const DefaultTimeout = 100 * time.Millisecond

// Watchdog drops packets abandoned by the host.
type Watchdog struct {
	Timeout time.Duration
}

// Check resets the handler when a partial packet or a pending echo has
// not progressed for Timeout. It reports whether a reset happened.
func (w Watchdog) Check(h *rtecom.Handler, now time.Time) bool {
	if h.Idle() {
		return false
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if now.Sub(h.LastByteAt()) < timeout {
		return false
	}
	h.Reset()
	return true
}
