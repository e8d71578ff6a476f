// Package link runs the RTEcom handler over a byte stream.
package link

// A Link is the device end of the serial line. Received bytes are fed
// to the handler from a single loop, which also runs the inactivity
// watchdog, so the receive state is never touched concurrently.
// Responses are queued to a writer goroutine and never block reception.
