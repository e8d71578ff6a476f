package host

import (
	"errors"
	"fmt"

	"github.com/robotalks/rtecom/pkg/rtecom"
)

var (
	// ErrNoResponse indicates the device did not answer in time.
	ErrNoResponse = errors.New("no response")
	// ErrEchoMismatch indicates the single-wire echo differs from the request.
	ErrEchoMismatch = errors.New("single-wire echo mismatch")
)

// NackError is returned when the device refuses a request.
type NackError struct {
	Command rtecom.Command
}

// Error implements error.
func (e *NackError) Error() string {
	return fmt.Sprintf("%v refused", e.Command)
}

// UnexpectedResponseError is returned when an ACK was expected but
// another byte arrived.
type UnexpectedResponseError struct {
	Byte byte
}

// Error implements error.
func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response 0x%02x", e.Byte)
}
