package transport

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate is used when the serial URL has no baud parameter.
const DefaultBaudRate = 115200

// SerialMode parses the port settings from the URL query.
func SerialMode(query url.Values) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	var err error
	if s := query.Get("baud"); s != "" {
		if mode.BaudRate, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid baud %q: %w", s, err)
		}
	}
	if s := query.Get("databits"); s != "" {
		if mode.DataBits, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid databits %q: %w", s, err)
		}
	}
	switch strings.ToUpper(query.Get("parity")) {
	case "", "N":
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	default:
		return nil, fmt.Errorf("invalid parity %q", query.Get("parity"))
	}
	switch query.Get("stopbits") {
	case "", "1":
	case "1.5":
		mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stopbits %q", query.Get("stopbits"))
	}
	return mode, nil
}

// OpenSerial opens serial:///dev/ttyUSB0 or serial://COM3.
func OpenSerial(u *url.URL) (serial.Port, error) {
	mode, err := SerialMode(u.Query())
	if err != nil {
		return nil, err
	}
	name := u.Host + u.Path
	if name == "" {
		return nil, fmt.Errorf("serial port name missing in %q", u.String())
	}
	return serial.Open(name, mode)
}

// SerialPorts lists the serial ports of the system.
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}
