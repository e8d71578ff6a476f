// Package transport opens the byte streams RTEcom runs over.
//
// A transport is addressed by URL:
//
//	serial:///dev/ttyUSB0?baud=115200&parity=N&databits=8&stopbits=1
//	tcp://localhost:7400
//	ws://localhost:7401/rtecom
//	mqtt://broker:1883/prefix/device[?role=device]
//	line://           in-memory, see NewLine
//
// The simulator side listens on tcp and ws URLs.
package transport
