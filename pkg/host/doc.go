// Package host is the requesting side of RTEcom: it sends 10-byte
// requests to a device and collects the ACK, NACK or data responses.
package host
