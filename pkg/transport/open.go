package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/golang/glog"

	"github.com/robotalks/rtecom/pkg/transport/mqtt"
)

// UnsupportedSchemeError is returned for an unknown URL scheme.
type UnsupportedSchemeError struct {
	Scheme string
}

// Error implements error.
func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported transport %q", e.Scheme)
}

// Open connects to the transport at rawURL.
func Open(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("open %s", u.Redacted())
	switch u.Scheme {
	case "serial":
		return OpenSerial(u)
	case "tcp":
		var d net.Dialer
		return d.DialContext(ctx, "tcp", u.Host)
	case "ws", "wss":
		return DialWebSocket(ctx, u)
	case "mqtt", "ssl":
		ep, err := mqtt.ParseURL(rawURL)
		if err != nil {
			return nil, err
		}
		return mqtt.Dial(ep)
	default:
		return nil, &UnsupportedSchemeError{Scheme: u.Scheme}
	}
}

// Listener accepts connections from hosts.
type Listener interface {
	Accept() (io.ReadWriteCloser, error)
	Addr() string
	Close() error
}

// Listen listens on a tcp or ws URL.
func Listen(rawURL string) (Listener, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "tcp":
		ln, err := net.Listen("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return &tcpListener{ln}, nil
	case "ws":
		return ListenWebSocket(u)
	default:
		return nil, &UnsupportedSchemeError{Scheme: u.Scheme}
	}
}

type tcpListener struct {
	net.Listener
}

func (l *tcpListener) Accept() (io.ReadWriteCloser, error) {
	return l.Listener.Accept()
}

func (l *tcpListener) Addr() string {
	return l.Listener.Addr().String()
}

// IsSerial checks if rawURL addresses a serial port, where a single-wire
// line echoes in hardware.
func IsSerial(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme == "serial"
}
