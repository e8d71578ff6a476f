package transport

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// DialWebSocket connects to a ws:// URL. Bytes are sent as binary frames.
func DialWebSocket(ctx context.Context, u *url.URL) (*websocket.Conn, error) {
	origin := "http://" + u.Host
	config, err := websocket.NewConfig(u.String(), origin)
	if err != nil {
		return nil, err
	}
	config.Dialer = &net.Dialer{}
	if deadline, ok := ctx.Deadline(); ok {
		config.Dialer.Deadline = deadline
	}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}

// WebSocketListener accepts WebSocket connections on a path.
type WebSocketListener struct {
	ln     net.Listener
	server *http.Server
	connCh chan *wsConn
	done   chan struct{}
	once   sync.Once
}

type wsConn struct {
	*websocket.Conn
	closed chan struct{}
	once   sync.Once
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return c.Conn.Close()
}

// ListenWebSocket serves WebSocket upgrades at u.Path.
func ListenWebSocket(u *url.URL) (*WebSocketListener, error) {
	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, err
	}
	l := &WebSocketListener{ln: ln, connCh: make(chan *wsConn), done: make(chan struct{})}
	path := u.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(l.serve))
	l.server = &http.Server{Handler: mux}
	go func() {
		if err := l.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			glog.Errorf("websocket server: %v", err)
		}
	}()
	return l, nil
}

// the connection is released when the handler returns.
func (l *WebSocketListener) serve(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	conn := &wsConn{Conn: ws, closed: make(chan struct{})}
	select {
	case l.connCh <- conn:
	case <-l.done:
		return
	}
	select {
	case <-conn.closed:
	case <-l.done:
	}
}

// Accept implements Listener.
func (l *WebSocketListener) Accept() (io.ReadWriteCloser, error) {
	select {
	case conn := <-l.connCh:
		return conn, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

// Addr implements Listener.
func (l *WebSocketListener) Addr() string {
	return l.ln.Addr().String()
}

// Close implements Listener.
func (l *WebSocketListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return l.server.Close()
}
