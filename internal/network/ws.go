package network

import (
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSPath is the HTTP path the ws transport upgrades on.
const WSPath = "/keys"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64,
	WriteBufferSize: 64,
	// Allow all origins; the channel is unauthenticated anyway
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConn exposes a WebSocket as a byte stream. Each Write is sent as one
// binary message; Read concatenates incoming binary messages.
type wsConn struct {
	ws *websocket.Conn
	r  io.Reader
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			mt, r, err := c.ws.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					return 0, io.EOF
				}
				return 0, err
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			c.r = r
		}
		n, err := c.r.Read(p)
		if err == io.EOF {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if errors.Is(werr, websocket.ErrCloseSent) {
		werr = nil
	}
	return errors.Join(werr, c.ws.Close())
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

func dialWS(addr string) (Conn, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: WSPath}
	log.Printf("WS: Connecting to %s", u.String())

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{ws: ws}, nil
}

// wsListener serves HTTP until the first successful upgrade.
type wsListener struct {
	ln     net.Listener
	srv    *http.Server
	conns  chan Conn
	errc   chan error
	closed chan struct{}
	once   sync.Once
	taken  atomic.Bool
}

func listenWS(addr string) (*wsListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	l := &wsListener{
		ln:     ln,
		conns:  make(chan Conn, 1),
		errc:   make(chan error, 1),
		closed: make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(WSPath, l.handleUpgrade)
	l.srv = &http.Server{Handler: mux}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errc <- err
		}
	}()
	return l, nil
}

func (l *wsListener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if !l.taken.CompareAndSwap(false, true) {
		log.Printf("WS: Refusing second client from %s", r.RemoteAddr)
		http.Error(w, "host already has a client", http.StatusConflict)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS: Failed to upgrade connection: %v", err)
		l.taken.Store(false)
		return
	}
	l.conns <- &wsConn{ws: ws}
}

func (l *wsListener) Accept() (Conn, error) {
	select {
	case c := <-l.conns:
		l.Close()
		return c, nil
	case err := <-l.errc:
		l.Close()
		return nil, err
	case <-l.closed:
		return nil, net.ErrClosed
	}
}

// Close stops the HTTP server. An upgraded connection is hijacked and
// survives it.
func (l *wsListener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.closed)
		err = l.srv.Close()
	})
	return err
}

func (l *wsListener) Addr() net.Addr {
	return l.ln.Addr()
}
