// Package network carries key frames between client and host and runs the
// two session loops.
package network

import (
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
)

// Transport names a byte-stream transport.
type Transport string

const (
	TransportTCP Transport = "tcp"
	TransportWS  Transport = "ws"
)

// DefaultPort is used by both roles when no port is configured.
const DefaultPort = 58008

// ParseTransport validates a transport name.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(s); t {
	case TransportTCP, TransportWS:
		return t, nil
	}
	return "", fmt.Errorf("unknown transport %q (want tcp or ws)", s)
}

// Conn is one session's connection. Reads and writes are plain byte streams
// whatever the transport.
type Conn interface {
	io.ReadWriteCloser
	RemoteAddr() net.Addr
}

// Listener hands out exactly one connection.
type Listener interface {
	// Accept waits for the first client and stops listening. Later clients
	// are refused.
	Accept() (Conn, error)
	Close() error
	Addr() net.Addr
}

// Listen binds bind:port for the given transport.
func Listen(bind string, port int, t Transport) (Listener, error) {
	addr := net.JoinHostPort(bind, strconv.Itoa(port))
	switch t {
	case TransportTCP:
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		return &tcpListener{ln: ln}, nil
	case TransportWS:
		return listenWS(addr)
	}
	return nil, fmt.Errorf("unknown transport %q", t)
}

// Dial connects to a host.
func Dial(host string, port int, t Transport) (Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	switch t {
	case TransportTCP:
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return nil, err
		}
		if tc, ok := c.(*net.TCPConn); ok {
			// Frames are tiny and interactive; never coalesce them
			if err := tc.SetNoDelay(true); err != nil {
				log.Printf("Client: SetNoDelay failed: %v", err)
			}
		}
		return c, nil
	case TransportWS:
		return dialWS(addr)
	}
	return nil, fmt.Errorf("unknown transport %q", t)
}

type tcpListener struct {
	ln net.Listener
}

func (l *tcpListener) Accept() (Conn, error) {
	c, err := l.ln.Accept()
	l.ln.Close()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (l *tcpListener) Close() error   { return l.ln.Close() }
func (l *tcpListener) Addr() net.Addr { return l.ln.Addr() }
