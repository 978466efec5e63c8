package network

import (
	"errors"
	"io"
	"log"
	"sync/atomic"

	"remotekb/internal/input"
	"remotekb/internal/protocol"
)

// Session outcomes, as recorded in the history store.
const (
	OutcomeEOF           = "eof"
	OutcomeClosed        = "closed"
	OutcomeProtocolError = "protocol_error"
	OutcomeIOError       = "io_error"
)

// Outcome classifies the error a session ended with. clean is the outcome
// reported for a nil error.
func Outcome(err error, clean string) string {
	switch {
	case err == nil:
		return clean
	case protocol.IsProtocolError(err):
		return OutcomeProtocolError
	default:
		return OutcomeIOError
	}
}

// HostSession replays the frames of one connection into an injector. One
// frame is decoded and injected before the next read starts.
type HostSession struct {
	conn     Conn
	injector input.Injector
	frames   atomic.Int64
	bytes    atomic.Int64
	closed   atomic.Bool
}

// NewHostSession creates a session over conn.
func NewHostSession(conn Conn, injector input.Injector) *HostSession {
	return &HostSession{conn: conn, injector: injector}
}

// Run decodes frames until the client disconnects. A clean end of stream
// returns nil; any other error is returned and ends the session. Run never
// retries or resynchronises.
func (s *HostSession) Run() error {
	for {
		ev, err := protocol.Decode(s.conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Printf("Host: Terminated connection (%d frames)", s.frames.Load())
				return nil
			}
			if s.closed.Load() {
				log.Printf("Host: Session closed locally (%d frames)", s.frames.Load())
				return nil
			}
			log.Printf("Host: %v", err)
			return err
		}

		s.frames.Add(1)
		s.bytes.Add(int64(ev.Len()))
		s.injector.InjectKey(ev.Key, ev.Pressed)
	}
}

// Close ends a running session from another goroutine. Run then returns nil.
func (s *HostSession) Close() error {
	s.closed.Store(true)
	return s.conn.Close()
}

// Frames returns the number of frames decoded so far.
func (s *HostSession) Frames() int64 { return s.frames.Load() }

// Bytes returns the number of frame bytes decoded so far.
func (s *HostSession) Bytes() int64 { return s.bytes.Load() }
