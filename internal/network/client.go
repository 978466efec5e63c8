package network

import (
	"fmt"
	"log"
	"sync/atomic"

	"remotekb/internal/input"
	"remotekb/internal/protocol"
)

// flusher is implemented by writers that buffer.
type flusher interface {
	Flush() error
}

// ClientSession sends captured transitions to the host, one frame per
// transition, flushed immediately.
type ClientSession struct {
	conn   Conn
	buf    []byte
	frames atomic.Int64
	bytes  atomic.Int64
}

// NewClientSession creates a session over conn.
func NewClientSession(conn Conn) *ClientSession {
	return &ClientSession{conn: conn, buf: make([]byte, 0, protocol.CharFrameSize)}
}

// Run forwards transitions from src until its event channel closes, which
// returns nil. Keys without a wire form are skipped. A failed write stops src
// and is returned; there is no reconnect.
func (s *ClientSession) Run(src input.Capture) error {
	for tr := range src.Events() {
		if err := s.send(tr.Event()); err != nil {
			log.Printf("Client: %v", err)
			src.Stop()
			return err
		}
	}
	log.Printf("Client: Input closed (%d frames sent)", s.frames.Load())
	return nil
}

func (s *ClientSession) send(ev protocol.KeyEvent) error {
	var err error
	s.buf, err = protocol.AppendEncode(s.buf[:0], ev)
	if err != nil {
		return err
	}
	if len(s.buf) == 0 {
		return nil
	}

	if _, err := s.conn.Write(s.buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if f, ok := s.conn.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}
	}
	s.frames.Add(1)
	s.bytes.Add(int64(len(s.buf)))
	return nil
}

// Frames returns the number of frames written so far.
func (s *ClientSession) Frames() int64 { return s.frames.Load() }

// Bytes returns the number of bytes written so far.
func (s *ClientSession) Bytes() int64 { return s.bytes.Load() }
