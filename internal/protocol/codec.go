// Package protocol implements the key event wire format shared by host and
// client.
//
// Wire format per event:
//
//	state (1 byte): 0 = pressed, 1 = released
//	mode  (1 byte): see Mode; 0 = literal character
//	char  (1 byte): ASCII code, present only when mode == 0
//
// There is no length prefix or delimiter; the mode fixes the frame size.
package protocol

import (
	"errors"
	"fmt"
	"io"
)

// State is the first byte of every frame.
type State uint8

const (
	StatePressed  State = 0
	StateReleased State = 1
)

// Frame sizes in bytes.
const (
	HeaderSize    = 2
	CharFrameSize = 3
)

// KeyEvent is one observed key transition.
type KeyEvent struct {
	Pressed bool
	Key     Key
}

// Pressed returns the press transition of k.
func Pressed(k Key) KeyEvent { return KeyEvent{Pressed: true, Key: k} }

// Released returns the release transition of k.
func Released(k Key) KeyEvent { return KeyEvent{Pressed: false, Key: k} }

func (e KeyEvent) String() string {
	if e.Pressed {
		return e.Key.String() + " down"
	}
	return e.Key.String() + " up"
}

// Len returns the wire size of e, or 0 for a key with no wire form.
func (e KeyEvent) Len() int {
	if !e.Key.Supported() {
		return 0
	}
	return Frame{Mode: e.Key.Mode()}.Len()
}

// Frame is the wire representation of a KeyEvent. Char is only meaningful
// when Mode is ModeChar.
type Frame struct {
	State State
	Mode  Mode
	Char  byte
}

// Len returns the encoded size of f.
func (f Frame) Len() int {
	if f.Mode == ModeChar {
		return CharFrameSize
	}
	return HeaderSize
}

// AppendBinary appends the wire bytes of f to dst.
func (f Frame) AppendBinary(dst []byte) []byte {
	dst = append(dst, byte(f.State), byte(f.Mode))
	if f.Mode == ModeChar {
		dst = append(dst, f.Char)
	}
	return dst
}

// EncodingError is returned when an event cannot be represented on the wire.
type EncodingError struct {
	Char rune
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("protocol: cannot send non-ascii character %q", e.Char)
}

// ProtocolError reports a malformed frame. The stream cannot be resynchronised
// after one.
type ProtocolError struct {
	Reason string
	State  byte
	Mode   byte
	Char   byte
}

func (e *ProtocolError) Error() string {
	return "protocol: " + e.Reason
}

// IsProtocolError reports whether err is, or wraps, a *ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// FrameOf converts ev to its wire form. ok is false for keys that are not
// sent at all.
func FrameOf(ev KeyEvent) (f Frame, ok bool, err error) {
	if !ev.Key.Supported() {
		return Frame{}, false, nil
	}
	f.Mode = ev.Key.mode
	if !ev.Pressed {
		f.State = StateReleased
	}
	if f.Mode == ModeChar {
		c := ev.Key.char
		if c < 0 || c > 127 {
			return Frame{}, false, &EncodingError{Char: c}
		}
		f.Char = byte(c)
	}
	return f, true, nil
}

// Encode returns the frame bytes for ev. Unsupported keys yield nil with a nil
// error; they are filtered, not rejected.
func Encode(ev KeyEvent) ([]byte, error) {
	return AppendEncode(nil, ev)
}

// AppendEncode appends the frame bytes for ev to dst. dst is returned
// unchanged for unsupported keys.
func AppendEncode(dst []byte, ev KeyEvent) ([]byte, error) {
	f, ok, err := FrameOf(ev)
	if err != nil || !ok {
		return dst, err
	}
	return f.AppendBinary(dst), nil
}

// Decode reads exactly one frame from r.
//
// io.EOF is returned when r ends before a complete 2-byte header; this is the
// normal end of a session. A stream that ends after a character-mode header but
// before its character byte returns an error wrapping io.ErrUnexpectedEOF.
// Malformed frames return *ProtocolError. Decode never reads past the frame.
func Decode(r io.Reader) (KeyEvent, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return KeyEvent{}, io.EOF
		}
		return KeyEvent{}, fmt.Errorf("protocol: read header: %w", err)
	}
	state, mode := hdr[0], Mode(hdr[1])

	if state != byte(StatePressed) && state != byte(StateReleased) {
		return KeyEvent{}, &ProtocolError{Reason: "state is not pressed or released", State: state, Mode: byte(mode)}
	}
	if !mode.Valid() {
		return KeyEvent{}, &ProtocolError{Reason: "invalid mode", State: state, Mode: byte(mode)}
	}

	ev := KeyEvent{Pressed: state == byte(StatePressed)}
	if mode != ModeChar {
		ev.Key = Key{mode: mode}
		return ev, nil
	}

	var c [1]byte
	if _, err := io.ReadFull(r, c[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return KeyEvent{}, fmt.Errorf("protocol: read character: %w", err)
	}
	if c[0] > 127 {
		return KeyEvent{}, &ProtocolError{Reason: "received non-ascii char", State: state, Mode: byte(mode), Char: c[0]}
	}
	ev.Key = Char(rune(c[0]))
	return ev, nil
}
