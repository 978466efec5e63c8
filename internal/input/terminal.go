package input

import (
	"errors"
	"io"
	"log"
	"os"
	"sync"

	"golang.org/x/term"

	"remotekb/internal/protocol"
)

const (
	keyCtrlRBracket byte = 0x1D // Ctrl+], ends terminal capture
	keyEsc          byte = 0x1B
	keyDel          byte = 0x7F
)

// ErrNotTerminal is returned by Terminal.Start when stdin is not a terminal.
var ErrNotTerminal = errors.New("input: stdin is not a terminal")

// Terminal captures keys typed into the controlling terminal. Terminals only
// report characters, so every key is sent as a press immediately followed by
// its release, wrapped in the modifier presses needed to produce it.
// Ctrl+] or end of input ends the capture.
type Terminal struct {
	in       *os.File
	events   chan Transition
	done     chan struct{}
	once     sync.Once
	oldState *term.State
}

var _ Capture = (*Terminal)(nil)

// NewTerminal creates a capture source reading from stdin.
func NewTerminal() *Terminal {
	return &Terminal{
		in:     os.Stdin,
		events: make(chan Transition),
		done:   make(chan struct{}),
	}
}

// Start switches the terminal to raw mode and begins reading.
func (t *Terminal) Start() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	t.oldState = state
	go t.readLoop()
	return nil
}

// Stop restores the terminal. Safe to call more than once.
func (t *Terminal) Stop() error {
	var err error
	t.once.Do(func() {
		close(t.done)
		if t.oldState != nil {
			err = term.Restore(int(t.in.Fd()), t.oldState)
		}
	})
	return err
}

// Events returns the transition channel.
func (t *Terminal) Events() <-chan Transition {
	return t.events
}

func (t *Terminal) readLoop() {
	defer close(t.events)
	defer t.Stop()

	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			out, quit := DecodeTerminal(buf[:n])
			for _, tr := range out {
				select {
				case t.events <- tr:
				case <-t.done:
					return
				}
			}
			if quit {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("Terminal: read error: %v", err)
			}
			return
		}
	}
}

// Escape sequences sent by common terminals (xterm, VT220)
var terminalSequences = map[string]protocol.Key{
	"[A": protocol.KeyUp, "[B": protocol.KeyDown,
	"[C": protocol.KeyRight, "[D": protocol.KeyLeft,
	"[H": protocol.KeyHome, "[F": protocol.KeyEnd,
	"OH": protocol.KeyHome, "OF": protocol.KeyEnd,
	"[1~": protocol.KeyHome, "[4~": protocol.KeyEnd,
	"[7~": protocol.KeyHome, "[8~": protocol.KeyEnd,
	"[3~": protocol.KeyDelete,
	"[5~": protocol.KeyPageUp, "[6~": protocol.KeyPageDown,
	"OP": protocol.KeyF1, "OQ": protocol.KeyF2,
	"OR": protocol.KeyF3, "OS": protocol.KeyF4,
	"[15~": protocol.KeyF5, "[17~": protocol.KeyF6,
	"[18~": protocol.KeyF7, "[19~": protocol.KeyF8,
	"[20~": protocol.KeyF9, "[21~": protocol.KeyF10,
	"[23~": protocol.KeyF11, "[24~": protocol.KeyF12,
}

// DecodeTerminal converts one chunk of raw terminal input into transitions.
// quit is true when the chunk contains Ctrl+]; input after it is ignored.
// Escape sequences are expected to arrive whole within a chunk.
func DecodeTerminal(p []byte) (out []Transition, quit bool) {
	for i := 0; i < len(p); i++ {
		b := p[i]
		switch {
		case b == keyCtrlRBracket:
			return out, true
		case b == keyEsc:
			if i+1 == len(p) {
				out = tap(out, protocol.KeyEscape)
				continue
			}
			if c := p[i+1]; c == '[' || c == 'O' {
				// CSI or SS3: the whole sequence is one key, known or not
				n := sequenceLen(p[i+1:])
				k, ok := terminalSequences[string(p[i+1:i+1+n])]
				if !ok {
					k = protocol.KeyUnsupported
				}
				out = tap(out, k)
				i += n
				continue
			}
			if c := p[i+1]; c >= 0x20 && c < keyDel {
				// Meta-prefixed character (Alt+c)
				out = tap(out, append([]protocol.Key{protocol.KeyAlt}, printable(c)...)...)
				i++
				continue
			}
			out = tap(out, protocol.KeyEscape)
		case b >= 0x20 && b < keyDel:
			out = tap(out, printable(b)...)
		default:
			out = tap(out, control(b)...)
		}
	}
	return out, false
}

// sequenceLen returns the length of the CSI or SS3 sequence at the start of
// p, introducer included. An unterminated sequence runs to the end of p.
func sequenceLen(p []byte) int {
	if p[0] == 'O' {
		return min(2, len(p))
	}
	for i := 1; i < len(p); i++ {
		if b := p[i]; b >= 0x40 && b <= 0x7E {
			return i + 1
		}
		if b := p[i]; b < 0x20 || b > 0x3F {
			// not a parameter or intermediate byte
			return i
		}
	}
	return len(p)
}

// printable returns the key chord that types c.
func printable(c byte) []protocol.Key {
	switch {
	case c == ' ':
		return []protocol.Key{protocol.KeySpace}
	case c >= 'A' && c <= 'Z':
		return []protocol.Key{protocol.KeyShift, protocol.Char(rune(c))}
	case c >= 'a' && c <= 'z':
		return []protocol.Key{protocol.Char(rune(c - 'a' + 'A'))}
	}
	return []protocol.Key{protocol.Char(rune(c))}
}

// control returns the key chord for a control or non-ASCII byte.
func control(b byte) []protocol.Key {
	switch b {
	case '\r', '\n':
		return []protocol.Key{protocol.KeyReturn}
	case '\t':
		return []protocol.Key{protocol.KeyTab}
	case keyDel, 0x08:
		return []protocol.Key{protocol.KeyBackspace}
	case 0x00:
		return []protocol.Key{protocol.KeyCtrl, protocol.KeySpace}
	}
	if b >= 0x01 && b <= 0x1A {
		return []protocol.Key{protocol.KeyCtrl, protocol.Char(rune('A' + b - 1))}
	}
	return []protocol.Key{protocol.KeyUnsupported}
}

// tap presses keys in order and releases them in reverse.
func tap(out []Transition, keys ...protocol.Key) []Transition {
	for _, k := range keys {
		out = append(out, Transition{Key: k, Pressed: true})
	}
	for i := len(keys) - 1; i >= 0; i-- {
		out = append(out, Transition{Key: keys[i], Pressed: false})
	}
	return out
}
