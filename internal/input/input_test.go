package input

import (
	"testing"

	"gioui.org/io/key"
	"github.com/stretchr/testify/assert"

	"remotekb/internal/protocol"
)

func press(k protocol.Key) Transition   { return Transition{Key: k, Pressed: true} }
func release(k protocol.Key) Transition { return Transition{Key: k, Pressed: false} }

func TestDecodeTerminalLowercase(t *testing.T) {
	out, quit := DecodeTerminal([]byte("a"))
	assert.False(t, quit)
	assert.Equal(t, []Transition{
		press(protocol.Char('A')),
		release(protocol.Char('A')),
	}, out)
}

func TestDecodeTerminalUppercaseAddsShift(t *testing.T) {
	out, _ := DecodeTerminal([]byte("Q"))
	assert.Equal(t, []Transition{
		press(protocol.KeyShift),
		press(protocol.Char('Q')),
		release(protocol.Char('Q')),
		release(protocol.KeyShift),
	}, out)
}

func TestDecodeTerminalControlBytes(t *testing.T) {
	tests := []struct {
		in   byte
		want []Transition
	}{
		{'\r', []Transition{press(protocol.KeyReturn), release(protocol.KeyReturn)}},
		{'\t', []Transition{press(protocol.KeyTab), release(protocol.KeyTab)}},
		{0x7F, []Transition{press(protocol.KeyBackspace), release(protocol.KeyBackspace)}},
		{' ', []Transition{press(protocol.KeySpace), release(protocol.KeySpace)}},
		{0x03, []Transition{
			press(protocol.KeyCtrl), press(protocol.Char('C')),
			release(protocol.Char('C')), release(protocol.KeyCtrl),
		}},
	}
	for _, tt := range tests {
		out, quit := DecodeTerminal([]byte{tt.in})
		assert.False(t, quit)
		assert.Equal(t, tt.want, out, "byte 0x%02X", tt.in)
	}
}

func TestDecodeTerminalEscapeSequences(t *testing.T) {
	tests := map[string]protocol.Key{
		"\x1b[A":   protocol.KeyUp,
		"\x1b[D":   protocol.KeyLeft,
		"\x1b[3~":  protocol.KeyDelete,
		"\x1b[6~":  protocol.KeyPageDown,
		"\x1bOP":   protocol.KeyF1,
		"\x1b[24~": protocol.KeyF12,
		"\x1b":     protocol.KeyEscape,
	}
	for in, k := range tests {
		out, _ := DecodeTerminal([]byte(in))
		assert.Equal(t, []Transition{press(k), release(k)}, out, "%q", in)
	}
}

func TestDecodeTerminalUnknownSequencesAreUnsupported(t *testing.T) {
	unsupported := []Transition{press(protocol.KeyUnsupported), release(protocol.KeyUnsupported)}
	for _, in := range []string{"\x1b[2~", "\x1b[1;5A", "\x1b[15;2~", "\x1bOZ", "\x1b["} {
		out, quit := DecodeTerminal([]byte(in))
		assert.False(t, quit)
		assert.Equal(t, unsupported, out, "%q", in)
	}
}

func TestDecodeTerminalSequenceThenText(t *testing.T) {
	out, _ := DecodeTerminal([]byte("\x1b[1;5Aa\x1b[B"))
	assert.Equal(t, []Transition{
		press(protocol.KeyUnsupported), release(protocol.KeyUnsupported),
		press(protocol.Char('A')), release(protocol.Char('A')),
		press(protocol.KeyDown), release(protocol.KeyDown),
	}, out)
}

func TestDecodeTerminalAltPrefix(t *testing.T) {
	out, _ := DecodeTerminal([]byte("\x1bx"))
	assert.Equal(t, []Transition{
		press(protocol.KeyAlt), press(protocol.Char('X')),
		release(protocol.Char('X')), release(protocol.KeyAlt),
	}, out)
}

func TestDecodeTerminalQuit(t *testing.T) {
	out, quit := DecodeTerminal([]byte{'a', keyCtrlRBracket, 'b'})
	assert.True(t, quit)
	assert.Len(t, out, 2)
}

func TestDecodeTerminalNonASCIIIsUnsupported(t *testing.T) {
	out, _ := DecodeTerminal([]byte{0xC3})
	assert.Equal(t, []Transition{
		press(protocol.KeyUnsupported),
		release(protocol.KeyUnsupported),
	}, out)
}

func TestWindowKey(t *testing.T) {
	tests := map[key.Name]protocol.Key{
		"A":                    protocol.Char('A'),
		"a":                    protocol.Char('A'),
		"7":                    protocol.Char('7'),
		"/":                    protocol.Char('/'),
		key.NameCtrl:           protocol.KeyCtrl,
		key.NameCommand:        protocol.KeyMeta,
		key.NameEnter:          protocol.KeyReturn,
		key.NameReturn:         protocol.KeyReturn,
		key.NameDeleteBackward: protocol.KeyBackspace,
		key.NameF12:            protocol.KeyF12,
		key.NameSpace:          protocol.KeySpace,
		"⌧":                    protocol.KeyUnsupported,
		"":                     protocol.KeyUnsupported,
	}
	for name, want := range tests {
		assert.Equal(t, want, WindowKey(name), "name %q", name)
	}
}

func TestWindowTransition(t *testing.T) {
	tr := WindowTransition(key.Event{Name: "B", State: key.Release})
	assert.Equal(t, release(protocol.Char('B')), tr)
	assert.Equal(t, protocol.Released(protocol.Char('B')), tr.Event())
}
