package protocol

import "fmt"

// Mode is the one-byte discriminator selecting which key a frame carries.
type Mode uint8

// Wire modes. The numbering is part of the protocol and must never change.
const (
	ModeChar Mode = iota
	ModeCtrl
	ModeShift
	ModeAlt
	ModeBackspace
	ModeCapsLock
	ModeDelete
	ModeDown
	ModeUp
	ModeLeft
	ModeRight
	ModeEnd
	ModeEscape
	ModeF1
	ModeF2
	ModeF3
	ModeF4
	ModeF5
	ModeF6
	ModeF7
	ModeF8
	ModeF9
	ModeF10
	ModeF11
	ModeF12
	ModeF13
	ModeF14
	ModeF15
	ModeF16
	ModeF17
	ModeF18
	ModeF19
	ModeF20
	ModeHelp
	ModeHome
	ModeMeta
	ModeOption
	ModePageDown
	ModePageUp
	ModeReturn
	ModeSpace
	ModeTab

	modeCount
)

// modeUnsupported is never written to the wire.
const modeUnsupported Mode = 0xFF

// modeNames is the single mode table shared by Encode, Decode and String.
var modeNames = [modeCount]string{
	ModeChar:      "Char",
	ModeCtrl:      "Ctrl",
	ModeShift:     "Shift",
	ModeAlt:       "Alt",
	ModeBackspace: "Backspace",
	ModeCapsLock:  "CapsLock",
	ModeDelete:    "Delete",
	ModeDown:      "Down",
	ModeUp:        "Up",
	ModeLeft:      "Left",
	ModeRight:     "Right",
	ModeEnd:       "End",
	ModeEscape:    "Escape",
	ModeF1:        "F1",
	ModeF2:        "F2",
	ModeF3:        "F3",
	ModeF4:        "F4",
	ModeF5:        "F5",
	ModeF6:        "F6",
	ModeF7:        "F7",
	ModeF8:        "F8",
	ModeF9:        "F9",
	ModeF10:       "F10",
	ModeF11:       "F11",
	ModeF12:       "F12",
	ModeF13:       "F13",
	ModeF14:       "F14",
	ModeF15:       "F15",
	ModeF16:       "F16",
	ModeF17:       "F17",
	ModeF18:       "F18",
	ModeF19:       "F19",
	ModeF20:       "F20",
	ModeHelp:      "Help",
	ModeHome:      "Home",
	ModeMeta:      "Meta",
	ModeOption:    "Option",
	ModePageDown:  "PageDown",
	ModePageUp:    "PageUp",
	ModeReturn:    "Return",
	ModeSpace:     "Space",
	ModeTab:       "Tab",
}

// Valid reports whether m is in the mode table.
func (m Mode) Valid() bool {
	return m < modeCount
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// Key is a single key on the protocol's keyboard: either one of the named
// keys or a literal character. The zero value is Char(0).
type Key struct {
	mode Mode
	char rune
}

// Named keys.
var (
	KeyCtrl      = Key{mode: ModeCtrl}
	KeyShift     = Key{mode: ModeShift}
	KeyAlt       = Key{mode: ModeAlt}
	KeyBackspace = Key{mode: ModeBackspace}
	KeyCapsLock  = Key{mode: ModeCapsLock}
	KeyDelete    = Key{mode: ModeDelete}
	KeyDown      = Key{mode: ModeDown}
	KeyUp        = Key{mode: ModeUp}
	KeyLeft      = Key{mode: ModeLeft}
	KeyRight     = Key{mode: ModeRight}
	KeyEnd       = Key{mode: ModeEnd}
	KeyEscape    = Key{mode: ModeEscape}
	KeyF1        = Key{mode: ModeF1}
	KeyF2        = Key{mode: ModeF2}
	KeyF3        = Key{mode: ModeF3}
	KeyF4        = Key{mode: ModeF4}
	KeyF5        = Key{mode: ModeF5}
	KeyF6        = Key{mode: ModeF6}
	KeyF7        = Key{mode: ModeF7}
	KeyF8        = Key{mode: ModeF8}
	KeyF9        = Key{mode: ModeF9}
	KeyF10       = Key{mode: ModeF10}
	KeyF11       = Key{mode: ModeF11}
	KeyF12       = Key{mode: ModeF12}
	KeyF13       = Key{mode: ModeF13}
	KeyF14       = Key{mode: ModeF14}
	KeyF15       = Key{mode: ModeF15}
	KeyF16       = Key{mode: ModeF16}
	KeyF17       = Key{mode: ModeF17}
	KeyF18       = Key{mode: ModeF18}
	KeyF19       = Key{mode: ModeF19}
	KeyF20       = Key{mode: ModeF20}
	KeyHelp      = Key{mode: ModeHelp}
	KeyHome      = Key{mode: ModeHome}
	KeyMeta      = Key{mode: ModeMeta}
	KeyOption    = Key{mode: ModeOption}
	KeyPageDown  = Key{mode: ModePageDown}
	KeyPageUp    = Key{mode: ModePageUp}
	KeyReturn    = Key{mode: ModeReturn}
	KeySpace     = Key{mode: ModeSpace}
	KeyTab       = Key{mode: ModeTab}

	// KeyUnsupported stands for input that has no wire representation.
	// Encode drops it without error.
	KeyUnsupported = Key{mode: modeUnsupported}
)

// Char returns the key that types c. Only 0..127 can be encoded.
func Char(c rune) Key {
	return Key{mode: ModeChar, char: c}
}

// Named returns the named key for mode m. ModeChar and unknown modes yield
// KeyUnsupported.
func Named(m Mode) Key {
	if m == ModeChar || !m.Valid() {
		return KeyUnsupported
	}
	return Key{mode: m}
}

// FunctionKey returns F1..F20 for n in 1..20.
func FunctionKey(n int) (Key, bool) {
	if n < 1 || n > 20 {
		return KeyUnsupported, false
	}
	return Key{mode: ModeF1 + Mode(n-1)}, true
}

// Mode returns the wire mode of k.
func (k Key) Mode() Mode { return k.mode }

// Char returns the character of a ModeChar key and false for named keys.
func (k Key) Char() (rune, bool) {
	if k.mode != ModeChar {
		return 0, false
	}
	return k.char, true
}

// Supported reports whether k has a wire representation.
func (k Key) Supported() bool {
	return k.mode.Valid()
}

func (k Key) String() string {
	switch {
	case k.mode == ModeChar:
		return fmt.Sprintf("Char(%q)", k.char)
	case k.mode.Valid():
		return modeNames[k.mode]
	default:
		return "Unsupported"
	}
}

// AllNamed lists every named key in mode order.
func AllNamed() []Key {
	keys := make([]Key, 0, modeCount-1)
	for m := ModeCtrl; m < modeCount; m++ {
		keys = append(keys, Key{mode: m})
	}
	return keys
}
