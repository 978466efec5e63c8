package input

import (
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"

	"remotekb/internal/protocol"
)

// windowNamed maps gio key names to named protocol keys. Left and right
// modifier variants arrive under the same gio name.
var windowNamed = map[key.Name]protocol.Key{
	key.NameCtrl:           protocol.KeyCtrl,
	key.NameShift:          protocol.KeyShift,
	key.NameAlt:            protocol.KeyAlt,
	key.NameSuper:          protocol.KeyMeta,
	key.NameCommand:        protocol.KeyMeta,
	key.NameDeleteBackward: protocol.KeyBackspace,
	key.NameDeleteForward:  protocol.KeyDelete,
	key.NameDownArrow:      protocol.KeyDown,
	key.NameUpArrow:        protocol.KeyUp,
	key.NameLeftArrow:      protocol.KeyLeft,
	key.NameRightArrow:     protocol.KeyRight,
	key.NameHome:           protocol.KeyHome,
	key.NameEnd:            protocol.KeyEnd,
	key.NamePageUp:         protocol.KeyPageUp,
	key.NamePageDown:       protocol.KeyPageDown,
	key.NameEscape:         protocol.KeyEscape,
	key.NameReturn:         protocol.KeyReturn,
	key.NameEnter:          protocol.KeyReturn, // keypad Enter
	key.NameTab:            protocol.KeyTab,
	key.NameSpace:          protocol.KeySpace,
	key.NameF1:             protocol.KeyF1,
	key.NameF2:             protocol.KeyF2,
	key.NameF3:             protocol.KeyF3,
	key.NameF4:             protocol.KeyF4,
	key.NameF5:             protocol.KeyF5,
	key.NameF6:             protocol.KeyF6,
	key.NameF7:             protocol.KeyF7,
	key.NameF8:             protocol.KeyF8,
	key.NameF9:             protocol.KeyF9,
	key.NameF10:            protocol.KeyF10,
	key.NameF11:            protocol.KeyF11,
	key.NameF12:            protocol.KeyF12,
}

// WindowKey maps a gio key name to a protocol key. Printable ASCII names
// become characters, letters in upper case. Anything else is
// protocol.KeyUnsupported.
func WindowKey(name key.Name) protocol.Key {
	if k, ok := windowNamed[name]; ok {
		return k
	}
	if len(name) == 1 {
		c := rune(name[0])
		if c > ' ' && c < 0x7F {
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			return protocol.Char(c)
		}
	}
	return protocol.KeyUnsupported
}

// WindowTransition converts a gio key event.
func WindowTransition(e key.Event) Transition {
	return Transition{
		Key:     WindowKey(e.Name),
		Pressed: e.State == key.Press,
	}
}

// windowModifiers lets chords through the key filter; modifier presses
// themselves arrive with their own bit set.
const windowModifiers = key.ModCtrl | key.ModShift | key.ModAlt | key.ModSuper | key.ModCommand

// WindowKeys is the focusable handler that receives every key of a gio
// window. Each frame, drain it with Next and then call Layout.
type WindowKeys struct {
	focused bool
}

// Next returns the next pending key transition.
func (k *WindowKeys) Next(gtx layout.Context) (Transition, bool) {
	for {
		ev, ok := gtx.Event(
			key.FocusFilter{Target: k},
			key.Filter{Focus: k, Optional: windowModifiers},
		)
		if !ok {
			return Transition{}, false
		}
		switch e := ev.(type) {
		case key.Event:
			return WindowTransition(e), true
		case key.FocusEvent:
			k.focused = e.Focus
		}
	}
}

// Layout registers the handler and keeps it focused.
func (k *WindowKeys) Layout(gtx layout.Context) {
	event.Op(gtx.Ops, k)
	if !k.focused {
		gtx.Execute(key.FocusCmd{Tag: k})
	}
}

// Focused reports whether the handler holds keyboard focus.
func (k *WindowKeys) Focused() bool {
	return k.focused
}
