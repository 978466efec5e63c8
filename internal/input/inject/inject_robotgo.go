//go:build !windows && !darwin

package inject

import (
	"log"
	"strings"

	"github.com/go-vgo/robotgo"

	"remotekb/internal/protocol"
)

// robotgo key names for the named protocol keys
var namedToRobotgo = map[protocol.Mode]string{
	protocol.ModeCtrl:      "ctrl",
	protocol.ModeShift:     "shift",
	protocol.ModeAlt:       "alt",
	protocol.ModeBackspace: "backspace",
	protocol.ModeCapsLock:  "capslock",
	protocol.ModeDelete:    "delete",
	protocol.ModeDown:      "down",
	protocol.ModeUp:        "up",
	protocol.ModeLeft:      "left",
	protocol.ModeRight:     "right",
	protocol.ModeEnd:       "end",
	protocol.ModeEscape:    "esc",
	protocol.ModeHelp:      "help",
	protocol.ModeHome:      "home",
	protocol.ModeMeta:      "cmd",
	protocol.ModeOption:    "alt",
	protocol.ModePageDown:  "pagedown",
	protocol.ModePageUp:    "pageup",
	protocol.ModeReturn:    "enter",
	protocol.ModeSpace:     "space",
	protocol.ModeTab:       "tab",
}

// Injector injects keys through robotgo (X11 on Linux)
type Injector struct{}

// NewInjector creates a new robotgo-backed injector
func NewInjector() *Injector {
	return &Injector{}
}

// InjectKey presses or releases key
func (i *Injector) InjectKey(key protocol.Key, pressed bool) {
	name, ok := robotgoName(key)
	if !ok {
		log.Printf("Inject: no robotgo key for %s", key)
		return
	}

	state := "up"
	if pressed {
		state = "down"
	}
	if err := robotgo.KeyToggle(name, state); err != nil {
		log.Printf("Inject: %s %s failed: %v", state, key, err)
	}
}

func robotgoName(key protocol.Key) (string, bool) {
	if c, ok := key.Char(); ok {
		// Letters go unshifted; case comes from the Shift frames
		return strings.ToLower(string(c)), true
	}
	mode := key.Mode()
	if mode >= protocol.ModeF1 && mode <= protocol.ModeF20 {
		return strings.ToLower(mode.String()), true
	}
	name, ok := namedToRobotgo[mode]
	return name, ok
}
