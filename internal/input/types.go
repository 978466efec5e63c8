// Package input provides keyboard capture on the client and key injection on
// the host.
package input

import "remotekb/internal/protocol"

// Transition is one key press or release seen by a capture source. Key is
// protocol.KeyUnsupported when the source saw a key with no wire form.
type Transition struct {
	Key     protocol.Key
	Pressed bool
}

// Event returns t as a protocol event.
func (t Transition) Event() protocol.KeyEvent {
	return protocol.KeyEvent{Pressed: t.Pressed, Key: t.Key}
}

// Capture delivers local key transitions in the order they happen. The
// Events channel is closed when the source ends (window closed, stdin gone).
type Capture interface {
	Start() error
	Stop() error
	Events() <-chan Transition
}

// Injector replays key transitions into the OS. Implementations report their
// own failures; callers treat injection as infallible.
type Injector interface {
	InjectKey(key protocol.Key, pressed bool)
}
