package input

import (
	"log"

	"remotekb/internal/protocol"
)

// LogInjector logs key transitions instead of injecting them. Used by
// host --dry-run.
type LogInjector struct {
	Logger *log.Logger
}

// InjectKey logs the transition.
func (l *LogInjector) InjectKey(key protocol.Key, pressed bool) {
	action := "release"
	if pressed {
		action = "press"
	}
	if l.Logger != nil {
		l.Logger.Printf("Inject (dry-run): %s %s", action, key)
		return
	}
	log.Printf("Inject (dry-run): %s %s", action, key)
}
