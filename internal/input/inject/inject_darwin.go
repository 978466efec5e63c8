//go:build darwin

package inject

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>

// Check if we have accessibility permissions
bool hasAccessibilityPermissions() {
    return AXIsProcessTrusted();
}

void injectKey(CGKeyCode keyCode, bool pressed) {
    CGEventRef event = CGEventCreateKeyboardEvent(NULL, keyCode, pressed);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}

// Characters without a dedicated key are typed as a unicode string
void injectUnicode(UniChar c, bool pressed) {
    CGEventRef event = CGEventCreateKeyboardEvent(NULL, 0, pressed);
    CGEventKeyboardSetUnicodeString(event, 1, &c);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}
*/
import "C"
import (
	"log"

	"remotekb/internal/protocol"
)

// macOS implementation of key injection using CoreGraphics

// Named protocol keys to macOS CGKeyCode
// Reference: https://developer.apple.com/documentation/coregraphics/cgkeycode
var namedToMacKey = map[protocol.Mode]uint16{
	protocol.ModeCtrl:      0x3B,
	protocol.ModeShift:     0x38,
	protocol.ModeAlt:       0x3A, // Alt -> Option
	protocol.ModeBackspace: 0x33, // kVK_Delete
	protocol.ModeCapsLock:  0x39,
	protocol.ModeDelete:    0x75, // kVK_ForwardDelete
	protocol.ModeDown:      0x7D,
	protocol.ModeUp:        0x7E,
	protocol.ModeLeft:      0x7B,
	protocol.ModeRight:     0x7C,
	protocol.ModeEnd:       0x77,
	protocol.ModeEscape:    0x35,
	protocol.ModeF1:        0x7A,
	protocol.ModeF2:        0x78,
	protocol.ModeF3:        0x63,
	protocol.ModeF4:        0x76,
	protocol.ModeF5:        0x60,
	protocol.ModeF6:        0x61,
	protocol.ModeF7:        0x62,
	protocol.ModeF8:        0x64,
	protocol.ModeF9:        0x65,
	protocol.ModeF10:       0x6D,
	protocol.ModeF11:       0x67,
	protocol.ModeF12:       0x6F,
	protocol.ModeF13:       0x69,
	protocol.ModeF14:       0x6B,
	protocol.ModeF15:       0x71,
	protocol.ModeF16:       0x6A,
	protocol.ModeF17:       0x40,
	protocol.ModeF18:       0x4F,
	protocol.ModeF19:       0x50,
	protocol.ModeF20:       0x5A,
	protocol.ModeHelp:      0x72,
	protocol.ModeHome:      0x73,
	protocol.ModeMeta:      0x37, // Meta -> Command
	protocol.ModeOption:    0x3A,
	protocol.ModePageDown:  0x79,
	protocol.ModePageUp:    0x74,
	protocol.ModeReturn:    0x24,
	protocol.ModeSpace:     0x31,
	protocol.ModeTab:       0x30,
}

// ASCII characters with a key on the ANSI layout (kVK_ANSI_*)
var asciiToMacKey = map[rune]uint16{
	'a': 0x00, 'b': 0x0B, 'c': 0x08, 'd': 0x02, 'e': 0x0E, 'f': 0x03,
	'g': 0x05, 'h': 0x04, 'i': 0x22, 'j': 0x26, 'k': 0x28, 'l': 0x25,
	'm': 0x2E, 'n': 0x2D, 'o': 0x1F, 'p': 0x23, 'q': 0x0C, 'r': 0x0F,
	's': 0x01, 't': 0x11, 'u': 0x20, 'v': 0x09, 'w': 0x0D, 'x': 0x07,
	'y': 0x10, 'z': 0x06,

	'0': 0x1D, '1': 0x12, '2': 0x13, '3': 0x14, '4': 0x15,
	'5': 0x17, '6': 0x16, '7': 0x1A, '8': 0x1C, '9': 0x19,

	';': 0x29, '=': 0x18, ',': 0x2B, '-': 0x1B, '.': 0x2F, '/': 0x2C,
	'`': 0x32, '[': 0x21, '\\': 0x2A, ']': 0x1E, '\'': 0x27,
}

// Injector represents a macOS key injector
type Injector struct{}

// NewInjector creates a new key injector for macOS
func NewInjector() *Injector {
	if !bool(C.hasAccessibilityPermissions()) {
		log.Println("Inject: Accessibility permission missing; grant it in System Settings > Privacy & Security")
	}
	return &Injector{}
}

// InjectKey presses or releases key
func (i *Injector) InjectKey(key protocol.Key, pressed bool) {
	cPressed := C.bool(pressed)

	if c, ok := key.Char(); ok {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A' // case comes from the Shift frames
		}
		if code, ok := asciiToMacKey[c]; ok {
			C.injectKey(C.CGKeyCode(code), cPressed)
			return
		}
		C.injectUnicode(C.UniChar(c), cPressed)
		return
	}

	code, ok := namedToMacKey[key.Mode()]
	if !ok {
		log.Printf("Inject: no macOS key for %s", key)
		return
	}
	C.injectKey(C.CGKeyCode(code), cPressed)
}
