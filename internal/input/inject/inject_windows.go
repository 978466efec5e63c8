//go:build windows

package inject

import (
	"log"
	"unsafe"

	"golang.org/x/sys/windows"

	"remotekb/internal/protocol"
)

// Windows implementation of key injection using SendInput

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
	procMapVKey   = user32.NewProc("MapVirtualKeyW")
)

const (
	inputKeyboard        = 1
	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	keyeventfUnicode     = 0x0004
	mapvkVkToVsc         = 0
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type winInput struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

// Windows VK codes for the named protocol keys
// Reference: https://docs.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
var namedToVK = map[protocol.Mode]uint16{
	protocol.ModeCtrl:      0x11, // VK_CONTROL
	protocol.ModeShift:     0x10, // VK_SHIFT
	protocol.ModeAlt:       0x12, // VK_MENU
	protocol.ModeBackspace: 0x08,
	protocol.ModeCapsLock:  0x14,
	protocol.ModeDelete:    0x2E,
	protocol.ModeDown:      0x28,
	protocol.ModeUp:        0x26,
	protocol.ModeLeft:      0x25,
	protocol.ModeRight:     0x27,
	protocol.ModeEnd:       0x23,
	protocol.ModeEscape:    0x1B,
	protocol.ModeHelp:      0x2F,
	protocol.ModeHome:      0x24,
	protocol.ModeMeta:      0x5B, // VK_LWIN
	protocol.ModeOption:    0x12, // Option has no Windows key of its own -> Alt
	protocol.ModePageDown:  0x22,
	protocol.ModePageUp:    0x21,
	protocol.ModeReturn:    0x0D,
	protocol.ModeSpace:     0x20,
	protocol.ModeTab:       0x09,
}

// Keys that need KEYEVENTF_EXTENDEDKEY to avoid hitting the numpad variant
var extendedVK = map[uint16]bool{
	0x21: true, 0x22: true, 0x23: true, 0x24: true,
	0x25: true, 0x26: true, 0x27: true, 0x28: true,
	0x2E: true, 0x5B: true,
}

// Punctuation on a US layout, by VK_OEM code
var asciiToVK = map[rune]uint16{
	';': 0xBA, '=': 0xBB, ',': 0xBC, '-': 0xBD, '.': 0xBE, '/': 0xBF,
	'`': 0xC0, '[': 0xDB, '\\': 0xDC, ']': 0xDD, '\'': 0xDE,
}

// Injector injects keys with SendInput
type Injector struct{}

// NewInjector creates a new input injector for Windows
func NewInjector() *Injector {
	return &Injector{}
}

// InjectKey presses or releases key
func (i *Injector) InjectKey(key protocol.Key, pressed bool) {
	var in winInput
	in.inputType = inputKeyboard

	if c, ok := key.Char(); ok {
		vk, isVK := charVK(c)
		if isVK {
			in.ki.wVk = vk
			scan, _, _ := procMapVKey.Call(uintptr(vk), mapvkVkToVsc)
			in.ki.wScan = uint16(scan)
		} else {
			// Type the character itself, independent of the active layout
			in.ki.wScan = uint16(c)
			in.ki.dwFlags = keyeventfUnicode
		}
	} else if mode := key.Mode(); mode >= protocol.ModeF1 && mode <= protocol.ModeF20 {
		in.ki.wVk = 0x70 + uint16(mode-protocol.ModeF1) // VK_F1..VK_F20 are contiguous
	} else if vk, ok := namedToVK[mode]; ok {
		in.ki.wVk = vk
		if extendedVK[vk] {
			in.ki.dwFlags |= keyeventfExtendedKey
		}
	} else {
		log.Printf("Inject: no Windows key for %s", key)
		return
	}

	if !pressed {
		in.ki.dwFlags |= keyeventfKeyUp
	}

	ret, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if ret == 0 {
		log.Printf("Inject: SendInput failed for %s: %v", key, err)
	}
}

// charVK returns the virtual key for characters that have a dedicated key, so
// modifier chords like Ctrl+C reach applications as shortcuts.
func charVK(c rune) (uint16, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint16(c), true
	case c >= 'a' && c <= 'z':
		return uint16(c - 'a' + 'A'), true
	case c >= '0' && c <= '9':
		return uint16(c), true
	}
	vk, ok := asciiToVK[c]
	return vk, ok
}
