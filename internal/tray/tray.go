// Package tray shows the host's connection status in the system tray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray manages the system tray icon and its status menu
type Tray struct {
	tooltip string
	onQuit  func()

	mu     sync.Mutex
	status string
	item   *systray.MenuItem

	readyCh chan struct{}
	quitCh  chan struct{}
}

// New creates a tray with an initial status line. onQuit runs once when the
// user picks Quit, before the tray loop exits.
func New(tooltip, status string, onQuit func()) *Tray {
	return &Tray{
		tooltip: tooltip,
		onQuit:  onQuit,
		status:  status,
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Listening returns the status line for a host waiting on addr
func Listening(addr string) string { return "Listening on " + addr }

// Connected returns the status line for an active session with peer
func Connected(peer string) string { return "Connected: " + peer }

// Disconnected is the status line after the session ended
const Disconnected = "Disconnected"

// SetStatus updates the status line. Safe to call before the tray is ready.
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	if t.item == nil {
		return
	}
	t.item.SetTitle(status)
	systray.SetTooltip(t.tooltip + " - " + status)
}

// Ready is closed once the menu exists
func (t *Tray) Ready() <-chan struct{} {
	return t.readyCh
}

// Run starts the tray event loop (blocks). Must be called on the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, func() { close(t.quitCh) })
}

func (t *Tray) setupMenu() {
	systray.SetTitle("remotekb")
	systray.SetIcon(getIcon())

	t.mu.Lock()
	t.item = systray.AddMenuItem(t.status, "")
	t.item.Disable()
	systray.SetTooltip(t.tooltip + " - " + t.status)
	t.mu.Unlock()

	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop hosting")
	close(t.readyCh)

	go func() {
		select {
		case <-quit.ClickedCh:
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
		case <-t.quitCh:
		}
	}()
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}

// getIcon returns a placeholder icon (valid 16x16 ICO)
func getIcon() []byte {
	icon := make([]byte, 1118)
	// ICO header, one image
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Directory entry: 16x16, 32bpp, 1096 bytes at offset 22
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00,
		0x16, 0x00, 0x00, 0x00,
	})
	// BITMAPINFOHEADER, height doubled for the AND mask
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x20, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00,
	})
	// Draw a light key cap so the icon is not fully transparent
	pixels := icon[62 : 62+1024]
	for y := 3; y < 13; y++ {
		for x := 2; x < 14; x++ {
			i := (y*16 + x) * 4
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = 0xE0, 0xE0, 0xE0, 0xFF
		}
	}
	return icon
}
