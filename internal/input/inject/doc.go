// Package inject replays protocol keys into the host operating system.
//
// NewInjector returns the platform implementation: SendInput on Windows,
// CoreGraphics events on macOS and robotgo elsewhere.
package inject

import "remotekb/internal/input"

var _ input.Injector = (*Injector)(nil)
