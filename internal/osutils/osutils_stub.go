//go:build !windows

package osutils

import (
	"log"
)

// IsElevated is a stub for non-Windows platforms
func IsElevated() bool {
	return false
}

// EnsureFirewallRule is a stub for non-Windows platforms
func EnsureFirewallRule(r Rule) error {
	log.Printf("Firewall: Automatic rule management is only supported on Windows (port %d not checked)", r.Port)
	return nil
}
