//go:build windows

package osutils

import (
	"fmt"
	"log"
	"os/exec"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the process token is elevated. Input sent from
// a non-elevated process never reaches elevated windows.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// EnsureFirewallRule makes sure the inbound rule r exists, replacing a stale
// rule of the same name. Without elevation the change goes through a UAC
// prompt and is not waited for.
func EnsureFirewallRule(r Rule) error {
	log.Printf("Firewall: Checking rule '%s' for port %d...", RuleName, r.Port)

	output, err := exec.Command("netsh", "advfirewall", "firewall", "show", "rule", "name="+RuleName).CombinedOutput()
	switch {
	case err != nil:
		log.Printf("Firewall: Rule '%s' not found. Creating...", RuleName)
	case r.Matches(string(output)):
		log.Printf("Firewall: Rule '%s' is up to date", RuleName)
		return nil
	default:
		log.Printf("Firewall: Rule '%s' is stale. Updating...", RuleName)
	}

	if IsElevated() {
		out, err := exec.Command("powershell", "-NoProfile", "-Command", r.Script()).CombinedOutput()
		if err != nil {
			return fmt.Errorf("failed to create firewall rule: %w (Output: %s)", err, out)
		}
		log.Printf("Firewall: Applied rule for port %d", r.Port)
		return nil
	}

	log.Println("Firewall: Not elevated, requesting UAC elevation...")
	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}
	exe, err := windows.UTF16PtrFromString("powershell.exe")
	if err != nil {
		return err
	}
	args, err := windows.UTF16PtrFromString(fmt.Sprintf("-NoProfile -WindowStyle Hidden -Command \"%s\"", r.Script()))
	if err != nil {
		return err
	}
	if err := windows.ShellExecute(0, verb, exe, args, nil, windows.SW_HIDE); err != nil {
		return fmt.Errorf("failed to launch elevated powershell: %w", err)
	}
	log.Println("Firewall: UAC prompt requested. Please check your screen/taskbar.")
	return nil
}
