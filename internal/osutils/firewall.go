// Package osutils holds the platform chores a host needs before it can accept
// a client: firewall rules and privilege checks.
package osutils

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// RuleName is the display name of the inbound firewall rule for the host port
const RuleName = "remotekb host"

// Rule describes the inbound TCP allow rule a host needs. Both transports
// run over TCP.
type Rule struct {
	Port int
	// Bind restricts the rule to one local address; empty or unspecified
	// addresses allow every interface.
	Bind string
}

// HostRule returns the rule for a host listening on bind:port
func HostRule(bind string, port int) Rule {
	if ip := net.ParseIP(bind); ip == nil || ip.IsUnspecified() {
		bind = ""
	}
	return Rule{Port: port, Bind: bind}
}

// Script returns the PowerShell that replaces RuleName with r
func (r Rule) Script() string {
	local := ""
	if r.Bind != "" {
		local = " -LocalAddress " + r.Bind
	}
	return fmt.Sprintf(
		"Remove-NetFirewallRule -DisplayName '%s' -ErrorAction SilentlyContinue; New-NetFirewallRule -DisplayName '%s' -Direction Inbound -Protocol TCP -LocalPort %d%s -Action Allow -Profile Any",
		RuleName, RuleName, r.Port, local,
	)
}

// Matches reports whether the output of
// `netsh advfirewall firewall show rule` already describes r.
func (r Rule) Matches(netsh string) bool {
	fields := netshFields(netsh)
	if fields["LocalPort"] != strconv.Itoa(r.Port) || fields["Action"] != "Allow" || fields["Protocol"] != "TCP" {
		return false
	}
	localIP := fields["LocalIP"]
	if r.Bind == "" {
		return localIP == "" || localIP == "Any"
	}
	// netsh prints single addresses with a /32 (or /128) mask
	addr, _, _ := strings.Cut(localIP, "/")
	return addr == r.Bind
}

// netshFields parses the "Name:   value" lines of a single netsh rule
func netshFields(output string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if _, seen := fields[name]; !seen {
			fields[name] = strings.TrimSpace(value)
		}
	}
	return fields
}
