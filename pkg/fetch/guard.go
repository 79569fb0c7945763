package fetch

import (
	"net/netip"
	"strings"
)

// Hostnames that must never be fetched regardless of what they resolve to.
var blockedHostSuffixes = []string{
	".local",
	".internal",
	".lan",
	".localdomain",
	".home.arpa",
}

var blockedHosts = map[string]struct{}{
	"localhost":                {},
	"metadata":                 {},
	"metadata.google.internal": {},
}

// Reserved ranges not already covered by the netip classification methods.
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),   // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),    // IETF protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),    // TEST-NET-1
	netip.MustParsePrefix("198.18.0.0/15"),   // benchmarking
	netip.MustParsePrefix("198.51.100.0/24"), // TEST-NET-2
	netip.MustParsePrefix("203.0.113.0/24"),  // TEST-NET-3
	netip.MustParsePrefix("240.0.0.0/4"),     // reserved
	netip.MustParsePrefix("2001:db8::/32"),   // documentation
	netip.MustParsePrefix("64:ff9b::/96"),    // NAT64
}

func hostnameBlocked(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if _, ok := blockedHosts[host]; ok {
		return true
	}
	for _, suffix := range blockedHostSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// addrBlocked reports whether an address must not be connected to. IPv4-mapped
// IPv6 forms are unwrapped first so they cannot smuggle a private IPv4 address.
func addrBlocked(ip netip.Addr) bool {
	ip = ip.Unmap()

	if !ip.IsValid() ||
		ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified() {
		return true
	}

	for _, prefix := range blockedPrefixes {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}
