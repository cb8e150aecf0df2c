package netguard

import "strings"

const ipv4MappedPrefix = "::ffff:"

// NormalizeMappedIPv4 rewrites an IPv4-mapped IPv6 literal (::ffff:a.b.c.d)
// to the embedded IPv4 address. Any other input comes back unchanged.
func NormalizeMappedIPv4(ip string) string {
	if len(ip) <= len(ipv4MappedPrefix) {
		return ip
	}
	if !strings.EqualFold(ip[:len(ipv4MappedPrefix)], ipv4MappedPrefix) {
		return ip
	}
	if embedded := ip[len(ipv4MappedPrefix):]; isIPv4(embedded) {
		return embedded
	}
	return ip
}

func isIPv4(s string) bool {
	_, ok := parseIPv4(s)
	return ok
}

// IsLoopback reports whether ip is the IPv4 or IPv6 loopback literal.
func IsLoopback(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1"
}

// InAutoApproveAllowlist decides whether a client at ip may take the
// auto-approve pairing path. An empty ip is never approved. With no
// allowlist configured only loopback callers qualify. With an allowlist,
// loopback stays implicitly trusted (the gateway itself is a local caller)
// and each entry matches either literally or, when it is a valid IPv4 CIDR,
// by range membership. Entries that are neither are simply non-matching;
// entry order is irrelevant.
func InAutoApproveAllowlist(ip string, allowlist []string) bool {
	if ip == "" {
		return false
	}

	ip = NormalizeMappedIPv4(ip)
	if IsLoopback(ip) {
		return true
	}

	for _, entry := range allowlist {
		if entry == ip {
			return true
		}
		if IsValidCIDR(entry) && IPv4InCIDR(ip, entry) {
			return true
		}
	}

	return false
}
