package netguard

import (
	"strconv"
	"strings"
)

// parseIPv4 parses a dotted-quad address into a 32-bit integer. It accepts
// exactly four decimal octets in [0,255] and nothing else.
func parseIPv4(s string) (uint32, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, false
	}

	var addr uint32
	for _, part := range parts {
		if !isDigits(part) {
			return 0, false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return 0, false
		}
		addr = addr<<8 | uint32(n)
	}

	return addr, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// splitCIDR breaks an IPv4 CIDR string into its base address and prefix
// length. The grammar is strict: a.b.c.d/n, octets in [0,255], prefix in
// [0,32], digits only on both sides of the slash.
func splitCIDR(s string) (base uint32, prefix int, ok bool) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return 0, 0, false
	}

	base, ok = parseIPv4(s[:slash])
	if !ok {
		return 0, 0, false
	}

	rest := s[slash+1:]
	if !isDigits(rest) {
		return 0, 0, false
	}
	prefix, err := strconv.Atoi(rest)
	if err != nil || prefix > 32 {
		return 0, 0, false
	}

	return base, prefix, true
}

// IsValidCIDR reports whether s is a syntactically valid IPv4 CIDR.
func IsValidCIDR(s string) bool {
	_, _, ok := splitCIDR(s)
	return ok
}

// IPv4InCIDR reports whether ip falls inside the range cidr. The base
// address does not have to be the canonical network address; both sides are
// masked before comparison. Malformed input on either side is a plain
// non-match, never an error.
func IPv4InCIDR(ip, cidr string) bool {
	addr, ok := parseIPv4(ip)
	if !ok {
		return false
	}

	base, prefix, ok := splitCIDR(cidr)
	if !ok {
		return false
	}

	mask := prefixMask(prefix)
	return addr&mask == base&mask
}

func prefixMask(prefix int) uint32 {
	if prefix <= 0 {
		return 0
	}
	return ^uint32(0) << (32 - prefix)
}
