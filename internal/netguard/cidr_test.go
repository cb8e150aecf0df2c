package netguard

import (
	"fmt"
	"testing"
)

func TestIsValidCIDR(t *testing.T) {
	cases := []struct {
		input    string
		valid    bool
		testName string
	}{
		{"10.0.0.0/8", true, "class A range"},
		{"192.168.1.1/32", true, "host route"},
		{"0.0.0.0/0", true, "match-all"},
		{"255.255.255.255/32", true, "max octets"},
		{"10.0.1.5/8", true, "non-canonical base allowed"},
		{"10.0.0.0/33", false, "prefix above 32"},
		{"10.0.0.0/-1", false, "negative prefix"},
		{"10.0.0.0/+8", false, "signed prefix"},
		{"10.0.0.0/", false, "missing prefix"},
		{"10.0.0.0", false, "missing slash"},
		{"10.0.0/8", false, "three octets"},
		{"10.0.0.0.0/8", false, "five octets"},
		{"10.0.0.256/8", false, "octet above 255"},
		{"10.0.0.a/8", false, "non-numeric octet"},
		{"10.0.0.0/8x", false, "trailing junk in prefix"},
		{"::1/128", false, "ipv6 cidr"},
		{"", false, "empty string"},
		{"/", false, "bare slash"},
	}

	for _, tc := range cases {
		if got := IsValidCIDR(tc.input); got != tc.valid {
			t.Errorf("%s: IsValidCIDR(%q) = %v, want %v", tc.testName, tc.input, got, tc.valid)
		}
	}
}

func TestIPv4InCIDR(t *testing.T) {
	cases := []struct {
		ip       string
		cidr     string
		match    bool
		testName string
	}{
		{"10.1.2.3", "10.0.0.0/8", true, "inside class A range"},
		{"11.0.0.1", "10.0.0.0/8", false, "outside class A range"},
		{"192.168.1.42", "192.168.1.0/24", true, "inside /24"},
		{"192.168.2.42", "192.168.1.0/24", false, "outside /24"},
		{"192.168.1.1", "192.168.1.1/32", true, "exact host route"},
		{"192.168.1.2", "192.168.1.1/32", false, "adjacent host"},
		{"10.7.7.7", "10.0.1.5/8", true, "non-canonical base still masks"},
		{"8.8.8.8", "0.0.0.0/0", true, "prefix zero matches everything"},
		{"256.0.0.1", "0.0.0.0/0", false, "malformed ip never matches"},
		{"10.0.0.1", "10.0.0.0/33", false, "malformed cidr never matches"},
		{"", "10.0.0.0/8", false, "empty ip"},
		{"10.0.0.1", "", false, "empty cidr"},
		{"::1", "0.0.0.0/0", false, "ipv6 ip is not matched"},
	}

	for _, tc := range cases {
		if got := IPv4InCIDR(tc.ip, tc.cidr); got != tc.match {
			t.Errorf("%s: IPv4InCIDR(%q, %q) = %v, want %v", tc.testName, tc.ip, tc.cidr, got, tc.match)
		}
	}
}

func TestIPv4InCIDRMatchesOwnBase(t *testing.T) {
	cidrs := []string{"0.0.0.0/0", "10.0.0.0/8", "172.16.0.0/12", "192.168.1.0/24", "203.0.113.7/32", "10.0.1.5/8"}

	for _, cidr := range cidrs {
		base, _, ok := splitCIDR(cidr)
		if !ok {
			t.Fatalf("splitCIDR(%q) rejected a valid CIDR", cidr)
		}
		ip := formatIPv4(base)
		if !IPv4InCIDR(ip, cidr) {
			t.Errorf("IPv4InCIDR(%q, %q) = false, want true (a CIDR matches its own base)", ip, cidr)
		}
	}
}

func formatIPv4(addr uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", addr>>24&0xff, addr>>16&0xff, addr>>8&0xff, addr&0xff)
}
