package config

import (
	"strings"
	"testing"
)

func TestResolvedHost(t *testing.T) {
	cases := []struct {
		bind     string
		want     string
		wantErr  bool
		testName string
	}{
		{"", "0.0.0.0", false, "empty defaults to all interfaces"},
		{"all", "0.0.0.0", false, "all interfaces"},
		{"local", "127.0.0.1", false, "loopback only"},
		{"192.168.1.20", "192.168.1.20", false, "explicit IPv4 literal"},
		{"::1", "::1", false, "explicit IPv6 literal"},
		{"lan-party", "", true, "unknown mode"},
	}

	for _, tc := range cases {
		var cfg Config
		cfg.Gateway.Bind = tc.bind

		got, err := cfg.ResolvedHost()
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: ResolvedHost(%q) expected error, got %q", tc.testName, tc.bind, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: ResolvedHost(%q) returned error: %v", tc.testName, tc.bind, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: ResolvedHost(%q) = %q, want %q", tc.testName, tc.bind, got, tc.want)
		}
	}
}

func TestResolvedAddr(t *testing.T) {
	var cfg Config
	cfg.Gateway.Bind = "local"
	cfg.Gateway.Port = 18789

	addr, err := cfg.ResolvedAddr()
	if err != nil {
		t.Fatalf("ResolvedAddr returned error: %v", err)
	}
	if addr != "127.0.0.1:18789" {
		t.Fatalf("ResolvedAddr = %q, want 127.0.0.1:18789", addr)
	}

	cfg.Gateway.Bind = "::1"
	addr, err = cfg.ResolvedAddr()
	if err != nil {
		t.Fatalf("ResolvedAddr returned error: %v", err)
	}
	if !strings.HasPrefix(addr, "[::1]:") {
		t.Fatalf("ResolvedAddr = %q, want bracketed IPv6 host", addr)
	}
}
