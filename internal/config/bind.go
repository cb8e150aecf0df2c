package config

import (
	"fmt"
	"net"

	"github.com/rodrigouroz/moltbot/internal/netguard"
)

// ResolvedHost maps the configured bind mode to the address the gateway
// should request for listening. "all" exposes the gateway on every
// interface, "local" keeps it loopback-only, "tailnet" picks the machine's
// tailnet IPv4, and an explicit IP literal is used as-is.
func (c Config) ResolvedHost() (string, error) {
	switch c.Gateway.Bind {
	case "", "all":
		return "0.0.0.0", nil
	case "local":
		return "127.0.0.1", nil
	case "tailnet":
		return findTailnetIPv4()
	default:
		if net.ParseIP(c.Gateway.Bind) != nil {
			return c.Gateway.Bind, nil
		}
		return "", fmt.Errorf("unknown gateway bind mode: %s", c.Gateway.Bind)
	}
}

// ResolvedAddr is ResolvedHost joined with the configured port.
func (c Config) ResolvedAddr() (string, error) {
	host, err := c.ResolvedHost()
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(host, fmt.Sprintf("%d", c.Gateway.Port)), nil
}

func findTailnetIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil {
				continue
			}
			ip4 := ip.To4()
			if ip4 == nil || ip4.IsLoopback() {
				continue
			}
			// 100.64.0.0/10 is the Tailscale default; 10.0.0.0/8 covers
			// self-hosted Headscale setups.
			if netguard.IPv4InCIDR(ip4.String(), "100.64.0.0/10") || netguard.IPv4InCIDR(ip4.String(), "10.0.0.0/8") {
				return ip4.String(), nil
			}
		}
	}

	return "", fmt.Errorf("no tailnet IPv4 address found")
}
