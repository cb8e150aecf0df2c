package netguard

import "context"

// HostBinder answers whether this process can currently bind a listening
// socket on the given host. Production implementations attempt a real
// bind-and-release; test doubles return canned answers.
type HostBinder interface {
	CanBindToHost(ctx context.Context, host string) (bool, error)
}

// ResolveListenHosts decides the set of addresses the gateway listens on.
// The requested host is always first. When it is IPv4 loopback the binder is
// probed exactly once for IPv6 loopback, so the gateway can dual-bind
// 127.0.0.1 and ::1 on hosts where IPv6 is usable without failing noisily
// where it is not. For any other host the binder is never consulted. A
// binder error aborts resolution unchanged.
func ResolveListenHosts(ctx context.Context, requestedHost string, binder HostBinder) ([]string, error) {
	hosts := []string{requestedHost}

	if !isIPv4Loopback(requestedHost) {
		return hosts, nil
	}

	ok, err := binder.CanBindToHost(ctx, "::1")
	if err != nil {
		return nil, err
	}
	if ok {
		hosts = append(hosts, "::1")
	}

	return hosts, nil
}

// isIPv4Loopback matches any 127.0.0.0/8 literal, not just 127.0.0.1.
func isIPv4Loopback(host string) bool {
	addr, ok := parseIPv4(host)
	return ok && addr>>24 == 127
}
