package netguard

import (
	"context"
	"net"
)

// LoopbackProbe is the production HostBinder. It answers the bind question
// by actually binding: listen on an ephemeral port on the host, then release
// it. A failed bind is a normal "no", not an error.
type LoopbackProbe struct{}

func (LoopbackProbe) CanBindToHost(ctx context.Context, host string) (bool, error) {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return false, nil
	}
	_ = ln.Close()

	return true, nil
}
