package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/rodrigouroz/moltbot/internal/config"
	"github.com/rodrigouroz/moltbot/internal/netguard"
	"github.com/rodrigouroz/moltbot/internal/pairing"
)

const shutdownTimeout = 5 * time.Second

// OpenRoutes resolves the listen-host set for the configured bind mode and
// serves the gateway on every resolved address until ctx is cancelled. A
// loopback bind dual-binds ::1 when the host supports it.
func OpenRoutes(ctx context.Context, store *pairing.Store) error {
	cfg := config.GetConfig()

	host, err := cfg.ResolvedHost()
	if err != nil {
		return fmt.Errorf("resolve bind host: %w", err)
	}

	hosts, err := netguard.ResolveListenHosts(ctx, host, netguard.LoopbackProbe{})
	if err != nil {
		return fmt.Errorf("resolve listen hosts: %w", err)
	}

	listeners, err := openListeners(hosts, cfg.Gateway.Port, cfg.Gateway.MaxConns)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: BuildRoutes(store)}

	g, gctx := errgroup.WithContext(ctx)
	for _, ln := range listeners {
		log.Info("Gateway listening", "addr", ln.Addr().String())
		g.Go(func() error {
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openListeners binds every host on the same port. maxConns > 0 caps
// concurrent connections per listener. On any bind failure the already-open
// listeners are closed before returning.
func openListeners(hosts []string, port, maxConns int) ([]net.Listener, error) {
	listeners := make([]net.Listener, 0, len(hosts))

	for _, host := range hosts {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			for _, open := range listeners {
				_ = open.Close()
			}
			return nil, fmt.Errorf("listen on %s: %w", host, err)
		}

		if maxConns > 0 {
			ln = netutil.LimitListener(ln, maxConns)
		}
		listeners = append(listeners, ln)
	}

	return listeners, nil
}
