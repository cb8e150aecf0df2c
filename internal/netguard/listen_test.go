package netguard

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type binderFunc func(ctx context.Context, host string) (bool, error)

func (f binderFunc) CanBindToHost(ctx context.Context, host string) (bool, error) {
	return f(ctx, host)
}

func forbiddenBinder(t *testing.T) HostBinder {
	t.Helper()
	return binderFunc(func(ctx context.Context, host string) (bool, error) {
		t.Errorf("CanBindToHost(%q) called for a non-loopback host", host)
		return false, nil
	})
}

func TestResolveListenHostsNonLoopback(t *testing.T) {
	for _, host := range []string{"0.0.0.0", "192.168.1.10", "localhost", "example.com", ""} {
		got, err := ResolveListenHosts(context.Background(), host, forbiddenBinder(t))
		if err != nil {
			t.Fatalf("ResolveListenHosts(%q) returned error: %v", host, err)
		}
		if want := []string{host}; !reflect.DeepEqual(got, want) {
			t.Errorf("ResolveListenHosts(%q) = %v, want %v", host, got, want)
		}
	}
}

func TestResolveListenHostsLoopbackDualBind(t *testing.T) {
	calls := 0
	binder := binderFunc(func(ctx context.Context, host string) (bool, error) {
		calls++
		if host != "::1" {
			t.Errorf("probe asked about %q, want ::1", host)
		}
		return true, nil
	})

	got, err := ResolveListenHosts(context.Background(), "127.0.0.1", binder)
	if err != nil {
		t.Fatalf("ResolveListenHosts returned error: %v", err)
	}
	if want := []string{"127.0.0.1", "::1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveListenHosts = %v, want %v", got, want)
	}
	if calls != 1 {
		t.Errorf("probe invoked %d times, want exactly 1", calls)
	}
}

func TestResolveListenHostsLoopbackNoIPv6(t *testing.T) {
	binder := binderFunc(func(ctx context.Context, host string) (bool, error) {
		return false, nil
	})

	got, err := ResolveListenHosts(context.Background(), "127.0.0.1", binder)
	if err != nil {
		t.Fatalf("ResolveListenHosts returned error: %v", err)
	}
	if want := []string{"127.0.0.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveListenHosts = %v, want %v", got, want)
	}
}

func TestResolveListenHostsWholeLoopbackRange(t *testing.T) {
	binder := binderFunc(func(ctx context.Context, host string) (bool, error) {
		return true, nil
	})

	got, err := ResolveListenHosts(context.Background(), "127.0.0.53", binder)
	if err != nil {
		t.Fatalf("ResolveListenHosts returned error: %v", err)
	}
	if want := []string{"127.0.0.53", "::1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveListenHosts = %v, want %v", got, want)
	}
}

func TestResolveListenHostsProbeError(t *testing.T) {
	probeErr := errors.New("socket probe exploded")
	binder := binderFunc(func(ctx context.Context, host string) (bool, error) {
		return false, probeErr
	})

	if _, err := ResolveListenHosts(context.Background(), "127.0.0.1", binder); !errors.Is(err, probeErr) {
		t.Fatalf("ResolveListenHosts error = %v, want %v", err, probeErr)
	}
}

func TestLoopbackProbe(t *testing.T) {
	ok, err := LoopbackProbe{}.CanBindToHost(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("CanBindToHost returned error: %v", err)
	}
	if !ok {
		t.Fatal("binding IPv4 loopback on an ephemeral port should succeed")
	}

	if ok, err := (LoopbackProbe{}).CanBindToHost(context.Background(), "invalid-host-name."); err != nil {
		t.Fatalf("CanBindToHost returned error: %v", err)
	} else if ok {
		t.Fatal("binding an unresolvable host should report false")
	}
}
