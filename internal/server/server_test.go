package server

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/diegok/pixball/internal/client"
	"github.com/diegok/pixball/internal/protocol"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	s := NewServer(0, "Host")
	if err := s.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(s.Stop)

	port := s.Addr().(*net.TCPAddr).Port
	return s, fmt.Sprintf("127.0.0.1:%d", port)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestServer_WatchAndBroadcast(t *testing.T) {
	s, addr := startServer(t)

	c := client.NewClient("Alice", 120, 40)
	if err := c.Connect(addr); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer c.Close()

	if c.HostName != "Host" {
		t.Errorf("expected host name 'Host', got '%s'", c.HostName)
	}
	if c.WatcherID == "" {
		t.Error("expected a watcher id")
	}

	waitFor(t, "watcher to register", func() bool { return s.WatcherCount() == 1 })

	s.Publish(protocol.BallSnapshot{Frame: 5, X: 100, Y: 200, Radius: 24})

	select {
	case snap := <-c.Snapshots:
		if snap.Frame != 5 || snap.X != 100 || snap.Y != 200 {
			t.Errorf("unexpected snapshot %+v", snap)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a snapshot")
	}
}

func TestServer_LateWatcherGetsLatest(t *testing.T) {
	s, addr := startServer(t)

	if _, ok := s.Latest(); ok {
		t.Error("expected no snapshot before the first publish")
	}

	s.Publish(protocol.BallSnapshot{Frame: 9, X: 1, Y: 2})

	latest, ok := s.Latest()
	if !ok || latest.Frame != 9 {
		t.Errorf("expected latest frame 9, got %+v (%v)", latest, ok)
	}

	c := client.NewClient("Late", 80, 24)
	if err := c.Connect(addr); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer c.Close()

	select {
	case snap := <-c.Snapshots:
		if snap.Frame != 9 {
			t.Errorf("expected frame 9, got %d", snap.Frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the latest snapshot on join")
	}
}

func TestServer_RejectsSmallTerminal(t *testing.T) {
	_, addr := startServer(t)

	c := client.NewClient("Tiny", MinTermWidth-1, MinTermHeight)
	if err := c.Connect(addr); err == nil {
		c.Close()
		t.Fatal("expected small terminal to be rejected")
	}
}

func TestServer_WatcherLeaves(t *testing.T) {
	s, addr := startServer(t)

	c := client.NewClient("Bob", 80, 24)
	if err := c.Connect(addr); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	waitFor(t, "watcher to register", func() bool { return s.WatcherCount() == 1 })

	c.Close()
	waitFor(t, "watcher to leave", func() bool { return s.WatcherCount() == 0 })
}

func TestServer_StopSaysBye(t *testing.T) {
	s, addr := startServer(t)

	c := client.NewClient("Carol", 80, 24)
	if err := c.Connect(addr); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer c.Close()
	waitFor(t, "watcher to register", func() bool { return s.WatcherCount() == 1 })

	s.Stop()

	select {
	case bye := <-c.Bye:
		if bye.Reason == "" {
			t.Error("expected a reason")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected bye on stop")
	}

	// Second stop is a no-op.
	s.Stop()
}

func TestServer_GetServerAddresses(t *testing.T) {
	s, _ := startServer(t)
	port := s.Addr().(*net.TCPAddr).Port

	for _, addr := range s.GetServerAddresses() {
		_, p, err := net.SplitHostPort(addr)
		if err != nil {
			t.Errorf("bad address %q: %v", addr, err)
			continue
		}
		if p != fmt.Sprint(port) {
			t.Errorf("expected port %d in %q", port, addr)
		}
	}
}
