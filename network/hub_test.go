package network

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil {
		resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

// TestHubFanOut verifies every subscriber receives the same snapshot
func TestHubFanOut(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	a := dial(t, wsURL(srv.URL))
	b := dial(t, wsURL(srv.URL))
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	snap := Snapshot{Session: "s1", Tick: 7, X: 1.5, Y: 2.5, Heading: 0.25, State: "advancing", RouteRemaining: 3, Visited: 1}
	hub.Publish(snap)

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var got Snapshot
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, snap, got)
		assert.Contains(t, string(data), `"route_remaining":3`)
	}
}

// TestHubUnregistersOnDisconnect verifies closed connections leave the client set
func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dial(t, wsURL(srv.URL))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

// TestHubDropsSlowClient verifies a full queue removes the client instead of blocking
func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(&Config{ClientBuffer: 1}, zap.NewNop())
	slow := &client{send: make(chan []byte, 1)}
	hub.clients[slow] = struct{}{}

	hub.Publish(Snapshot{Tick: 1})
	assert.Equal(t, 1, hub.Clients())

	done := make(chan struct{})
	go func() {
		hub.Publish(Snapshot{Tick: 2})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full client")
	}
	assert.Zero(t, hub.Clients())

	// Queued message remains readable, then the channel is closed
	_, ok := <-slow.send
	assert.True(t, ok)
	_, ok = <-slow.send
	assert.False(t, ok)
}

// TestHubPublishWithoutClients verifies publishing to nobody is a no-op
func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	hub.Publish(Snapshot{})
	assert.Zero(t, hub.Clients())
}

// TestHubStart verifies the hub serves on its own listener and stops with the context
func TestHubStart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	hub := NewHub(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, hub.Start(ctx))
	require.NotNil(t, hub.Addr())

	conn := dial(t, "ws://"+hub.Addr().String()+cfg.Path)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
