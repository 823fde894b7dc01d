package lifefeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kellsaro/golife/life"
	"github.com/kellsaro/golife/lifeserver"
)

func startFeed(t *testing.T) (*Broadcaster, *httptest.Server) {
	t.Helper()
	broadcaster := NewBroadcaster(DefaultFeedConfig())
	server := httptest.NewServer(broadcaster)
	t.Cleanup(server.Close)
	t.Cleanup(broadcaster.Close)
	return broadcaster, server
}

func dialFeed(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial feed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, broadcaster *Broadcaster, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for broadcaster.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", want, broadcaster.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastFrame(t *testing.T) {
	broadcaster, server := startFeed(t)
	conn := dialFeed(t, server)
	waitForClients(t, broadcaster, 1)

	blinker, _ := life.PatternByName("blinker")
	grid := life.NewGrid(5, 5, blinker.Place(1, 2))
	broadcaster.OnGenerationUpdate(7, grid)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}

	if frame.Generation != 7 {
		t.Errorf("Expected generation 7, got %d", frame.Generation)
	}

	if frame.Width != 5 || frame.Height != 5 {
		t.Errorf("Expected 5x5 frame, got %dx%d", frame.Width, frame.Height)
	}

	want := []life.Coord{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}
	if len(frame.Alive) != len(want) {
		t.Fatalf("Expected %d alive coordinates, got %d", len(want), len(frame.Alive))
	}
	for i, pos := range frame.Alive {
		if pos != want[i] {
			t.Errorf("Expected alive[%d] = (%d,%d), got (%d,%d)",
				i, want[i].X, want[i].Y, pos.X, pos.Y)
		}
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	broadcaster, server := startFeed(t)

	conn1 := dialFeed(t, server)
	conn2 := dialFeed(t, server)
	waitForClients(t, broadcaster, 2)

	broadcaster.OnGenerationUpdate(1, life.NewGrid(2, 2, []life.Coord{{X: 0, Y: 0}}))

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))

		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("Failed to read frame: %v", err)
		}
		if frame.Generation != 1 || len(frame.Alive) != 1 {
			t.Errorf("Expected generation 1 with 1 alive cell, got %d with %d",
				frame.Generation, len(frame.Alive))
		}
	}
}

func TestClientDisconnect(t *testing.T) {
	broadcaster, server := startFeed(t)

	conn := dialFeed(t, server)
	waitForClients(t, broadcaster, 1)

	conn.Close()
	waitForClients(t, broadcaster, 0)

	// Broadcasting with no viewers is a no-op.
	broadcaster.OnGenerationUpdate(1, life.NewGrid(2, 2, nil))
}

func TestClose(t *testing.T) {
	broadcaster, server := startFeed(t)

	dialFeed(t, server)
	waitForClients(t, broadcaster, 1)

	broadcaster.Close()
	waitForClients(t, broadcaster, 0)
}

func TestDefaultFeedConfig(t *testing.T) {
	config := DefaultFeedConfig()
	if config.PingInterval <= 0 || config.SendQueueSize <= 0 {
		t.Error("Expected positive defaults")
	}

	broadcaster := NewBroadcaster(FeedConfig{})
	if broadcaster.config.PingInterval != config.PingInterval {
		t.Error("Expected zero config to fall back to defaults")
	}
	if broadcaster.config.SendQueueSize != config.SendQueueSize {
		t.Error("Expected zero config to fall back to defaults")
	}
}

func TestFeedObservesGridServer(t *testing.T) {
	broadcaster, server := startFeed(t)
	conn := dialFeed(t, server)
	waitForClients(t, broadcaster, 1)

	blinker, _ := life.PatternByName("blinker")
	grid := life.NewGrid(5, 5, blinker.Place(1, 2))

	gridServer := lifeserver.NewGridServer(grid, lifeserver.DefaultServerConfig())
	gridServer.AddObserver(broadcaster)
	gridServer.Start()
	defer gridServer.Stop()

	gridServer.Advance()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}

	if frame.Generation != 1 {
		t.Errorf("Expected generation 1, got %d", frame.Generation)
	}

	// Generation 1 of the blinker is the vertical phase.
	want := []life.Coord{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}}
	if len(frame.Alive) != len(want) {
		t.Fatalf("Expected %d alive coordinates, got %d", len(want), len(frame.Alive))
	}
	for i, pos := range frame.Alive {
		if pos != want[i] {
			t.Errorf("Expected alive[%d] = (%d,%d), got (%d,%d)",
				i, want[i].X, want[i].Y, pos.X, pos.Y)
		}
	}
}
