package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/gorilla/websocket"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startHub runs a hub behind an httptest websocket endpoint.
func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	h := NewHub(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Attach(conn)
	}))
	t.Cleanup(srv.Close)

	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event models.Event
	if err = json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return event
}

func TestHubDeliversToAllClients(t *testing.T) {
	h, url := startHub(t)
	first := dial(t, url)
	second := dial(t, url)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.Publish(context.Background(), models.Event{Type: models.EventTournamentReset, OccurredAt: time.Now()})
	h.Publish(context.Background(), models.Event{Type: models.EventStandingsUpdated, Data: []string{"a"}, OccurredAt: time.Now()})

	for _, conn := range []*websocket.Conn{first, second} {
		if got := readEvent(t, conn).Type; got != models.EventTournamentReset {
			t.Errorf("first event = %s, want %s", got, models.EventTournamentReset)
		}
		if got := readEvent(t, conn).Type; got != models.EventStandingsUpdated {
			t.Errorf("second event = %s, want %s", got, models.EventStandingsUpdated)
		}
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHubStopsWithContext(t *testing.T) {
	h := NewHub(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// must not block once the hub is gone
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize+10; i++ {
			h.Broadcast([]byte(`{}`))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked after stop")
	}
}
