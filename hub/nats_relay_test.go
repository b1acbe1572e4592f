package hub

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/nats-io/nats-server/v2/server"
)

func startNATSServer(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("create nats server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func TestNATSRelayFansOutAcrossInstances(t *testing.T) {
	natsURL := startNATSServer(t)

	hubA, urlA := startHub(t)
	hubB, urlB := startHub(t)

	relayA, err := NewNATSRelay(natsURL, "volleyball.test", hubA, discardLogger())
	if err != nil {
		t.Fatalf("relay A: %v", err)
	}
	t.Cleanup(func() { relayA.Close() })
	relayB, err := NewNATSRelay(natsURL, "volleyball.test", hubB, discardLogger())
	if err != nil {
		t.Fatalf("relay B: %v", err)
	}
	t.Cleanup(func() { relayB.Close() })

	clientA := dial(t, urlA)
	clientB := dial(t, urlB)
	waitFor(t, func() bool { return hubA.ClientCount() == 1 && hubB.ClientCount() == 1 })

	relayA.Publish(context.Background(), models.Event{Type: models.EventMatchCompleted, OccurredAt: time.Now()})

	if got := readEvent(t, clientA).Type; got != models.EventMatchCompleted {
		t.Errorf("instance A got %s, want %s", got, models.EventMatchCompleted)
	}
	if got := readEvent(t, clientB).Type; got != models.EventMatchCompleted {
		t.Errorf("instance B got %s, want %s", got, models.EventMatchCompleted)
	}
}

func TestNATSRelayConnectError(t *testing.T) {
	if _, err := NewNATSRelay("nats://127.0.0.1:1", "volleyball.test", NewHub(discardLogger()), discardLogger()); err == nil {
		t.Fatal("expected connection error")
	}
}
