package models

import "time"

// Типы событий, рассылаемых клиентам в реальном времени.
const (
	EventMatchCompleted   = "match.completed"
	EventStandingsUpdated = "standings.updated"
	EventTournamentReset  = "tournament.reset"
)

// Event is a live update pushed to websocket clients and relayed over NATS.
type Event struct {
	Type       string      `json:"type"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
