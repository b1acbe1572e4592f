package models

import "time"

type TournamentSummary struct {
	TeamsTotal       int       `json:"teams_total"`
	MatchesTotal     int       `json:"matches_total"`
	MatchesUpcoming  int       `json:"matches_upcoming"`
	MatchesOngoing   int       `json:"matches_ongoing"`
	MatchesCompleted int       `json:"matches_completed"`
	Leader           *Standing `json:"leader,omitempty"`
	NextMatch        *Match    `json:"next_match,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}
