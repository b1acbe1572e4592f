package models

import "time"

type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusOngoing   MatchStatus = "ongoing"
	MatchStatusCompleted MatchStatus = "completed"
)

// MatchTimeLayout is the format of Match.Time.
const MatchTimeLayout = "15:04"

// MatchDateLayout is the calendar-day format accepted and produced for Match.Date.
const MatchDateLayout = "2006-01-02"

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusOngoing, MatchStatusCompleted:
		return true
	}
	return false
}

// TeamRef is the resolved name and logo of a team referenced by a match.
type TeamRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

type Match struct {
	ID         string      `json:"id" db:"id"`
	TeamAID    string      `json:"team_a_id" db:"team_a_id"`
	TeamBID    string      `json:"team_b_id" db:"team_b_id"`
	Date       time.Time   `json:"date" db:"match_date"`
	Time       string      `json:"time" db:"match_time"`
	Venue      string      `json:"venue" db:"venue"`
	Status     MatchStatus `json:"status" db:"status"`
	WinnerID   *string     `json:"winner_id" db:"winner_id"`
	TeamAScore int         `json:"team_a_score" db:"team_a_score"`
	TeamBScore int         `json:"team_b_score" db:"team_b_score"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`

	TeamA  *TeamRef `json:"team_a,omitempty" db:"-"`
	TeamB  *TeamRef `json:"team_b,omitempty" db:"-"`
	Winner *TeamRef `json:"winner,omitempty" db:"-"`
}

// IsDraw is only meaningful for completed matches.
func (m *Match) IsDraw() bool {
	return m.WinnerID == nil
}

// LoserID returns the team that did not win a decisive match.
func (m *Match) LoserID() (string, bool) {
	if m.WinnerID == nil {
		return "", false
	}
	if *m.WinnerID == m.TeamAID {
		return m.TeamBID, true
	}
	return m.TeamAID, true
}

// MatchResult is the final score submitted for a match. A nil WinnerID is a draw.
type MatchResult struct {
	WinnerID   *string
	TeamAScore int
	TeamBScore int
}
