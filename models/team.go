package models

import "time"

// Очки турнирной таблицы за исход матча.
const (
	PointsForWin  = 2
	PointsForDraw = 1
	PointsForLoss = 0
)

// TeamStats is the accumulated record of a team. It is also used as an
// increment when a result is applied.
type TeamStats struct {
	MatchesPlayed int `json:"matches_played" bson:"matchesPlayed"`
	Wins          int `json:"wins" bson:"wins"`
	Losses        int `json:"losses" bson:"losses"`
	Draws         int `json:"draws" bson:"draws"`
	Points        int `json:"points" bson:"points"`
}

// Add returns the sum of two stat records.
func (s TeamStats) Add(delta TeamStats) TeamStats {
	return TeamStats{
		MatchesPlayed: s.MatchesPlayed + delta.MatchesPlayed,
		Wins:          s.Wins + delta.Wins,
		Losses:        s.Losses + delta.Losses,
		Draws:         s.Draws + delta.Draws,
		Points:        s.Points + delta.Points,
	}
}

// Consistent reports whether the counters agree with each other.
func (s TeamStats) Consistent() bool {
	return s.MatchesPlayed == s.Wins+s.Losses+s.Draws &&
		s.Points == s.Wins*PointsForWin+s.Draws*PointsForDraw+s.Losses*PointsForLoss
}

type Team struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	LogoURL   string    `json:"logo_url" db:"logo_url"`
	Players   []Player  `json:"players" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	TeamStats
}

// Ref returns the short form used when a match embeds its teams.
func (t *Team) Ref() *TeamRef {
	if t == nil {
		return nil
	}
	return &TeamRef{ID: t.ID, Name: t.Name, LogoURL: t.LogoURL}
}
