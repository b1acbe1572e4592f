package brackets

import (
	"context"
)

type GenerateBracketParams struct {
	TeamIDs []string
	// Legs is 1 for a single round robin, 2 for home and away.
	Legs int
}

// BracketMatch is one planned pairing; it becomes a scheduled Match.
type BracketMatch struct {
	UID          string
	Round        int
	OrderInRound int

	TeamAID string
	TeamBID string
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}
