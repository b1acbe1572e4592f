package brackets

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotEnoughTeams = errors.New("not enough teams to generate a round robin (minimum 2)")
	ErrInvalidLegs    = errors.New("legs must be 1 or 2")
	ErrDuplicateTeam  = errors.New("team listed more than once")
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket pairs every team with every other team using the circle
// method: the first team stays fixed and the rest rotate one position per
// round, so nobody plays twice in the same round. With an odd number of teams
// one team sits out each round. The second leg repeats the first with sides
// swapped.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	legs := params.Legs
	if legs == 0 {
		legs = 1
	}
	if legs != 1 && legs != 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: %w (got %d)", ErrInvalidLegs, params.Legs)
	}
	if len(params.TeamIDs) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: %w (found %d)", ErrNotEnoughTeams, len(params.TeamIDs))
	}

	seen := make(map[string]struct{}, len(params.TeamIDs))
	slots := make([]string, 0, len(params.TeamIDs)+1)
	for _, id := range params.TeamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("RoundRobinGenerator: %w: %s", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
		slots = append(slots, id)
	}
	if len(slots)%2 == 1 {
		slots = append(slots, "") // bye
	}

	n := len(slots)
	roundsPerLeg := n - 1
	matches := make([]*BracketMatch, 0, legs*len(params.TeamIDs)*(len(params.TeamIDs)-1)/2)

	for r := 0; r < roundsPerLeg; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		order := 0
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home == "" || away == "" {
				continue
			}
			// чередуем хозяев у зафиксированной команды
			if i == 0 && r%2 == 1 {
				home, away = away, home
			}
			order++
			matches = append(matches, &BracketMatch{
				UID:          fmt.Sprintf("L1_R%dM%d", r+1, order),
				Round:        r + 1,
				OrderInRound: order,
				TeamAID:      home,
				TeamBID:      away,
			})
			if legs == 2 {
				matches = append(matches, &BracketMatch{
					UID:          fmt.Sprintf("L2_R%dM%d", roundsPerLeg+r+1, order),
					Round:        roundsPerLeg + r + 1,
					OrderInRound: order,
					TeamAID:      away,
					TeamBID:      home,
				})
			}
		}

		// rotate all but the first slot clockwise
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].OrderInRound < matches[j].OrderInRound
	})

	return matches, nil
}
