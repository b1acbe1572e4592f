package brackets

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func teamIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("team-%d", i+1)
	}
	return ids
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func TestRoundRobinEveryPairOncePerLeg(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8} {
		for _, legs := range []int{1, 2} {
			t.Run(fmt.Sprintf("teams=%d legs=%d", n, legs), func(t *testing.T) {
				matches, err := NewRoundRobinGenerator().GenerateBracket(context.Background(), GenerateBracketParams{
					TeamIDs: teamIDs(n),
					Legs:    legs,
				})
				if err != nil {
					t.Fatalf("GenerateBracket: %v", err)
				}

				wantMatches := legs * n * (n - 1) / 2
				if len(matches) != wantMatches {
					t.Fatalf("got %d matches, want %d", len(matches), wantMatches)
				}

				pairs := map[string]int{}
				sides := map[string]bool{}
				perRound := map[int]map[string]bool{}
				uids := map[string]bool{}
				for _, m := range matches {
					if m.TeamAID == m.TeamBID {
						t.Fatalf("self match in round %d: %s", m.Round, m.TeamAID)
					}
					if uids[m.UID] {
						t.Fatalf("duplicate uid %s", m.UID)
					}
					uids[m.UID] = true

					pairs[pairKey(m.TeamAID, m.TeamBID)]++
					sides[m.TeamAID+">"+m.TeamBID] = true

					if perRound[m.Round] == nil {
						perRound[m.Round] = map[string]bool{}
					}
					for _, id := range []string{m.TeamAID, m.TeamBID} {
						if perRound[m.Round][id] {
							t.Fatalf("team %s plays twice in round %d", id, m.Round)
						}
						perRound[m.Round][id] = true
					}
				}

				if len(pairs) != n*(n-1)/2 {
					t.Fatalf("got %d distinct pairs, want %d", len(pairs), n*(n-1)/2)
				}
				for pair, count := range pairs {
					if count != legs {
						t.Errorf("pair %s played %d times, want %d", pair, count, legs)
					}
				}
				if legs == 2 && len(sides) != n*(n-1) {
					t.Errorf("second leg must swap sides: got %d distinct home/away pairings, want %d", len(sides), n*(n-1))
				}

				roundsPerLeg := n - 1
				if n%2 == 1 {
					roundsPerLeg = n
				}
				if len(perRound) != legs*roundsPerLeg {
					t.Errorf("got %d rounds, want %d", len(perRound), legs*roundsPerLeg)
				}
			})
		}
	}
}

func TestRoundRobinOrdering(t *testing.T) {
	matches, err := NewRoundRobinGenerator().GenerateBracket(context.Background(), GenerateBracketParams{TeamIDs: teamIDs(4)})
	if err != nil {
		t.Fatalf("GenerateBracket: %v", err)
	}
	for i := 1; i < len(matches); i++ {
		prev, cur := matches[i-1], matches[i]
		if cur.Round < prev.Round || (cur.Round == prev.Round && cur.OrderInRound <= prev.OrderInRound) {
			t.Fatalf("matches out of order at %d: %+v after %+v", i, cur, prev)
		}
	}
}

func TestRoundRobinInvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		params  GenerateBracketParams
		wantErr error
	}{
		{"no teams", GenerateBracketParams{}, ErrNotEnoughTeams},
		{"one team", GenerateBracketParams{TeamIDs: teamIDs(1)}, ErrNotEnoughTeams},
		{"three legs", GenerateBracketParams{TeamIDs: teamIDs(4), Legs: 3}, ErrInvalidLegs},
		{"duplicate team", GenerateBracketParams{TeamIDs: []string{"a", "b", "a"}}, ErrDuplicateTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoundRobinGenerator().GenerateBracket(context.Background(), tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}
