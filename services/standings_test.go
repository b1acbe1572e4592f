package services

import (
	"context"
	"testing"

	"github.com/Dosada05/volleyball-tournament/models"
)

func teamWith(id string, points, wins int) *models.Team {
	return &models.Team{ID: id, Name: "Team " + id, TeamStats: models.TeamStats{Points: points, Wins: wins}}
}

func TestComputeStandings(t *testing.T) {
	tests := []struct {
		name  string
		teams []*models.Team
		want  []string
	}{
		{
			name:  "points then wins",
			teams: []*models.Team{teamWith("c", 8, 1), teamWith("b", 10, 2), teamWith("a", 10, 3)},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "full tie keeps input order",
			teams: []*models.Team{teamWith("x", 4, 2), teamWith("y", 4, 2), teamWith("z", 4, 2)},
			want:  []string{"x", "y", "z"},
		},
		{
			name:  "wins break ties only between equal points",
			teams: []*models.Team{teamWith("few-points", 2, 5), teamWith("many-points", 6, 0)},
			want:  []string{"many-points", "few-points"},
		},
		{
			name:  "empty",
			teams: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStandings(tt.teams)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i, row := range got {
				if row.TeamID != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, row.TeamID, tt.want[i])
				}
				if row.Rank != i+1 {
					t.Errorf("row %d rank = %d, want %d", i, row.Rank, i+1)
				}
			}
		})
	}
}

func TestComputeStandingsDoesNotReorderInput(t *testing.T) {
	teams := []*models.Team{teamWith("low", 1, 0), teamWith("high", 9, 4)}
	ComputeStandings(teams)
	if teams[0].ID != "low" {
		t.Errorf("input slice was reordered")
	}
}

func TestGetStandingsAfterResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createTeam(t, "A")
	b := env.createTeam(t, "B")
	c := env.createTeam(t, "C")

	// C beats A, C draws B, B beats A
	for _, r := range []struct {
		teamA, teamB string
		winner       *string
	}{
		{c.ID, a.ID, strPtr(c.ID)},
		{b.ID, c.ID, nil},
		{a.ID, b.ID, strPtr(b.ID)},
	} {
		m := env.scheduleMatch(t, r.teamA, r.teamB)
		if _, err := env.results.RecordResult(ctx, m.ID, RecordResultInput{WinnerID: r.winner}); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}

	standings, err := env.standings.GetStandings(ctx)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	// B and C both have 3 points and 1 win; B was created first.
	want := []struct {
		id     string
		points int
	}{{b.ID, 3}, {c.ID, 3}, {a.ID, 0}}
	for i, row := range standings {
		if row.TeamID != want[i].id || row.Points != want[i].points || row.Rank != i+1 {
			t.Errorf("row %d = %+v, want team %s with %d points", i, row, want[i].id, want[i].points)
		}
	}
}
