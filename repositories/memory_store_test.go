package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
)

func newTeam(t *testing.T, store *Store, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, LogoURL: "logo"}
	if err := store.Teams.Create(context.Background(), team); err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func newMatch(t *testing.T, store *Store, a, b string) *models.Match {
	t.Helper()
	match := &models.Match{TeamAID: a, TeamBID: b, Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Time: "18:00", Venue: "Court"}
	if err := store.Matches.Create(context.Background(), match); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}

func TestMemoryTeamNameIsUnique(t *testing.T) {
	store := NewMemoryStore()
	first := newTeam(t, store, "Lightning Spikers")
	second := newTeam(t, store, "Thunder Blocks")

	if err := store.Teams.Create(context.Background(), &models.Team{Name: "Lightning Spikers"}); !errors.Is(err, ErrTeamNameConflict) {
		t.Errorf("Create duplicate: got %v, want ErrTeamNameConflict", err)
	}
	second.Name = first.Name
	if err := store.Teams.Update(context.Background(), second); !errors.Is(err, ErrTeamNameConflict) {
		t.Errorf("Update to duplicate: got %v, want ErrTeamNameConflict", err)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	team := newTeam(t, store, "A")

	got, err := store.Teams.GetByID(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Points = 100
	got.Players = append(got.Players, models.Player{Name: "ghost"})

	again, _ := store.Teams.GetByID(context.Background(), team.ID)
	if again.Points != 0 || len(again.Players) != 0 {
		t.Errorf("stored team was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryMatchRules(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := newTeam(t, store, "A")
	b := newTeam(t, store, "B")
	c := newTeam(t, store, "C")

	if err := store.Matches.Create(ctx, &models.Match{TeamAID: a.ID, TeamBID: "missing"}); !errors.Is(err, ErrMatchTeamInvalid) {
		t.Errorf("unknown team: got %v", err)
	}
	if err := store.Matches.Create(ctx, &models.Match{TeamAID: a.ID, TeamBID: a.ID}); !errors.Is(err, ErrMatchTeamInvalid) {
		t.Errorf("self match: got %v", err)
	}

	match := newMatch(t, store, a.ID, b.ID)
	outsider := c.ID
	if err := store.Matches.Complete(ctx, match.ID, models.MatchResult{WinnerID: &outsider}); !errors.Is(err, ErrMatchTeamInvalid) {
		t.Errorf("outsider winner: got %v", err)
	}
	if err := store.Matches.Complete(ctx, match.ID, models.MatchResult{WinnerID: &a.ID, TeamAScore: 3, TeamBScore: 2}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := store.Matches.Complete(ctx, match.ID, models.MatchResult{}); !errors.Is(err, ErrMatchAlreadyCompleted) {
		t.Errorf("second Complete: got %v", err)
	}

	counts, _ := store.Matches.CountByStatus(ctx)
	if counts[models.MatchStatusCompleted] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestMemoryDeleteTeamRemovesItsMatches(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := newTeam(t, store, "A")
	b := newTeam(t, store, "B")
	c := newTeam(t, store, "C")
	newMatch(t, store, a.ID, b.ID)
	kept := newMatch(t, store, b.ID, c.ID)

	if err := store.Teams.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	matches, _ := store.Matches.List(ctx)
	if len(matches) != 1 || matches[0].ID != kept.ID {
		t.Errorf("matches after delete = %+v", matches)
	}
	if err := store.Teams.Delete(ctx, a.ID); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("second Delete: got %v", err)
	}
}

func TestMemoryTransactionRollback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := newTeam(t, store, "A")
	boom := errors.New("boom")

	err := store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := store.Teams.ApplyStats(ctx, a.ID, models.TeamStats{MatchesPlayed: 1, Wins: 1, Points: 2}); err != nil {
			return err
		}
		if err := store.Teams.Create(ctx, &models.Team{Name: "inside"}); err != nil {
			return err
		}
		// вложенная транзакция выполняется в рамках внешней
		if err := store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return store.Teams.ApplyStats(ctx, a.ID, models.TeamStats{Points: 1})
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTransaction: got %v, want boom", err)
	}

	got, _ := store.Teams.GetByID(ctx, a.ID)
	if got.TeamStats != (models.TeamStats{}) {
		t.Errorf("stats after rollback = %+v", got.TeamStats)
	}
	if n, _ := store.Teams.Count(ctx); n != 1 {
		t.Errorf("team count after rollback = %d, want 1", n)
	}
}

func TestMemoryConcurrentApplyStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := newTeam(t, store, "A")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return store.Teams.ApplyStats(ctx, a.ID, models.TeamStats{MatchesPlayed: 1, Draws: 1, Points: 1})
			})
		}()
	}
	wg.Wait()

	got, _ := store.Teams.GetByID(ctx, a.ID)
	if got.MatchesPlayed != 50 || got.Points != 50 || !got.Consistent() {
		t.Errorf("stats = %+v", got.TeamStats)
	}
}
