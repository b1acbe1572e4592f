package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
	"github.com/Dosada05/volleyball-tournament/services"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// повторный запуск начинает с чистого турнира
	for i := 0; i < 2; i++ {
		if err := seed(ctx, store, "SECRET123", logger, time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	standings, err := services.NewStandingsService(store.Teams).GetStandings(ctx)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("got %d teams, want 3", len(standings))
	}
	if standings[0].Name != "Lightning Spikers" || standings[0].Points != 2 || standings[0].Wins != 1 {
		t.Errorf("leader = %+v, want Lightning Spikers with 2 points", standings[0])
	}

	counts, err := store.Matches.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[models.MatchStatusUpcoming] != 2 || counts[models.MatchStatusCompleted] != 1 {
		t.Errorf("match counts = %v, want 2 upcoming and 1 completed", counts)
	}

	if _, err = services.NewAdminService(store, nil, logger).Login(ctx, "SECRET123"); err != nil {
		t.Errorf("default admin code rejected: %v", err)
	}
}
