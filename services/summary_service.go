package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
	"golang.org/x/sync/errgroup"
)

type SummaryService interface {
	GetSummary(ctx context.Context) (*models.TournamentSummary, error)
}

type summaryService struct {
	store     *repositories.Store
	standings StandingsService
	matches   MatchService
}

func NewSummaryService(store *repositories.Store, standings StandingsService, matches MatchService) SummaryService {
	return &summaryService{store: store, standings: standings, matches: matches}
}

func (s *summaryService) GetSummary(ctx context.Context) (*models.TournamentSummary, error) {
	var (
		teamsTotal int
		counts     map[models.MatchStatus]int
		standings  []models.Standing
		matches    []*models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teamsTotal, err = s.store.Teams.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.Matches.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		standings, err = s.standings.GetStandings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matches.ListMatches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build tournament summary: %w", err)
	}

	summary := &models.TournamentSummary{
		TeamsTotal:       teamsTotal,
		MatchesUpcoming:  counts[models.MatchStatusUpcoming],
		MatchesOngoing:   counts[models.MatchStatusOngoing],
		MatchesCompleted: counts[models.MatchStatusCompleted],
		GeneratedAt:      time.Now().UTC(),
	}
	summary.MatchesTotal = summary.MatchesUpcoming + summary.MatchesOngoing + summary.MatchesCompleted
	if len(standings) > 0 {
		leader := standings[0]
		summary.Leader = &leader
	}
	for _, m := range matches {
		if m.Status == models.MatchStatusUpcoming {
			summary.NextMatch = m
			break
		}
	}
	return summary, nil
}
