package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
)

// ComputeStandings orders teams by points, then wins, keeping input order
// for full ties, and assigns positional ranks starting at 1.
func ComputeStandings(teams []*models.Team) []models.Standing {
	ordered := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		if t != nil {
			ordered = append(ordered, t)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Points != ordered[j].Points {
			return ordered[i].Points > ordered[j].Points
		}
		return ordered[i].Wins > ordered[j].Wins
	})

	standings := make([]models.Standing, len(ordered))
	for i, t := range ordered {
		standings[i] = models.Standing{
			Rank:      i + 1,
			TeamID:    t.ID,
			Name:      t.Name,
			LogoURL:   t.LogoURL,
			TeamStats: t.TeamStats,
		}
	}
	return standings
}

type StandingsService interface {
	GetStandings(ctx context.Context) ([]models.Standing, error)
}

type standingsService struct {
	teamRepo repositories.TeamRepository
}

func NewStandingsService(teamRepo repositories.TeamRepository) StandingsService {
	return &standingsService{teamRepo: teamRepo}
}

func (s *standingsService) GetStandings(ctx context.Context) ([]models.Standing, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for standings: %w", err)
	}
	return ComputeStandings(teams), nil
}
