package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Dosada05/volleyball-tournament/brackets"
	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
)

var (
	ErrMatchCreationFailed = errors.New("failed to create match")
	ErrMatchUpdateFailed   = errors.New("failed to update match")
	ErrMatchDeleteFailed   = errors.New("failed to delete match")
	ErrRoundRobinFailed    = errors.New("failed to generate round robin")
)

type MatchService interface {
	ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id string) (*models.Match, error)
	// ListMatches returns all matches by date and time with team references resolved.
	ListMatches(ctx context.Context) ([]*models.Match, error)
	UpdateMatch(ctx context.Context, id string, input ScheduleMatchInput) (*models.Match, error)
	StartMatch(ctx context.Context, id string) (*models.Match, error)
	DeleteMatch(ctx context.Context, id string) error
	GenerateRoundRobin(ctx context.Context, input RoundRobinInput) ([]*models.Match, error)
}

type ScheduleMatchInput struct {
	TeamAID string
	TeamBID string
	Date    string
	Time    string
	Venue   string
}

type RoundRobinInput struct {
	StartDate    string
	Time         string
	Venue        string
	IntervalDays int
	Legs         int
}

type matchService struct {
	store     *repositories.Store
	generator brackets.BracketGenerator
	logger    *slog.Logger
}

func NewMatchService(store *repositories.Store, generator brackets.BracketGenerator, logger *slog.Logger) MatchService {
	if generator == nil {
		generator = brackets.NewRoundRobinGenerator()
	}
	return &matchService{store: store, generator: generator, logger: logger}
}

func validateScheduleInput(input ScheduleMatchInput) (*models.Match, error) {
	teamA := strings.TrimSpace(input.TeamAID)
	teamB := strings.TrimSpace(input.TeamBID)
	venue := strings.TrimSpace(input.Venue)
	if teamA == "" || teamB == "" || strings.TrimSpace(input.Date) == "" || strings.TrimSpace(input.Time) == "" || venue == "" {
		return nil, ErrMatchFieldsRequired
	}
	if teamA == teamB {
		return nil, ErrSameTeams
	}
	date, err := parseMatchDate(input.Date)
	if err != nil {
		return nil, err
	}
	clock, err := parseMatchTime(input.Time)
	if err != nil {
		return nil, err
	}
	return &models.Match{
		TeamAID: teamA,
		TeamBID: teamB,
		Date:    date,
		Time:    clock,
		Venue:   venue,
	}, nil
}

func (s *matchService) ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*models.Match, error) {
	match, err := validateScheduleInput(input)
	if err != nil {
		return nil, err
	}
	match.Status = models.MatchStatusUpcoming

	if err = s.store.Matches.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrMatchTeamNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}

	s.logger.InfoContext(ctx, "Match scheduled",
		slog.String("match_id", match.ID),
		slog.String("team_a_id", match.TeamAID),
		slog.String("team_b_id", match.TeamBID),
	)
	return s.withRefs(ctx, match)
}

func (s *matchService) GetMatchByID(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.store.Matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match by id %s: %w", id, err)
	}
	return s.withRefs(ctx, match)
}

func (s *matchService) ListMatches(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.store.Matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if len(matches) == 0 {
		return []*models.Match{}, nil
	}

	teams, err := s.store.Teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for matches: %w", err)
	}
	refs := teamRefs(teams)
	for _, match := range matches {
		resolveRefs(match, refs)
	}
	return matches, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, id string, input ScheduleMatchInput) (*models.Match, error) {
	match, err := validateScheduleInput(input)
	if err != nil {
		return nil, err
	}
	match.ID = id

	var updated *models.Match
	err = s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Matches.UpdateSchedule(ctx, match); err != nil {
			return err
		}
		var getErr error
		updated, getErr = s.store.Matches.GetByID(ctx, id)
		return getErr
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrMatchTeamInvalid):
			return nil, ErrMatchTeamNotFound
		default:
			return nil, fmt.Errorf("%w (id: %s): %w", ErrMatchUpdateFailed, id, err)
		}
	}
	return s.withRefs(ctx, updated)
}

func (s *matchService) StartMatch(ctx context.Context, id string) (*models.Match, error) {
	var started *models.Match
	err := s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		match, err := s.store.Matches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !isValidStatusTransition(match.Status, models.MatchStatusOngoing) {
			return fmt.Errorf("%w: from '%s' to '%s'", ErrInvalidStatusTransition, match.Status, models.MatchStatusOngoing)
		}
		if err = s.store.Matches.UpdateStatus(ctx, id, models.MatchStatusOngoing); err != nil {
			return err
		}
		started, err = s.store.Matches.GetByID(ctx, id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, ErrInvalidStatusTransition):
			return nil, err
		default:
			return nil, fmt.Errorf("%w (id: %s): %w", ErrMatchUpdateFailed, id, err)
		}
	}
	return s.withRefs(ctx, started)
}

func (s *matchService) DeleteMatch(ctx context.Context, id string) error {
	if err := s.store.Matches.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("%w (id: %s): %w", ErrMatchDeleteFailed, id, err)
	}
	return nil
}

func (s *matchService) GenerateRoundRobin(ctx context.Context, input RoundRobinInput) ([]*models.Match, error) {
	if strings.TrimSpace(input.StartDate) == "" || strings.TrimSpace(input.Time) == "" || strings.TrimSpace(input.Venue) == "" {
		return nil, ErrMatchFieldsRequired
	}
	if input.IntervalDays < 0 || (input.Legs != 0 && input.Legs != 1 && input.Legs != 2) {
		return nil, ErrInvalidSchedule
	}
	start, err := parseMatchDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	clock, err := parseMatchTime(input.Time)
	if err != nil {
		return nil, err
	}
	venue := strings.TrimSpace(input.Venue)

	var created []*models.Match
	err = s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		teams, err := s.store.Teams.List(ctx)
		if err != nil {
			return err
		}
		if len(teams) < 2 {
			return ErrNotEnoughTeams
		}
		// порядок по дате создания, чтобы расписание не зависело от таблицы
		ids := make([]string, len(teams))
		byCreation := make([]*models.Team, len(teams))
		copy(byCreation, teams)
		sortTeamsByCreation(byCreation)
		for i, t := range byCreation {
			ids[i] = t.ID
		}

		planned, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{TeamIDs: ids, Legs: input.Legs})
		if err != nil {
			return err
		}

		created = make([]*models.Match, 0, len(planned))
		for _, bm := range planned {
			match := &models.Match{
				TeamAID: bm.TeamAID,
				TeamBID: bm.TeamBID,
				Date:    start.AddDate(0, 0, (bm.Round-1)*input.IntervalDays),
				Time:    clock,
				Venue:   venue,
				Status:  models.MatchStatusUpcoming,
			}
			if err := s.store.Matches.Create(ctx, match); err != nil {
				return fmt.Errorf("create match %s: %w", bm.UID, err)
			}
			created = append(created, match)
		}

		refs := teamRefs(teams)
		for _, match := range created {
			resolveRefs(match, refs)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRoundRobinFailed, err)
	}

	s.logger.InfoContext(ctx, "Round robin generated",
		slog.Int("matches", len(created)),
		slog.Int("legs", input.Legs),
	)
	return created, nil
}

func (s *matchService) withRefs(ctx context.Context, match *models.Match) (*models.Match, error) {
	refs := make(map[string]*models.TeamRef, 2)
	for _, id := range []string{match.TeamAID, match.TeamBID} {
		team, err := s.store.Teams.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve team %s: %w", id, err)
		}
		refs[id] = team.Ref()
	}
	resolveRefs(match, refs)
	return match, nil
}

func sortTeamsByCreation(teams []*models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
}
