package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
)

var ErrResultRecordFailed = errors.New("failed to record match result")

type ResultService interface {
	// RecordResult completes a match and applies the outcome to both teams
	// in one transaction.
	RecordResult(ctx context.Context, matchID string, input RecordResultInput) (*models.Match, error)
}

type RecordResultInput struct {
	WinnerID   *string
	TeamAScore *int
	TeamBScore *int
}

type resultService struct {
	store     *repositories.Store
	standings StandingsService
	notifier  Notifier
	logger    *slog.Logger
}

func NewResultService(store *repositories.Store, standings StandingsService, notifier Notifier, logger *slog.Logger) ResultService {
	return &resultService{
		store:     store,
		standings: standings,
		notifier:  notifierOrNoop(notifier),
		logger:    logger,
	}
}

// outcomeDeltas returns the stat increments for team A and team B.
func outcomeDeltas(match *models.Match) (models.TeamStats, models.TeamStats) {
	draw := models.TeamStats{MatchesPlayed: 1, Draws: 1, Points: models.PointsForDraw}
	win := models.TeamStats{MatchesPlayed: 1, Wins: 1, Points: models.PointsForWin}
	loss := models.TeamStats{MatchesPlayed: 1, Losses: 1, Points: models.PointsForLoss}

	loser, decisive := match.LoserID()
	switch {
	case !decisive:
		return draw, draw
	case loser == match.TeamBID:
		return win, loss
	default:
		return loss, win
	}
}

func (s *resultService) RecordResult(ctx context.Context, matchID string, input RecordResultInput) (*models.Match, error) {
	result := models.MatchResult{WinnerID: input.WinnerID}
	if input.TeamAScore != nil {
		result.TeamAScore = *input.TeamAScore
	}
	if input.TeamBScore != nil {
		result.TeamBScore = *input.TeamBScore
	}
	if result.WinnerID != nil && *result.WinnerID == "" {
		result.WinnerID = nil
	}

	var completed *models.Match
	err := s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		match, err := s.store.Matches.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		if result.WinnerID != nil && *result.WinnerID != match.TeamAID && *result.WinnerID != match.TeamBID {
			return ErrInvalidWinner
		}
		if result.TeamAScore < 0 || result.TeamBScore < 0 {
			return ErrNegativeScore
		}
		if match.Status == models.MatchStatusCompleted {
			return repositories.ErrMatchAlreadyCompleted
		}

		if err = s.store.Matches.Complete(ctx, matchID, result); err != nil {
			return err
		}
		match.Status = models.MatchStatusCompleted
		match.WinnerID = result.WinnerID
		match.TeamAScore = result.TeamAScore
		match.TeamBScore = result.TeamBScore

		deltaA, deltaB := outcomeDeltas(match)
		if err = s.store.Teams.ApplyStats(ctx, match.TeamAID, deltaA); err != nil {
			return fmt.Errorf("apply stats to team %s: %w", match.TeamAID, err)
		}
		if err = s.store.Teams.ApplyStats(ctx, match.TeamBID, deltaB); err != nil {
			return fmt.Errorf("apply stats to team %s: %w", match.TeamBID, err)
		}

		completed, err = s.store.Matches.GetByID(ctx, matchID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrMatchAlreadyCompleted):
			return nil, ErrMatchAlreadyCompleted
		case errors.Is(err, ErrNegativeScore):
			return nil, ErrNegativeScore
		case errors.Is(err, ErrInvalidWinner), errors.Is(err, repositories.ErrMatchTeamInvalid):
			return nil, ErrInvalidWinner
		default:
			s.logger.ErrorContext(ctx, "Failed to record match result",
				slog.String("match_id", matchID),
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("%w (id: %s): %w", ErrResultRecordFailed, matchID, err)
		}
	}

	s.logger.InfoContext(ctx, "Match result recorded",
		slog.String("match_id", completed.ID),
		slog.Int("team_a_score", completed.TeamAScore),
		slog.Int("team_b_score", completed.TeamBScore),
		slog.Bool("draw", completed.IsDraw()),
	)

	s.populateRefs(ctx, completed)
	s.notifier.Publish(ctx, newEvent(models.EventMatchCompleted, completed))
	if standings, standingsErr := s.standings.GetStandings(ctx); standingsErr == nil {
		s.notifier.Publish(ctx, newEvent(models.EventStandingsUpdated, standings))
	} else {
		s.logger.WarnContext(ctx, "Failed to load standings for live update", slog.Any("error", standingsErr))
	}

	return completed, nil
}

func (s *resultService) populateRefs(ctx context.Context, match *models.Match) {
	refs := make(map[string]*models.TeamRef, 2)
	for _, id := range []string{match.TeamAID, match.TeamBID} {
		team, err := s.store.Teams.GetByID(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to resolve match team", slog.String("team_id", id), slog.Any("error", err))
			continue
		}
		refs[id] = team.Ref()
	}
	resolveRefs(match, refs)
}
