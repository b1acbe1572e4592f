package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
)

var (
	ErrTeamCreationFailed = errors.New("failed to create team")
	ErrTeamUpdateFailed   = errors.New("failed to update team")
	ErrTeamDeleteFailed   = errors.New("failed to delete team")
	ErrPlayerAddFailed    = errors.New("failed to add player")
)

type TeamService interface {
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, id string, input TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	AddPlayer(ctx context.Context, teamID string, input AddPlayerInput) (*models.Team, error)
}

type TeamInput struct {
	Name    string
	LogoURL string
}

type AddPlayerInput struct {
	Name   string
	Number *int
	Role   string
}

type teamService struct {
	store *repositories.Store
}

func NewTeamService(store *repositories.Store) TeamService {
	return &teamService{store: store}
}

func validateTeamInput(input TeamInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", ErrTeamNameRequired
	}
	logo := strings.TrimSpace(input.LogoURL)
	if logo == "" {
		return "", "", ErrTeamLogoRequired
	}
	return name, logo, nil
}

func validatePlayerInput(input AddPlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.Number == nil || *input.Number < 0 {
		return nil, ErrPlayerNumberRequired
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		return nil, ErrPlayerRoleRequired
	}
	return &models.Player{Name: name, Number: *input.Number, Role: role}, nil
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	name, logo, err := validateTeamInput(input)
	if err != nil {
		return nil, err
	}

	team := &models.Team{Name: name, LogoURL: logo, Players: []models.Player{}}
	if err = s.store.Teams.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamCreationFailed, err)
	}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.store.Teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team by id %s: %w", id, err)
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.store.Teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if teams == nil {
		return []*models.Team{}, nil
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id string, input TeamInput) (*models.Team, error) {
	name, logo, err := validateTeamInput(input)
	if err != nil {
		return nil, err
	}

	var updated *models.Team
	err = s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Teams.Update(ctx, &models.Team{ID: id, Name: name, LogoURL: logo}); err != nil {
			return err
		}
		var getErr error
		updated, getErr = s.store.Teams.GetByID(ctx, id)
		return getErr
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		default:
			return nil, fmt.Errorf("%w (id: %s): %w", ErrTeamUpdateFailed, id, err)
		}
	}
	return updated, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id string) error {
	err := s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.store.Teams.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("%w (id: %s): %w", ErrTeamDeleteFailed, id, err)
	}
	return nil
}

func (s *teamService) AddPlayer(ctx context.Context, teamID string, input AddPlayerInput) (*models.Team, error) {
	player, err := validatePlayerInput(input)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	err = s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Teams.AddPlayer(ctx, teamID, player); err != nil {
			return err
		}
		var getErr error
		team, getErr = s.store.Teams.GetByID(ctx, teamID)
		return getErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("%w (team id: %s): %w", ErrPlayerAddFailed, teamID, err)
	}
	return team, nil
}
