package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
	"github.com/Dosada05/volleyball-tournament/utils"
)

var ErrTournamentResetFailed = errors.New("failed to reset tournament")

type AdminService interface {
	// EnsureDefaultAdmin stores code as the first admin code when none exists yet.
	EnsureDefaultAdmin(ctx context.Context, code string) error
	Login(ctx context.Context, code string) (*models.Admin, error)
	ResetTournament(ctx context.Context) error
}

type adminService struct {
	store    *repositories.Store
	notifier Notifier
	logger   *slog.Logger
}

func NewAdminService(store *repositories.Store, notifier Notifier, logger *slog.Logger) AdminService {
	return &adminService{store: store, notifier: notifierOrNoop(notifier), logger: logger}
}

func (s *adminService) EnsureDefaultAdmin(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	count, err := s.store.Admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashSecret(code)
	if err != nil {
		return fmt.Errorf("failed to hash admin code: %w", err)
	}
	if err = s.store.Admins.Create(ctx, &models.Admin{CodeHash: hash}); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	s.logger.InfoContext(ctx, "Default admin code created")
	return nil
}

func (s *adminService) Login(ctx context.Context, code string) (*models.Admin, error) {
	if code == "" {
		return nil, ErrInvalidAdminCode
	}

	admins, err := s.store.Admins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	for _, admin := range admins {
		if utils.CheckSecretHash(code, admin.CodeHash) {
			return admin, nil
		}
	}

	s.logger.WarnContext(ctx, "Admin login rejected")
	return nil, ErrInvalidAdminCode
}

func (s *adminService) ResetTournament(ctx context.Context) error {
	err := s.store.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Matches.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete matches: %w", err)
		}
		if err := s.store.Teams.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete teams: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Tournament reset failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrTournamentResetFailed, err)
	}

	s.logger.InfoContext(ctx, "Tournament reset")
	s.notifier.Publish(ctx, newEvent(models.EventTournamentReset, nil))
	return nil
}
