package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed = errors.New("validation failed") // Общая ошибка валидации

	ErrTeamNameRequired     = validationError("team name is required")
	ErrTeamLogoRequired     = validationError("team logo is required")
	ErrPlayerNameRequired   = validationError("player name is required")
	ErrPlayerNumberRequired = validationError("player number must be a non-negative integer")
	ErrPlayerRoleRequired   = validationError("player role is required")
	ErrMatchFieldsRequired  = validationError("teamA, teamB, date, time and venue are required")
	ErrInvalidMatchDate     = validationError("match date must be YYYY-MM-DD or RFC3339")
	ErrInvalidMatchTime     = validationError("match time must be HH:MM")
	ErrSameTeams            = validationError("a team cannot play against itself")
	ErrMatchTeamNotFound    = validationError("match references a team that does not exist")
	ErrInvalidWinner        = validationError("winner must be one of the two teams of the match")
	ErrNegativeScore        = validationError("scores must be non-negative")
	ErrNotEnoughTeams       = validationError("at least two teams are required")
	ErrInvalidSchedule      = validationError("legs must be 1 or 2 and interval days non-negative")

	// Ошибки конфликтов
	ErrTeamNameConflict        = errors.New("team name is already in use")
	ErrMatchAlreadyCompleted   = errors.New("match result has already been recorded")
	ErrInvalidStatusTransition = errors.New("invalid match status transition")

	// Ошибки аутентификации
	ErrInvalidAdminCode = errors.New("invalid admin code")

	// Ошибки, специфичные для сущностей
	ErrTeamNotFound  = errors.New("team not found")
	ErrMatchNotFound = errors.New("match not found")

	ErrExportNotConfigured = errors.New("standings export storage is not configured")
)

// validationError builds a sentinel that also matches ErrValidationFailed.
func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, msg)
}
