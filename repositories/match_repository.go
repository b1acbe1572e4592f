package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/volleyball-tournament/models"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchTeamInvalid      = errors.New("match team conflict or invalid")
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	// List returns all matches ordered by date, then time of day.
	List(ctx context.Context) ([]*models.Match, error)
	// UpdateSchedule replaces teams, date, time and venue only.
	UpdateSchedule(ctx context.Context, match *models.Match) error
	UpdateStatus(ctx context.Context, id string, status models.MatchStatus) error
	// Complete stores the result and marks the match completed. It fails with
	// ErrMatchAlreadyCompleted if the match was completed before.
	Complete(ctx context.Context, id string, result models.MatchResult) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.MatchStatus]int, error)
	DeleteAll(ctx context.Context) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, team_a_id, team_b_id, match_date, match_time, venue, status, winner_id,
	team_a_score, team_b_score, created_at, updated_at`

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var (
		m        models.Match
		winnerID sql.NullString
	)
	err := rowScanner.Scan(
		&m.ID, &m.TeamAID, &m.TeamBID, &m.Date, &m.Time, &m.Venue, &m.Status, &winnerID,
		&m.TeamAScore, &m.TeamBScore, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if winnerID.Valid {
		m.WinnerID = &winnerID.String
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	executor := executorFrom(ctx, r.db)
	query := `
		INSERT INTO matches (team_a_id, team_b_id, match_date, match_time, venue, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, team_a_score, team_b_score, created_at, updated_at`

	if match.Status == "" {
		match.Status = models.MatchStatusUpcoming
	}

	err := executor.QueryRowContext(ctx, query,
		match.TeamAID, match.TeamBID, match.Date, match.Time, match.Venue, match.Status,
	).Scan(&match.ID, &match.TeamAScore, &match.TeamBScore, &match.CreatedAt, &match.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	executor := executorFrom(ctx, r.db)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	executor := executorFrom(ctx, r.db)
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY match_date ASC, match_time ASC, created_at ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, match *models.Match) error {
	executor := executorFrom(ctx, r.db)
	query := `
		UPDATE matches
		SET team_a_id = $1, team_b_id = $2, match_date = $3, match_time = $4, venue = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := executor.QueryRowContext(ctx, query,
		match.TeamAID, match.TeamBID, match.Date, match.Time, match.Venue, match.ID,
	).Scan(&match.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return r.handleMatchError(err)
	}
	return nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus) error {
	executor := executorFrom(ctx, r.db)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		if isMalformedID(err) {
			return ErrMatchNotFound
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Complete(ctx context.Context, id string, result models.MatchResult) error {
	executor := executorFrom(ctx, r.db)
	query := `
		UPDATE matches
		SET team_a_score = $1, team_b_score = $2, winner_id = $3, status = $4, updated_at = NOW()
		WHERE id = $5 AND status <> $4`

	res, err := executor.ExecContext(ctx, query,
		result.TeamAScore, result.TeamBScore, result.WinnerID, models.MatchStatusCompleted, id,
	)
	if err != nil {
		if isMalformedID(err) {
			return ErrMatchNotFound
		}
		return r.handleMatchError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either there is no such match or it was completed before.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrMatchAlreadyCompleted
	}
	return nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id string) error {
	executor := executorFrom(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return ErrMatchNotFound
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountByStatus(ctx context.Context) (map[models.MatchStatus]int, error) {
	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, `SELECT status, COUNT(*) FROM matches GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.MatchStatus]int)
	for rows.Next() {
		var (
			status models.MatchStatus
			count  int
		)
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, scanErr
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM matches`)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, ok := pqCode(err)
	if !ok {
		return err
	}
	switch code {
	case pqForeignKeyViolation, pqInvalidTextRepr:
		return ErrMatchTeamInvalid
	case pqCheckViolation:
		switch constraint {
		case "matches_distinct_teams", "matches_winner_check":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
