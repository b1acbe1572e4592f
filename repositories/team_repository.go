package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/volleyball-tournament/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	// List returns all teams ordered by points desc, wins desc, then creation order.
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	// Delete removes the team, its players and every match that references it.
	Delete(ctx context.Context, id string) error
	AddPlayer(ctx context.Context, teamID string, player *models.Player) error
	// ApplyStats adds delta to the team's counters in place.
	ApplyStats(ctx context.Context, teamID string, delta models.TeamStats) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, logo_url, matches_played, wins, losses, draws, points, created_at`

func scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.LogoURL,
		&t.MatchesPlayed, &t.Wins, &t.Losses, &t.Draws, &t.Points,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Players = []models.Player{}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	executor := executorFrom(ctx, r.db)
	query := `
		INSERT INTO teams (name, logo_url)
		VALUES ($1, $2)
		RETURNING id, matches_played, wins, losses, draws, points, created_at`

	err := executor.QueryRowContext(ctx, query, team.Name, team.LogoURL).Scan(
		&team.ID, &team.MatchesPlayed, &team.Wins, &team.Losses, &team.Draws, &team.Points, &team.CreatedAt,
	)
	if err != nil {
		return r.handleTeamError(err)
	}
	if team.Players == nil {
		team.Players = []models.Player{}
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	executor := executorFrom(ctx, r.db)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	players, err := r.listPlayers(ctx, executor, &id)
	if err != nil {
		return nil, err
	}
	team.Players = append(team.Players, players[id]...)
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	executor := executorFrom(ctx, r.db)
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY points DESC, wins DESC, created_at ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(teams) == 0 {
		return teams, nil
	}

	players, err := r.listPlayers(ctx, executor, nil)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		team.Players = append(team.Players, players[team.ID]...)
	}
	return teams, nil
}

// listPlayers loads rosters grouped by team id, for one team or for all of them.
func (r *postgresTeamRepository) listPlayers(ctx context.Context, executor SQLExecutor, teamID *string) (map[string][]models.Player, error) {
	query := `SELECT id, team_id, name, number, role FROM players`
	args := []interface{}{}
	if teamID != nil {
		query += ` WHERE team_id = $1`
		args = append(args, *teamID)
	}
	query += ` ORDER BY team_id, seq ASC`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	byTeam := make(map[string][]models.Player)
	for rows.Next() {
		var (
			p   models.Player
			tid string
		)
		if scanErr := rows.Scan(&p.ID, &tid, &p.Name, &p.Number, &p.Role); scanErr != nil {
			return nil, scanErr
		}
		byTeam[tid] = append(byTeam[tid], p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return byTeam, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	executor := executorFrom(ctx, r.db)
	query := `UPDATE teams SET name = $1, logo_url = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, team.Name, team.LogoURL, team.ID)
	if err != nil {
		if isMalformedID(err) {
			return ErrTeamNotFound
		}
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	executor := executorFrom(ctx, r.db)
	// players и matches удаляются каскадно (ON DELETE CASCADE)
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return ErrTeamNotFound
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddPlayer(ctx context.Context, teamID string, player *models.Player) error {
	executor := executorFrom(ctx, r.db)
	query := `
		INSERT INTO players (team_id, name, number, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query, teamID, player.Name, player.Number, player.Role).Scan(&player.ID)
	if err != nil {
		if isMalformedID(err) {
			return ErrTeamNotFound
		}
		if code, _, ok := pqCode(err); ok && code == pqForeignKeyViolation {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) ApplyStats(ctx context.Context, teamID string, delta models.TeamStats) error {
	executor := executorFrom(ctx, r.db)
	query := `
		UPDATE teams SET
			matches_played = matches_played + $1,
			wins = wins + $2,
			losses = losses + $3,
			draws = draws + $4,
			points = points + $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		delta.MatchesPlayed, delta.Wins, delta.Losses, delta.Draws, delta.Points,
		teamID,
	)
	if err != nil {
		if isMalformedID(err) {
			return ErrTeamNotFound
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := executorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) DeleteAll(ctx context.Context) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM teams`)
	return err
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok && code == pqUniqueViolation && constraint == "teams_name_key" {
		return ErrTeamNameConflict
	}
	return err
}
