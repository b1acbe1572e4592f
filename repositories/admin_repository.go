package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/volleyball-tournament/models"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	List(ctx context.Context) ([]*models.Admin, error)
	Count(ctx context.Context) (int, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `INSERT INTO admins (code_hash) VALUES ($1) RETURNING id, created_at`
	return executorFrom(ctx, r.db).QueryRowContext(ctx, query, admin.CodeHash).Scan(&admin.ID, &admin.CreatedAt)
}

func (r *postgresAdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	rows, err := executorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT id, code_hash, created_at FROM admins ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]*models.Admin, 0)
	for rows.Next() {
		var a models.Admin
		if scanErr := rows.Scan(&a.ID, &a.CodeHash, &a.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		admins = append(admins, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *postgresAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := executorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}
