package repositories

import "database/sql"

// Store groups the repositories of one backend with its transaction boundary.
type Store struct {
	Teams   TeamRepository
	Matches MatchRepository
	Admins  AdminRepository
	Tx      Transactor
}

func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Teams:   NewPostgresTeamRepository(db),
		Matches: NewPostgresMatchRepository(db),
		Admins:  NewPostgresAdminRepository(db),
		Tx:      NewPostgresTransactor(db),
	}
}
