package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/google/uuid"
)

// memoryDB keeps everything in process memory. It backs tests and the
// STORE_DRIVER=memory mode; data is lost on restart.
type memoryDB struct {
	mu      sync.Mutex
	teams   []*models.Team // insertion order
	matches []*models.Match
	admins  []*models.Admin
	now     func() time.Time
}

type memoryTxKey struct{}

// NewMemoryStore returns a Store whose repositories share one in-memory database.
func NewMemoryStore() *Store {
	db := &memoryDB{now: time.Now}
	return &Store{
		Teams:   &memoryTeamRepository{db: db},
		Matches: &memoryMatchRepository{db: db},
		Admins:  &memoryAdminRepository{db: db},
		Tx:      &memoryTransactor{db: db},
	}
}

// lock takes the database mutex unless ctx already runs inside a memory
// transaction on the same database.
func (m *memoryDB) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(memoryTxKey{}).(*memoryDB); ok && owner == m {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

type memorySnapshot struct {
	teams   []*models.Team
	matches []*models.Match
	admins  []*models.Admin
}

func (m *memoryDB) snapshot() memorySnapshot {
	s := memorySnapshot{
		teams:   make([]*models.Team, len(m.teams)),
		matches: make([]*models.Match, len(m.matches)),
		admins:  make([]*models.Admin, len(m.admins)),
	}
	for i, t := range m.teams {
		s.teams[i] = copyTeam(t)
	}
	for i, match := range m.matches {
		s.matches[i] = copyMatch(match)
	}
	for i, a := range m.admins {
		admin := *a
		s.admins[i] = &admin
	}
	return s
}

func (m *memoryDB) restore(s memorySnapshot) {
	m.teams = s.teams
	m.matches = s.matches
	m.admins = s.admins
}

func (m *memoryDB) findTeam(id string) (int, *models.Team) {
	for i, t := range m.teams {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (m *memoryDB) findMatch(id string) (int, *models.Match) {
	for i, match := range m.matches {
		if match.ID == id {
			return i, match
		}
	}
	return -1, nil
}

func copyTeam(t *models.Team) *models.Team {
	c := *t
	c.Players = make([]models.Player, len(t.Players))
	copy(c.Players, t.Players)
	return &c
}

func copyMatch(match *models.Match) *models.Match {
	c := *match
	if match.WinnerID != nil {
		w := *match.WinnerID
		c.WinnerID = &w
	}
	c.TeamA, c.TeamB, c.Winner = nil, nil, nil
	return &c
}

// --- transactions ---

type memoryTransactor struct {
	db *memoryDB
}

func (t *memoryTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(memoryTxKey{}).(*memoryDB); ok && owner == t.db {
		return fn(ctx)
	}

	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	saved := t.db.snapshot()
	committed := false
	defer func() {
		if !committed {
			t.db.restore(saved)
		}
	}()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, t.db)); err != nil {
		return err
	}
	committed = true
	return nil
}

// --- teams ---

type memoryTeamRepository struct {
	db *memoryDB
}

func (r *memoryTeamRepository) Create(ctx context.Context, team *models.Team) error {
	defer r.db.lock(ctx)()

	for _, t := range r.db.teams {
		if t.Name == team.Name {
			return ErrTeamNameConflict
		}
	}

	team.ID = uuid.NewString()
	team.CreatedAt = r.db.now()
	team.TeamStats = models.TeamStats{}
	if team.Players == nil {
		team.Players = []models.Player{}
	}
	r.db.teams = append(r.db.teams, copyTeam(team))
	return nil
}

func (r *memoryTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	defer r.db.lock(ctx)()

	_, t := r.db.findTeam(id)
	if t == nil {
		return nil, ErrTeamNotFound
	}
	return copyTeam(t), nil
}

func (r *memoryTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	defer r.db.lock(ctx)()

	teams := make([]*models.Team, len(r.db.teams))
	for i, t := range r.db.teams {
		teams[i] = copyTeam(t)
	}
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Points != teams[j].Points {
			return teams[i].Points > teams[j].Points
		}
		return teams[i].Wins > teams[j].Wins
	})
	return teams, nil
}

func (r *memoryTeamRepository) Update(ctx context.Context, team *models.Team) error {
	defer r.db.lock(ctx)()

	_, existing := r.db.findTeam(team.ID)
	if existing == nil {
		return ErrTeamNotFound
	}
	for _, t := range r.db.teams {
		if t.ID != team.ID && t.Name == team.Name {
			return ErrTeamNameConflict
		}
	}
	existing.Name = team.Name
	existing.LogoURL = team.LogoURL
	return nil
}

func (r *memoryTeamRepository) Delete(ctx context.Context, id string) error {
	defer r.db.lock(ctx)()

	idx, t := r.db.findTeam(id)
	if t == nil {
		return ErrTeamNotFound
	}
	r.db.teams = append(r.db.teams[:idx], r.db.teams[idx+1:]...)

	kept := r.db.matches[:0]
	for _, match := range r.db.matches {
		if match.TeamAID != id && match.TeamBID != id {
			kept = append(kept, match)
		}
	}
	r.db.matches = kept
	return nil
}

func (r *memoryTeamRepository) AddPlayer(ctx context.Context, teamID string, player *models.Player) error {
	defer r.db.lock(ctx)()

	_, t := r.db.findTeam(teamID)
	if t == nil {
		return ErrTeamNotFound
	}
	player.ID = uuid.NewString()
	t.Players = append(t.Players, *player)
	return nil
}

func (r *memoryTeamRepository) ApplyStats(ctx context.Context, teamID string, delta models.TeamStats) error {
	defer r.db.lock(ctx)()

	_, t := r.db.findTeam(teamID)
	if t == nil {
		return ErrTeamNotFound
	}
	t.TeamStats = t.TeamStats.Add(delta)
	return nil
}

func (r *memoryTeamRepository) Count(ctx context.Context) (int, error) {
	defer r.db.lock(ctx)()
	return len(r.db.teams), nil
}

func (r *memoryTeamRepository) DeleteAll(ctx context.Context) error {
	defer r.db.lock(ctx)()
	r.db.teams = nil
	r.db.matches = nil
	return nil
}

// --- matches ---

type memoryMatchRepository struct {
	db *memoryDB
}

func (r *memoryMatchRepository) checkTeams(match *models.Match) error {
	if match.TeamAID == match.TeamBID {
		return ErrMatchTeamInvalid
	}
	if _, a := r.db.findTeam(match.TeamAID); a == nil {
		return ErrMatchTeamInvalid
	}
	if _, b := r.db.findTeam(match.TeamBID); b == nil {
		return ErrMatchTeamInvalid
	}
	return nil
}

func (r *memoryMatchRepository) Create(ctx context.Context, match *models.Match) error {
	defer r.db.lock(ctx)()

	if err := r.checkTeams(match); err != nil {
		return err
	}

	now := r.db.now()
	match.ID = uuid.NewString()
	if match.Status == "" {
		match.Status = models.MatchStatusUpcoming
	}
	match.TeamAScore, match.TeamBScore = 0, 0
	match.WinnerID = nil
	match.CreatedAt, match.UpdatedAt = now, now
	r.db.matches = append(r.db.matches, copyMatch(match))
	return nil
}

func (r *memoryMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	defer r.db.lock(ctx)()

	_, match := r.db.findMatch(id)
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return copyMatch(match), nil
}

func (r *memoryMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	defer r.db.lock(ctx)()

	matches := make([]*models.Match, len(r.db.matches))
	for i, match := range r.db.matches {
		matches[i] = copyMatch(match)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].Time < matches[j].Time
	})
	return matches, nil
}

func (r *memoryMatchRepository) UpdateSchedule(ctx context.Context, match *models.Match) error {
	defer r.db.lock(ctx)()

	_, existing := r.db.findMatch(match.ID)
	if existing == nil {
		return ErrMatchNotFound
	}
	if err := r.checkTeams(match); err != nil {
		return err
	}
	existing.TeamAID = match.TeamAID
	existing.TeamBID = match.TeamBID
	existing.Date = match.Date
	existing.Time = match.Time
	existing.Venue = match.Venue
	existing.UpdatedAt = r.db.now()
	match.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *memoryMatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus) error {
	defer r.db.lock(ctx)()

	_, existing := r.db.findMatch(id)
	if existing == nil {
		return ErrMatchNotFound
	}
	existing.Status = status
	existing.UpdatedAt = r.db.now()
	return nil
}

func (r *memoryMatchRepository) Complete(ctx context.Context, id string, result models.MatchResult) error {
	defer r.db.lock(ctx)()

	_, existing := r.db.findMatch(id)
	if existing == nil {
		return ErrMatchNotFound
	}
	if existing.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyCompleted
	}
	if result.WinnerID != nil && *result.WinnerID != existing.TeamAID && *result.WinnerID != existing.TeamBID {
		return ErrMatchTeamInvalid
	}

	existing.TeamAScore = result.TeamAScore
	existing.TeamBScore = result.TeamBScore
	existing.WinnerID = nil
	if result.WinnerID != nil {
		w := *result.WinnerID
		existing.WinnerID = &w
	}
	existing.Status = models.MatchStatusCompleted
	existing.UpdatedAt = r.db.now()
	return nil
}

func (r *memoryMatchRepository) Delete(ctx context.Context, id string) error {
	defer r.db.lock(ctx)()

	idx, match := r.db.findMatch(id)
	if match == nil {
		return ErrMatchNotFound
	}
	r.db.matches = append(r.db.matches[:idx], r.db.matches[idx+1:]...)
	return nil
}

func (r *memoryMatchRepository) CountByStatus(ctx context.Context) (map[models.MatchStatus]int, error) {
	defer r.db.lock(ctx)()

	counts := make(map[models.MatchStatus]int)
	for _, match := range r.db.matches {
		counts[match.Status]++
	}
	return counts, nil
}

func (r *memoryMatchRepository) DeleteAll(ctx context.Context) error {
	defer r.db.lock(ctx)()
	r.db.matches = nil
	return nil
}

// --- admins ---

type memoryAdminRepository struct {
	db *memoryDB
}

func (r *memoryAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	defer r.db.lock(ctx)()

	admin.ID = uuid.NewString()
	admin.CreatedAt = r.db.now()
	c := *admin
	r.db.admins = append(r.db.admins, &c)
	return nil
}

func (r *memoryAdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	defer r.db.lock(ctx)()

	admins := make([]*models.Admin, len(r.db.admins))
	for i, a := range r.db.admins {
		c := *a
		admins[i] = &c
	}
	return admins, nil
}

func (r *memoryAdminRepository) Count(ctx context.Context) (int, error) {
	defer r.db.lock(ctx)()
	return len(r.db.admins), nil
}
