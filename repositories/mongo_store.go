package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection and field names follow the documents written by the earlier
// Node version of the tracker. Admin documents from it keep a plaintext
// "code" field and are upgraded by upgradeLegacyAdmins.
const (
	teamsCollection   = "teams"
	matchesCollection = "matches"
	adminsCollection  = "admins"
)

type playerDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Number int                `bson:"number"`
	Role   string             `bson:"role"`
}

type teamDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	LogoURL   string             `bson:"logoURL"`
	Players   []playerDocument   `bson:"players"`
	CreatedAt time.Time          `bson:"createdAt"`

	models.TeamStats `bson:",inline"`
}

func (d *teamDocument) toModel() *models.Team {
	team := &models.Team{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		LogoURL:   d.LogoURL,
		Players:   make([]models.Player, 0, len(d.Players)),
		CreatedAt: d.CreatedAt,
		TeamStats: d.TeamStats,
	}
	for _, p := range d.Players {
		team.Players = append(team.Players, models.Player{ID: p.ID.Hex(), Name: p.Name, Number: p.Number, Role: p.Role})
	}
	return team
}

type matchDocument struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	TeamA      primitive.ObjectID  `bson:"teamA"`
	TeamB      primitive.ObjectID  `bson:"teamB"`
	Date       time.Time           `bson:"date"`
	Time       string              `bson:"time"`
	Venue      string              `bson:"venue"`
	Winner     *primitive.ObjectID `bson:"winner"`
	TeamAScore int                 `bson:"teamAScore"`
	TeamBScore int                 `bson:"teamBScore"`
	Status     models.MatchStatus  `bson:"status"`
	CreatedAt  time.Time           `bson:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt"`
}

func (d *matchDocument) toModel() *models.Match {
	match := &models.Match{
		ID:         d.ID.Hex(),
		TeamAID:    d.TeamA.Hex(),
		TeamBID:    d.TeamB.Hex(),
		Date:       d.Date.UTC(),
		Time:       d.Time,
		Venue:      d.Venue,
		Status:     d.Status,
		TeamAScore: d.TeamAScore,
		TeamBScore: d.TeamBScore,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Winner != nil {
		w := d.Winner.Hex()
		match.WinnerID = &w
	}
	return match
}

type adminDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CodeHash  string             `bson:"codeHash"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// NewMongoStore builds a Store on top of db and makes sure the indexes exist.
// Transactions need a replica set (a single-node one is enough).
func NewMongoStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	teams := db.Collection(teamsCollection)
	matches := db.Collection(matchesCollection)

	_, err := teams.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create teams name index: %w", err)
	}
	_, err = matches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create matches schedule index: %w", err)
	}

	admins := &mongoAdminRepository{admins: db.Collection(adminsCollection)}
	if err = admins.upgradeLegacyAdmins(ctx); err != nil {
		return nil, err
	}

	return &Store{
		Teams:   &mongoTeamRepository{teams: teams, matches: matches},
		Matches: &mongoMatchRepository{teams: teams, matches: matches},
		Admins:  admins,
		Tx:      &mongoTransactor{client: db.Client()},
	}, nil
}

type mongoTransactor struct {
	client *mongo.Client
}

func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// --- teams ---

type mongoTeamRepository struct {
	teams   *mongo.Collection
	matches *mongo.Collection
}

func (r *mongoTeamRepository) Create(ctx context.Context, team *models.Team) error {
	doc := teamDocument{
		ID:        primitive.NewObjectID(),
		Name:      team.Name,
		LogoURL:   team.LogoURL,
		Players:   []playerDocument{},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.teams.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTeamNameConflict
		}
		return err
	}
	*team = *doc.toModel()
	return nil
}

func (r *mongoTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrTeamNotFound
	}
	var doc teamDocument
	if err := r.teams.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *mongoTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "points", Value: -1},
		{Key: "wins", Value: -1},
		{Key: "createdAt", Value: 1},
	})
	cursor, err := r.teams.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	teams := make([]*models.Team, 0)
	for cursor.Next(ctx) {
		var doc teamDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		teams = append(teams, doc.toModel())
	}
	return teams, cursor.Err()
}

func (r *mongoTeamRepository) Update(ctx context.Context, team *models.Team) error {
	oid, ok := objectID(team.ID)
	if !ok {
		return ErrTeamNotFound
	}
	res, err := r.teams.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"name": team.Name, "logoURL": team.LogoURL},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTeamNameConflict
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *mongoTeamRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrTeamNotFound
	}
	res, err := r.teams.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTeamNotFound
	}
	_, err = r.matches.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"teamA": oid},
		bson.M{"teamB": oid},
	}})
	if err != nil {
		return fmt.Errorf("failed to delete matches of team %s: %w", id, err)
	}
	return nil
}

func (r *mongoTeamRepository) AddPlayer(ctx context.Context, teamID string, player *models.Player) error {
	oid, ok := objectID(teamID)
	if !ok {
		return ErrTeamNotFound
	}
	doc := playerDocument{
		ID:     primitive.NewObjectID(),
		Name:   player.Name,
		Number: player.Number,
		Role:   player.Role,
	}
	res, err := r.teams.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"players": doc}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTeamNotFound
	}
	player.ID = doc.ID.Hex()
	return nil
}

func (r *mongoTeamRepository) ApplyStats(ctx context.Context, teamID string, delta models.TeamStats) error {
	oid, ok := objectID(teamID)
	if !ok {
		return ErrTeamNotFound
	}
	res, err := r.teams.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{
		"matchesPlayed": delta.MatchesPlayed,
		"wins":          delta.Wins,
		"losses":        delta.Losses,
		"draws":         delta.Draws,
		"points":        delta.Points,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *mongoTeamRepository) Count(ctx context.Context) (int, error) {
	n, err := r.teams.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (r *mongoTeamRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.teams.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := r.matches.DeleteMany(ctx, bson.M{})
	return err
}

// --- matches ---

type mongoMatchRepository struct {
	teams   *mongo.Collection
	matches *mongo.Collection
}

// teamIDs checks that both teams exist and differ.
func (r *mongoMatchRepository) teamIDs(ctx context.Context, match *models.Match) (primitive.ObjectID, primitive.ObjectID, error) {
	a, okA := objectID(match.TeamAID)
	b, okB := objectID(match.TeamBID)
	if !okA || !okB || a == b {
		return a, b, ErrMatchTeamInvalid
	}
	n, err := r.teams.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": bson.A{a, b}}})
	if err != nil {
		return a, b, err
	}
	if n != 2 {
		return a, b, ErrMatchTeamInvalid
	}
	return a, b, nil
}

func (r *mongoMatchRepository) Create(ctx context.Context, match *models.Match) error {
	a, b, err := r.teamIDs(ctx, match)
	if err != nil {
		return err
	}
	if match.Status == "" {
		match.Status = models.MatchStatusUpcoming
	}
	now := time.Now().UTC()
	doc := matchDocument{
		ID:        primitive.NewObjectID(),
		TeamA:     a,
		TeamB:     b,
		Date:      match.Date,
		Time:      match.Time,
		Venue:     match.Venue,
		Status:    match.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.matches.InsertOne(ctx, doc); err != nil {
		return err
	}
	*match = *doc.toModel()
	return nil
}

func (r *mongoMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrMatchNotFound
	}
	var doc matchDocument
	if err := r.matches.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *mongoMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
		{Key: "createdAt", Value: 1},
	})
	cursor, err := r.matches.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	matches := make([]*models.Match, 0)
	for cursor.Next(ctx) {
		var doc matchDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		matches = append(matches, doc.toModel())
	}
	return matches, cursor.Err()
}

func (r *mongoMatchRepository) UpdateSchedule(ctx context.Context, match *models.Match) error {
	oid, ok := objectID(match.ID)
	if !ok {
		return ErrMatchNotFound
	}
	a, b, err := r.teamIDs(ctx, match)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.matches.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"teamA":     a,
		"teamB":     b,
		"date":      match.Date,
		"time":      match.Time,
		"venue":     match.Venue,
		"updatedAt": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMatchNotFound
	}
	match.UpdatedAt = now
	return nil
}

func (r *mongoMatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrMatchNotFound
	}
	res, err := r.matches.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *mongoMatchRepository) Complete(ctx context.Context, id string, result models.MatchResult) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrMatchNotFound
	}

	filter := bson.M{"_id": oid, "status": bson.M{"$ne": models.MatchStatusCompleted}}
	var winner *primitive.ObjectID
	if result.WinnerID != nil {
		w, ok := objectID(*result.WinnerID)
		if !ok {
			return ErrMatchTeamInvalid
		}
		winner = &w
		filter["$or"] = bson.A{bson.M{"teamA": w}, bson.M{"teamB": w}}
	}

	res, err := r.matches.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"teamAScore": result.TeamAScore,
		"teamBScore": result.TeamBScore,
		"winner":     winner,
		"status":     models.MatchStatusCompleted,
		"updatedAt":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyCompleted
	}
	return ErrMatchTeamInvalid
}

func (r *mongoMatchRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrMatchNotFound
	}
	res, err := r.matches.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *mongoMatchRepository) CountByStatus(ctx context.Context) (map[models.MatchStatus]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.matches.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[models.MatchStatus]int)
	for cursor.Next(ctx) {
		var row struct {
			Status models.MatchStatus `bson:"_id"`
			Count  int                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cursor.Err()
}

func (r *mongoMatchRepository) DeleteAll(ctx context.Context) error {
	_, err := r.matches.DeleteMany(ctx, bson.M{})
	return err
}

// --- admins ---

type mongoAdminRepository struct {
	admins *mongo.Collection
}

func (r *mongoAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	doc := adminDocument{
		ID:        primitive.NewObjectID(),
		CodeHash:  admin.CodeHash,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.admins.InsertOne(ctx, doc); err != nil {
		return err
	}
	admin.ID = doc.ID.Hex()
	admin.CreatedAt = doc.CreatedAt
	return nil
}

func (r *mongoAdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	cursor, err := r.admins.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	admins := make([]*models.Admin, 0)
	for cursor.Next(ctx) {
		var doc adminDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		admins = append(admins, &models.Admin{ID: doc.ID.Hex(), CodeHash: doc.CodeHash, CreatedAt: doc.CreatedAt})
	}
	return admins, cursor.Err()
}

func (r *mongoAdminRepository) Count(ctx context.Context) (int, error) {
	n, err := r.admins.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// legacyAdminFilter matches admin documents that still hold a plaintext code.
var legacyAdminFilter = bson.M{
	"code":     bson.M{"$type": "string"},
	"codeHash": bson.M{"$exists": false},
}

type legacyAdminDocument struct {
	ID   primitive.ObjectID `bson:"_id"`
	Code string             `bson:"code"`
}

// legacyAdminUpdate replaces a plaintext code with its bcrypt hash.
func legacyAdminUpdate(code string, now time.Time) (bson.M, error) {
	hash, err := utils.HashSecret(code)
	if err != nil {
		return nil, err
	}
	// документы без createdAt получают время обновления
	return bson.M{
		"$set":   bson.M{"codeHash": hash},
		"$unset": bson.M{"code": ""},
		"$min":   bson.M{"createdAt": now},
	}, nil
}

func (r *mongoAdminRepository) upgradeLegacyAdmins(ctx context.Context) error {
	cursor, err := r.admins.Find(ctx, legacyAdminFilter)
	if err != nil {
		return fmt.Errorf("failed to look up legacy admin codes: %w", err)
	}
	var legacy []legacyAdminDocument
	if err = cursor.All(ctx, &legacy); err != nil {
		return fmt.Errorf("failed to read legacy admin codes: %w", err)
	}

	now := time.Now().UTC()
	for _, doc := range legacy {
		update, err := legacyAdminUpdate(doc.Code, now)
		if err != nil {
			return fmt.Errorf("failed to hash legacy admin code: %w", err)
		}
		filter := bson.M{"_id": doc.ID, "codeHash": bson.M{"$exists": false}}
		if _, err = r.admins.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("failed to upgrade legacy admin %s: %w", doc.ID.Hex(), err)
		}
	}
	return nil
}
