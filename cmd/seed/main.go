package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/volleyball-tournament/config"
	"github.com/Dosada05/volleyball-tournament/db"
	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/repositories"
	"github.com/Dosada05/volleyball-tournament/services"
)

type seedPlayer struct {
	name   string
	number int
	role   string
}

type seedTeam struct {
	name    string
	logoURL string
	players []seedPlayer
}

var sampleTeams = []seedTeam{
	{
		name:    "Lightning Spikers",
		logoURL: "https://via.placeholder.com/150/FF0000/FFFFFF?text=LS",
		players: []seedPlayer{
			{"John Smith", 1, "Setter"},
			{"Mike Johnson", 2, "Outside Hitter"},
			{"David Wilson", 3, "Middle Blocker"},
		},
	},
	{
		name:    "Thunder Blocks",
		logoURL: "https://via.placeholder.com/150/0000FF/FFFFFF?text=TB",
		players: []seedPlayer{
			{"Sarah Davis", 1, "Setter"},
			{"Emma Garcia", 2, "Outside Hitter"},
			{"Lisa Brown", 3, "Libero"},
		},
	},
	{
		name:    "Storm Serve",
		logoURL: "https://via.placeholder.com/150/00FF00/FFFFFF?text=SS",
		players: []seedPlayer{
			{"James Miller", 1, "Setter"},
			{"Robert Taylor", 2, "Opposite Hitter"},
			{"Thomas Anderson", 3, "Middle Blocker"},
		},
	},
}

// seed заполняет хранилище демонстрационными данными.
func seed(ctx context.Context, store *repositories.Store, defaultAdminCode string, logger *slog.Logger, now time.Time) error {
	adminService := services.NewAdminService(store, nil, logger)
	teamService := services.NewTeamService(store)
	matchService := services.NewMatchService(store, nil, logger)
	standingsService := services.NewStandingsService(store.Teams)
	resultService := services.NewResultService(store, standingsService, nil, logger)

	if err := adminService.ResetTournament(ctx); err != nil {
		return err
	}
	if err := adminService.EnsureDefaultAdmin(ctx, defaultAdminCode); err != nil {
		return err
	}

	teams := make([]*models.Team, 0, len(sampleTeams))
	for _, st := range sampleTeams {
		team, err := teamService.CreateTeam(ctx, services.TeamInput{Name: st.name, LogoURL: st.logoURL})
		if err != nil {
			return err
		}
		for _, p := range st.players {
			number := p.number
			team, err = teamService.AddPlayer(ctx, team.ID, services.AddPlayerInput{Name: p.name, Number: &number, Role: p.role})
			if err != nil {
				return err
			}
		}
		teams = append(teams, team)
		logger.Info("Created team", slog.String("name", team.Name), slog.Int("players", len(team.Players)))
	}

	day := 24 * time.Hour
	fixtures := []services.ScheduleMatchInput{
		{TeamAID: teams[0].ID, TeamBID: teams[1].ID, Date: now.Add(day).Format(models.MatchDateLayout), Time: "19:00", Venue: "Main Court"},
		{TeamAID: teams[1].ID, TeamBID: teams[2].ID, Date: now.Add(2 * day).Format(models.MatchDateLayout), Time: "20:30", Venue: "Side Court"},
		{TeamAID: teams[0].ID, TeamBID: teams[2].ID, Date: now.Add(-day).Format(models.MatchDateLayout), Time: "18:00", Venue: "Main Court"},
	}
	var played *models.Match
	for _, f := range fixtures {
		match, err := matchService.ScheduleMatch(ctx, f)
		if err != nil {
			return err
		}
		played = match
		logger.Info("Created match", slog.String("team_a", f.TeamAID), slog.String("team_b", f.TeamBID))
	}

	// вчерашний матч уже сыгран
	winner, scoreA, scoreB := teams[0].ID, 25, 20
	_, err := resultService.RecordResult(ctx, played.ID, services.RecordResultInput{
		WinnerID:   &winner,
		TeamAScore: &scoreA,
		TeamBScore: &scoreB,
	})
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}

	err = seed(ctx, store, cfg.DefaultAdminCode, logger, time.Now())
	closeStore()
	if err != nil {
		logger.Error("Error initializing data", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Sample data initialized successfully")
}
