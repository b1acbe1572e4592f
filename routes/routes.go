package routes

import (
	"log/slog"
	"net/http"

	_ "github.com/Dosada05/volleyball-tournament/docs"
	"github.com/Dosada05/volleyball-tournament/handlers"
	"github.com/Dosada05/volleyball-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers собирает обработчики всех групп маршрутов.
type Handlers struct {
	Team      *handlers.TeamHandler
	Match     *handlers.MatchHandler
	Admin     *handlers.AdminHandler
	Dashboard *handlers.DashboardHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(
	router chi.Router,
	h Handlers,
	jwtSecret string,
	allowedOrigins []string,
	logger *slog.Logger,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAdmin := middleware.RequireAdmin([]byte(jwtSecret), logger)

	router.Get("/", h.Dashboard.Info)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Get("/standings", h.Dashboard.Standings)
		r.Get("/summary", h.Dashboard.Summary)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.ListTeams)
			r.Get("/{teamID}", h.Team.GetTeamByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/", h.Team.CreateTeam)
				r.Put("/{teamID}", h.Team.UpdateTeam)
				r.Delete("/{teamID}", h.Team.DeleteTeam)
				r.Post("/{teamID}/players", h.Team.AddPlayer)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.ListMatches)
			r.Get("/{matchID}", h.Match.GetMatchByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/", h.Match.ScheduleMatch)
				r.Post("/round-robin", h.Match.GenerateRoundRobin)
				r.Put("/{matchID}", h.Match.UpdateMatch)
				r.Post("/{matchID}/start", h.Match.StartMatch)
				r.Put("/{matchID}/result", h.Match.RecordResult)
				r.Delete("/{matchID}", h.Match.DeleteMatch)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Delete("/reset", h.Admin.ResetTournament)
				r.Post("/export", h.Admin.ExportStandings)
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}`))
	})
}
