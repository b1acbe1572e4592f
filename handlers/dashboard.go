package handlers

import (
	"net/http"

	"github.com/Dosada05/volleyball-tournament/services"
)

type DashboardHandler struct {
	standingsService services.StandingsService
	summaryService   services.SummaryService
}

func NewDashboardHandler(ss services.StandingsService, sums services.SummaryService) *DashboardHandler {
	return &DashboardHandler{
		standingsService: ss,
		summaryService:   sums,
	}
}

// Info отвечает на GET / для проверки, что API живо.
func (h *DashboardHandler) Info(w http.ResponseWriter, r *http.Request) {
	err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Volleyball Tournament API"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Standings godoc
// @Summary Ranked tournament table
// @Tags standings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/standings [get]
func (h *DashboardHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingsService.GetStandings(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Summary godoc
// @Summary Tournament counters, leader and next match
// @Tags standings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/summary [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaryService.GetSummary(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, summary, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
