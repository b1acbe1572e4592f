package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/volleyball-tournament/services"
	"github.com/Dosada05/volleyball-tournament/utils"
)

type AdminHandler struct {
	adminService  services.AdminService
	exportService services.ExportService
	jwtSecret     []byte
	tokenTTL      time.Duration
}

func NewAdminHandler(as services.AdminService, es services.ExportService, jwtSecret string, tokenTTL time.Duration) *AdminHandler {
	return &AdminHandler{
		adminService:  as,
		exportService: es,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
	}
}

type loginRequest struct {
	Code string `json:"code"`
}

// Login godoc
// @Summary Exchange an admin code for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		badRequestResponse(w, r, errors.New("code is required"))
		return
	}

	admin, err := h.adminService.Login(r.Context(), req.Code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, expiresAt, err := utils.GenerateAdminToken(h.jwtSecret, admin.ID, h.tokenTTL, time.Now())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"authenticated": true,
		"token":         token,
		"expires_at":    expiresAt,
	}
	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetTournament удаляет все матчи и команды.
func (h *AdminHandler) ResetTournament(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.ResetTournament(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Tournament reset successfully"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ExportStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"key": result.Key, "location": result.Location}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
