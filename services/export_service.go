package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/Dosada05/volleyball-tournament/storage"
)

const (
	LatestStandingsKey  = "standings/latest.json"
	standingsKeyPattern = "standings/%s.json"
	snapshotContentType = "application/json"
)

var ErrExportFailed = errors.New("failed to export standings")

type ExportService interface {
	// ExportStandings uploads the current standings as a JSON snapshot and
	// returns the upload of the latest copy.
	ExportStandings(ctx context.Context) (*storage.UploadResult, error)
}

// StandingsSnapshot is the exported document.
type StandingsSnapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Standings   []models.Standing `json:"standings"`
}

type exportService struct {
	standings StandingsService
	uploader  storage.FileUploader
	logger    *slog.Logger
	now       func() time.Time
}

// NewExportService returns a service that fails with ErrExportNotConfigured
// when uploader is nil.
func NewExportService(standings StandingsService, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	return &exportService{standings: standings, uploader: uploader, logger: logger, now: time.Now}
}

func (s *exportService) ExportStandings(ctx context.Context) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrExportNotConfigured
	}

	standings, err := s.standings.GetStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	now := s.now().UTC()
	body, err := json.MarshalIndent(StandingsSnapshot{GeneratedAt: now, Standings: standings}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal snapshot: %w", ErrExportFailed, err)
	}

	archiveKey := fmt.Sprintf(standingsKeyPattern, now.Format("20060102T150405Z"))
	if _, err = s.uploader.Upload(ctx, archiveKey, snapshotContentType, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	latest, err := s.uploader.Upload(ctx, LatestStandingsKey, snapshotContentType, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.logger.InfoContext(ctx, "Standings exported",
		slog.String("key", latest.Key),
		slog.String("archive_key", archiveKey),
		slog.Int("teams", len(standings)),
	)
	return latest, nil
}
