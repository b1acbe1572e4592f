package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/volleyball-tournament/services"
	"github.com/robfig/cron/v3"
)

const exportTimeout = time.Minute

// Scheduler runs the periodic standings export.
type Scheduler struct {
	cron     *cron.Cron
	exporter services.ExportService
	logger   *slog.Logger
}

func NewScheduler(exporter services.ExportService, logger *slog.Logger) *Scheduler {
	// секунды в выражении обязательны: "0 */15 * * * *"
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(slogCronLogger{logger: logger}),
		cron.WithChain(cron.SkipIfStillRunning(slogCronLogger{logger: logger})),
	)
	return &Scheduler{cron: c, exporter: exporter, logger: logger}
}

// Start schedules the export on schedule and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runExport); err != nil {
		return fmt.Errorf("invalid export schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Export scheduler started", slog.String("schedule", schedule))
	return nil
}

// Stop waits for a running export to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Export scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Export scheduler stop timed out")
	}
}

func (s *Scheduler) runExport() {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	result, err := s.exporter.ExportStandings(ctx)
	if err != nil {
		s.logger.Error("Scheduled standings export failed", slog.Any("error", err))
		return
	}
	s.logger.Info("Scheduled standings export completed", slog.String("location", result.Location))
}

type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
