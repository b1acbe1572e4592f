package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/storage"
)

type countingExporter struct {
	calls atomic.Int32
}

func (e *countingExporter) ExportStandings(context.Context) (*storage.UploadResult, error) {
	e.calls.Add(1)
	return &storage.UploadResult{Key: "standings/latest.json", Location: "https://cdn.example.com/standings/latest.json"}, nil
}

// blockingExporter holds an export open until release is closed.
type blockingExporter struct {
	started chan struct{}
	release chan struct{}
}

func (e *blockingExporter) ExportStandings(context.Context) (*storage.UploadResult, error) {
	select {
	case e.started <- struct{}{}:
	default:
	}
	<-e.release
	return &storage.UploadResult{Key: "standings/latest.json"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRunsExport(t *testing.T) {
	exporter := &countingExporter{}
	s := NewScheduler(exporter, discardLogger())
	if err := s.Start("* * * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop(context.Background())

	deadline := time.Now().Add(3 * time.Second)
	for exporter.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if exporter.calls.Load() == 0 {
		t.Fatal("export did not run")
	}
}

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(&countingExporter{}, discardLogger())
	for _, schedule := range []string{"", "every day", "0 0 * * *"} {
		if err := s.Start(schedule); err == nil {
			t.Errorf("Start(%q) succeeded, want error", schedule)
		}
	}
}

func TestSchedulerStopWaitsForRunningExport(t *testing.T) {
	exporter := &blockingExporter{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewScheduler(exporter, discardLogger())
	if err := s.Start("* * * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-exporter.started:
	case <-time.After(3 * time.Second):
		t.Fatal("export did not start")
	}

	// пока экспорт идёт, Stop возвращается только по таймауту
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	begin := time.Now()
	s.Stop(ctx)
	if elapsed := time.Since(begin); elapsed < 100*time.Millisecond {
		t.Errorf("Stop returned after %v while an export was running", elapsed)
	}

	close(exporter.release)
	done := make(chan struct{})
	go func() {
		s.Stop(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return after the export finished")
	}
}
