package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/storage"
)

type memoryUploader struct {
	objects map[string][]byte
	fail    error
}

func (u *memoryUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.fail != nil {
		return nil, u.fail
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestExportStandings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createTeam(t, "A")
	b := env.createTeam(t, "B")
	m := env.scheduleMatch(t, a.ID, b.ID)
	if _, err := env.results.RecordResult(ctx, m.ID, RecordResultInput{WinnerID: strPtr(b.ID)}); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	uploader := &memoryUploader{objects: map[string][]byte{}}
	svc := NewExportService(env.standings, uploader, discardLogger()).(*exportService)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC) }

	result, err := svc.ExportStandings(ctx)
	if err != nil {
		t.Fatalf("ExportStandings: %v", err)
	}
	if result.Key != LatestStandingsKey || !strings.HasSuffix(result.Location, LatestStandingsKey) {
		t.Errorf("unexpected upload result %+v", result)
	}
	if _, ok := uploader.objects["standings/20250601T123000Z.json"]; !ok {
		t.Errorf("timestamped copy missing, have %d objects", len(uploader.objects))
	}

	var snapshot StandingsSnapshot
	if err = json.Unmarshal(uploader.objects[LatestStandingsKey], &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snapshot.Standings) != 2 || snapshot.Standings[0].TeamID != b.ID || snapshot.Standings[0].Points != 2 {
		t.Errorf("unexpected snapshot %+v", snapshot)
	}
}

func TestExportStandingsErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := NewExportService(env.standings, nil, discardLogger()).ExportStandings(ctx); !errors.Is(err, ErrExportNotConfigured) {
		t.Errorf("nil uploader: got %v, want ErrExportNotConfigured", err)
	}

	failing := &memoryUploader{objects: map[string][]byte{}, fail: errors.New("bucket gone")}
	if _, err := NewExportService(env.standings, failing, discardLogger()).ExportStandings(ctx); !errors.Is(err, ErrExportFailed) {
		t.Errorf("failing uploader: got %v, want ErrExportFailed", err)
	}
}
