package services

import (
	"context"
	"testing"
)

func TestGetSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	summarySvc := NewSummaryService(env.store, env.standings, env.matches)

	empty, err := summarySvc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary on empty store: %v", err)
	}
	if empty.TeamsTotal != 0 || empty.MatchesTotal != 0 || empty.Leader != nil || empty.NextMatch != nil {
		t.Errorf("unexpected empty summary %+v", empty)
	}

	a := env.createTeam(t, "A")
	b := env.createTeam(t, "B")
	c := env.createTeam(t, "C")
	done := env.scheduleMatch(t, a.ID, b.ID)
	live := env.scheduleMatch(t, b.ID, c.ID)
	next := env.scheduleMatch(t, c.ID, a.ID)

	if _, err = env.results.RecordResult(ctx, done.ID, RecordResultInput{WinnerID: strPtr(b.ID)}); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if _, err = env.matches.StartMatch(ctx, live.ID); err != nil {
		t.Fatalf("StartMatch: %v", err)
	}

	summary, err := summarySvc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.TeamsTotal != 3 || summary.MatchesTotal != 3 {
		t.Errorf("totals = %d teams, %d matches", summary.TeamsTotal, summary.MatchesTotal)
	}
	if summary.MatchesUpcoming != 1 || summary.MatchesOngoing != 1 || summary.MatchesCompleted != 1 {
		t.Errorf("status counts = %d/%d/%d, want 1/1/1", summary.MatchesUpcoming, summary.MatchesOngoing, summary.MatchesCompleted)
	}
	if summary.Leader == nil || summary.Leader.TeamID != b.ID {
		t.Errorf("leader = %+v, want %s", summary.Leader, b.ID)
	}
	if summary.NextMatch == nil || summary.NextMatch.ID != next.ID {
		t.Errorf("next match = %+v, want %s", summary.NextMatch, next.ID)
	}
}
