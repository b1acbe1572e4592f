package services

import (
	"context"
	"strings"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
)

// Notifier receives live events after a change has been committed.
type Notifier interface {
	Publish(ctx context.Context, event models.Event)
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, models.Event) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func newEvent(eventType string, data interface{}) models.Event {
	return models.Event{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

// parseMatchDate accepts a calendar day or a full RFC3339 timestamp and
// truncates to midnight UTC.
func parseMatchDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(models.MatchDateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidMatchDate
	}
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseMatchTime validates a 24h HH:MM time of day and returns it normalized.
func parseMatchTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(models.MatchTimeLayout, s)
	if err != nil || len(s) != len(models.MatchTimeLayout) {
		return "", ErrInvalidMatchTime
	}
	return t.Format(models.MatchTimeLayout), nil
}

func isValidStatusTransition(current, next models.MatchStatus) bool {
	allowedTransitions := map[models.MatchStatus][]models.MatchStatus{
		models.MatchStatusUpcoming:  {models.MatchStatusOngoing},
		models.MatchStatusOngoing:   {},
		models.MatchStatusCompleted: {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func teamRefs(teams []*models.Team) map[string]*models.TeamRef {
	refs := make(map[string]*models.TeamRef, len(teams))
	for _, t := range teams {
		refs[t.ID] = t.Ref()
	}
	return refs
}

// resolveRefs fills TeamA, TeamB and Winner from refs. Missing teams stay nil.
func resolveRefs(match *models.Match, refs map[string]*models.TeamRef) {
	match.TeamA = refs[match.TeamAID]
	match.TeamB = refs[match.TeamBID]
	match.Winner = nil
	if match.WinnerID != nil {
		match.Winner = refs[*match.WinnerID]
	}
}
