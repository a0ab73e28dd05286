package googlecal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Stub is a placeholder EventSource that returns canned events. It stands
// in for the real provider until Google credentials are configured and is
// not a model of real Google Calendar semantics.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Events(_ context.Context, _ oauth2.TokenSource, externalCalendarID string, win Window) ([]Event, error) {
	canned := []struct {
		title  string
		offset time.Duration
		length time.Duration
	}{
		{"Doctor Appointment", 2 * 24 * time.Hour, time.Hour},
		{"Soccer Practice", 3 * 24 * time.Hour, 90 * time.Minute},
		{"Family Dinner", 5 * 24 * time.Hour, 2 * time.Hour},
	}

	var events []Event
	for i, c := range canned {
		start := win.Min.Add(c.offset)
		if start.After(win.Max) {
			continue
		}
		events = append(events, Event{
			ID:    fmt.Sprintf("%s-%d", externalCalendarID, i+1),
			Title: c.title,
			Start: start,
			End:   start.Add(c.length),
		})
	}
	return events, nil
}
