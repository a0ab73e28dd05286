// Package googlecal fetches events from external (Google) calendars.
// The EventSource interface is the seam between the data gateway and the
// provider: the default wiring is the canned-data Stub, with Client as the
// real Google Calendar implementation.
package googlecal

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Window bounds an event query in time.
type Window struct {
	Min time.Time
	Max time.Time
}

// DefaultWindow is now until 30 days out, matching the provider default.
func DefaultWindow() Window {
	now := time.Now().UTC()
	return Window{Min: now, Max: now.Add(30 * 24 * time.Hour)}
}

// Event is a single occurrence on an external calendar.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay,omitempty"`
}

// EventSource fetches the events of one external calendar within a window.
// ts carries the requesting user's OAuth credentials; implementations that
// do not talk to a real provider ignore it.
type EventSource interface {
	Events(ctx context.Context, ts oauth2.TokenSource, externalCalendarID string, win Window) ([]Event, error)
}
