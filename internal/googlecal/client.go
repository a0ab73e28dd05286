package googlecal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const maxFetchRetries = 3

// Client fetches events from the Google Calendar API.
type Client struct {
	logger *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{logger: logger}
}

// Events lists the calendar's events in the window, expanded to single
// occurrences and ordered by start time. Pages are followed to exhaustion;
// rate-limit and server errors are retried with exponential backoff.
func (c *Client) Events(ctx context.Context, ts oauth2.TokenSource, externalCalendarID string, win Window) ([]Event, error) {
	if ts == nil {
		return nil, fmt.Errorf("googlecal: no credentials for calendar %q", externalCalendarID)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	var events []Event
	pageToken := ""
	for {
		resp, err := c.fetchPage(ctx, svc, externalCalendarID, win, pageToken)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			ev, err := convertEvent(item)
			if err != nil {
				c.logger.Warn("skipping unparseable event", "calendar", externalCalendarID, "event", item.Id, "error", err)
				continue
			}
			events = append(events, ev)
		}
		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *Client) fetchPage(ctx context.Context, svc *calendar.Service, calendarID string, win Window, pageToken string) (*calendar.Events, error) {
	backoff := retry.WithMaxRetries(maxFetchRetries, retry.NewExponential(500*time.Millisecond))

	var resp *calendar.Events
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		call := svc.Events.List(calendarID).
			TimeMin(win.Min.Format(time.RFC3339)).
			TimeMax(win.Max.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			if isRetryable(err) {
				c.logger.Warn("retrying event fetch", "calendar", calendarID, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events for %q: %w", calendarID, err)
	}
	return resp, nil
}

func isRetryable(err error) bool {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code == 429 || ge.Code >= 500
	}
	return false
}

func convertEvent(item *calendar.Event) (Event, error) {
	ev := Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
	}
	if ev.Title == "" {
		ev.Title = "No Title"
	}

	start, allDay, err := parseEventTime(item.Start)
	if err != nil {
		return Event{}, fmt.Errorf("start: %w", err)
	}
	end, _, err := parseEventTime(item.End)
	if err != nil {
		return Event{}, fmt.Errorf("end: %w", err)
	}
	ev.Start = start
	ev.End = end
	ev.AllDay = allDay
	return ev, nil
}

// parseEventTime handles both timed events (dateTime) and all-day events (date).
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool, error) {
	if t == nil {
		return time.Time{}, false, fmt.Errorf("missing event time")
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		return parsed, false, err
	}
	parsed, err := time.Parse("2006-01-02", t.Date)
	return parsed, true, err
}
