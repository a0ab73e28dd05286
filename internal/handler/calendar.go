package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hearthfam/hearth/internal/googleauth"
	"github.com/hearthfam/hearth/internal/googlecal"
	"github.com/hearthfam/hearth/internal/model"
	"github.com/hearthfam/hearth/internal/store"
	"golang.org/x/oauth2"
)

const defaultCalendarColor = "#3b82f6"

type CalendarHandler struct {
	calendars *store.CalendarStore
	users     *store.UserStore
	google    *googleauth.Service
	events    googlecal.EventSource
	logger    *slog.Logger
}

func NewCalendarHandler(cs *store.CalendarStore, us *store.UserStore, google *googleauth.Service, events googlecal.EventSource, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendars: cs, users: us, google: google, events: events, logger: logger}
}

type calendarCreateRequest struct {
	ExternalCalendarID string `json:"externalCalendarId"`
	Name               string `json:"name"`
	Color              string `json:"color"`
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	calendars, err := h.calendars.ListByFamily(ident.FamilyID)
	if err != nil {
		h.logger.Error("list calendars", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if calendars == nil {
		calendars = []model.Calendar{}
	}
	writeJSON(w, http.StatusOK, calendars)
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req calendarCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.ExternalCalendarID = strings.TrimSpace(req.ExternalCalendarID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ExternalCalendarID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "externalCalendarId and name are required")
		return
	}
	if req.Color == "" {
		req.Color = defaultCalendarColor
	}

	cal, err := h.calendars.Create(ident.FamilyID, ident.UserID, req.ExternalCalendarID, req.Name, req.Color)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "calendar already added to family")
			return
		}
		h.logger.Error("create calendar", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, cal)
}

type calendarUpdateRequest struct {
	Name      model.Optional[string] `json:"name"`
	Color     model.Optional[string] `json:"color"`
	IsVisible model.Optional[bool]   `json:"isVisible"`
}

func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req calendarUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cal, err := h.calendars.Update(ident.FamilyID, id, store.CalendarPatch{
		Name:      req.Name,
		Color:     req.Color,
		IsVisible: req.IsVisible,
	})
	if err != nil {
		h.logger.Error("update calendar", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if cal == nil {
		writeError(w, http.StatusNotFound, "calendar not found")
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.calendars.Delete(ident.FamilyID, id)
	if err != nil {
		h.logger.Error("delete calendar", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "calendar not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// calendarEvent decorates an adapter event with the family calendar it
// came from, the shape the calendar view renders.
type calendarEvent struct {
	googlecal.Event
	Color        string `json:"color"`
	CalendarName string `json:"calendarName"`
	CalendarID   int64  `json:"calendarId"`
}

// Events merges the events of the family's visible calendars for the
// requested window (default: the next 30 days).
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	win := googlecal.DefaultWindow()
	if v := r.URL.Query().Get("timeMin"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid timeMin")
			return
		}
		win.Min = t
	}
	if v := r.URL.Query().Get("timeMax"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid timeMax")
			return
		}
		win.Max = t
	}

	calendars, err := h.calendars.ListVisibleByFamily(ident.FamilyID)
	if err != nil {
		h.logger.Error("list visible calendars", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	ts, err := h.tokenSource(r, ident.UserID)
	if err != nil {
		h.logger.Error("resolve token source", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	events := []calendarEvent{}
	for _, cal := range calendars {
		fetched, err := h.events.Events(r.Context(), ts, cal.ExternalCalendarID, win)
		if err != nil {
			h.logger.Error("fetch events", "error", err, "calendar_id", cal.ID)
			writeError(w, http.StatusInternalServerError, "failed to fetch events")
			return
		}
		for _, ev := range fetched {
			events = append(events, calendarEvent{
				Event:        ev,
				Color:        cal.Color,
				CalendarName: cal.Name,
				CalendarID:   cal.ID,
			})
		}
	}

	writeJSON(w, http.StatusOK, events)
}

// tokenSource builds a refreshing token source from the caller's stored
// Google credentials. Nil when none are stored; the stub source ignores it.
func (h *CalendarHandler) tokenSource(r *http.Request, userID int64) (oauth2.TokenSource, error) {
	user, err := h.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.GoogleAccessToken == "" {
		return nil, nil
	}

	tok := &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
		TokenType:    "Bearer",
	}
	if user.GoogleTokenExpiry != nil {
		tok.Expiry = *user.GoogleTokenExpiry
	}
	return h.google.TokenSource(r.Context(), tok), nil
}
