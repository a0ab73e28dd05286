package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthfam/hearth/internal/family"
	"github.com/hearthfam/hearth/internal/googleauth"
	"github.com/hearthfam/hearth/internal/googlecal"
	"github.com/hearthfam/hearth/internal/handler"
	"github.com/hearthfam/hearth/internal/middleware"
	"github.com/hearthfam/hearth/internal/store"
)

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	calendarH    *handler.CalendarHandler
	choreH       *handler.ChoreHandler
	groceryH     *handler.GroceryHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, google *googleauth.Service, events googlecal.EventSource, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	familyStore := store.NewFamilyStore(db)
	sessionStore := store.NewSessionStore(db)
	calendarStore := store.NewCalendarStore(db)
	choreStore := store.NewChoreStore(db)
	groceryStore := store.NewGroceryStore(db)

	bootstrap := family.NewBootstrap(db, userStore, logger.With("component", "bootstrap"))

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(google, bootstrap, userStore, familyStore, sessionStore, logger.With("component", "auth")),
		calendarH:    handler.NewCalendarHandler(calendarStore, userStore, google, events, logger.With("component", "calendar")),
		choreH:       handler.NewChoreHandler(choreStore, userStore, logger.With("component", "chore")),
		groceryH:     handler.NewGroceryHandler(groceryStore, logger.With("component", "grocery")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	outerMux.Handle("GET /auth/google/login", rl(http.HandlerFunc(s.authH.Login)))
	outerMux.Handle("GET /auth/google/callback", rl(http.HandlerFunc(s.authH.Callback)))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Everything else requires a session.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// Calendar API routes
	mux.HandleFunc("GET /api/calendars", s.calendarH.List)
	mux.HandleFunc("POST /api/calendars", s.calendarH.Create)
	mux.HandleFunc("GET /api/calendars/events", s.calendarH.Events)
	mux.HandleFunc("PUT /api/calendars/{id}", s.calendarH.Update)
	mux.HandleFunc("DELETE /api/calendars/{id}", s.calendarH.Delete)

	// Chore API routes
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PUT /api/chores", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores", s.choreH.Delete)

	// Grocery API routes
	mux.HandleFunc("GET /api/grocery-lists", s.groceryH.Lists)
	mux.HandleFunc("POST /api/grocery-lists", s.groceryH.CreateList)
	mux.HandleFunc("POST /api/grocery-items", s.groceryH.CreateItem)
	mux.HandleFunc("PUT /api/grocery-items", s.groceryH.UpdateItem)
	mux.HandleFunc("DELETE /api/grocery-items", s.groceryH.DeleteItem)
}
