package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthfam/hearth/internal/database"
	"github.com/hearthfam/hearth/internal/googleauth"
	"github.com/hearthfam/hearth/internal/googlecal"
	"github.com/hearthfam/hearth/internal/logging"
	"github.com/hearthfam/hearth/internal/server"
)

func main() {
	port := os.Getenv("HEARTH_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("HEARTH_DB_PATH")
	if dbPath == "" {
		dbPath = "hearth.db"
	}

	baseURL := os.Getenv("HEARTH_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	logger := logging.Setup(os.Getenv("HEARTH_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	google := googleauth.NewService(googleauth.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		BaseURL:      baseURL,
	})

	// Real event fetching needs Google credentials; otherwise the
	// canned-data stub stands in behind the same adapter interface.
	var events googlecal.EventSource = googlecal.NewStub()
	if google.Enabled() {
		events = googlecal.NewClient(logger.With("component", "googlecal"))
	}

	srv := server.New(db, google, events, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Periodic cleanup of expired sessions and stale rate-limit entries.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	go func() {
		fmt.Printf("Hearth running at %s\n", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
