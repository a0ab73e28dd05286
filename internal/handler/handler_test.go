package handler

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/hearthfam/hearth/internal/auth"
	"github.com/hearthfam/hearth/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedFamily(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	result, err := db.Exec(`INSERT INTO families (name) VALUES (?)`, name)
	if err != nil {
		t.Fatalf("seed family: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

func seedUser(t *testing.T, db *sql.DB, familyID int64, email, name string) int64 {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO users (email, name, family_id) VALUES (?, ?, ?)`,
		email, name, familyID,
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// asIdentity stamps the request with an authenticated caller, standing in
// for the session middleware.
func asIdentity(r *http.Request, userID, familyID int64) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: userID, FamilyID: familyID}))
}
