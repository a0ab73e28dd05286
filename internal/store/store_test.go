package store

import (
	"database/sql"
	"path/filepath"
	"testing"

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

func seedFamily(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	result, err := db.Exec(`INSERT INTO families (name) VALUES (?)`, name)
	if err != nil {
		t.Fatalf("seed family: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("seed family id: %v", err)
	}
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
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("seed user id: %v", err)
	}
	return id
}
