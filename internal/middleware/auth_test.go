package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hearthfam/hearth/internal/auth"
	"github.com/hearthfam/hearth/internal/database"
	"github.com/hearthfam/hearth/internal/store"
)

func setupAuthMiddlewareDB(t *testing.T) (*sql.DB, *store.SessionStore, *store.UserStore) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, store.NewSessionStore(db), store.NewUserStore(db)
}

func seedUserWithFamily(t *testing.T, db *sql.DB) (userID, familyID int64) {
	t.Helper()
	result, err := db.Exec(`INSERT INTO families (name) VALUES ('Smith Family')`)
	if err != nil {
		t.Fatalf("seed family: %v", err)
	}
	familyID, _ = result.LastInsertId()
	result, err = db.Exec(
		`INSERT INTO users (email, name, family_id) VALUES ('alice@example.com', 'Alice', ?)`,
		familyID,
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	userID, _ = result.LastInsertId()
	return userID, familyID
}

func TestRequireAuthNoCookie(t *testing.T) {
	_, ss, us := setupAuthMiddlewareDB(t)

	handler := RequireAuth(ss, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/chores", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	_, ss, us := setupAuthMiddlewareDB(t)

	handler := RequireAuth(ss, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/chores", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	db, ss, us := setupAuthMiddlewareDB(t)
	userID, familyID := seedUserWithFamily(t, db)

	sess, err := ss.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var got auth.Identity
	handler := RequireAuth(ss, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected Identity in handler context")
		}
		got = ident
	}))

	req := httptest.NewRequest("GET", "/api/chores", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.UserID != userID {
		t.Errorf("UserID = %d, want %d", got.UserID, userID)
	}
	if got.FamilyID != familyID {
		t.Errorf("FamilyID = %d, want %d", got.FamilyID, familyID)
	}
}

func TestRequireAuthUserWithoutFamily(t *testing.T) {
	db, ss, us := setupAuthMiddlewareDB(t)

	result, err := db.Exec(`INSERT INTO users (email, name) VALUES ('solo@example.com', 'Solo')`)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	userID, _ := result.LastInsertId()

	sess, err := ss.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	handler := RequireAuth(ss, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.FromContext(r.Context())
		if ident.FamilyID != 0 {
			t.Errorf("FamilyID = %d, want 0 for user without family", ident.FamilyID)
		}
	}))

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
