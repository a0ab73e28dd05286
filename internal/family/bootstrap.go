// Package family implements the one-time family bootstrap performed at
// first sign-in: a newly-seen identity gets a family of its own, and the
// association never changes afterwards.
package family

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hearthfam/hearth/internal/model"
	"github.com/hearthfam/hearth/internal/store"
	sqlite "modernc.org/sqlite"
)

type Bootstrap struct {
	db     *sql.DB
	users  *store.UserStore
	logger *slog.Logger
}

func NewBootstrap(db *sql.DB, users *store.UserStore, logger *slog.Logger) *Bootstrap {
	return &Bootstrap{db: db, users: users, logger: logger}
}

// SignIn resolves the user for a verified identity, creating the user and
// its family on first contact. Existing users are returned as-is: the
// family association is permanent, though the display name is refreshed
// when the provider reports a new one.
//
// Idempotent under concurrent duplicate callbacks for the same identity:
// the family and user are inserted in one transaction, and the UNIQUE
// constraint on users.email makes the losing transaction roll back
// (discarding its would-be family) and re-read the winner's row. At most
// one family exists per identity under any interleaving.
func (b *Bootstrap) SignIn(email, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("bootstrap: email is required")
	}

	user, err := b.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if name != "" && name != user.Name {
			if updated, err := b.users.UpdateName(user.ID, name); err == nil {
				user = updated
			} else {
				b.logger.Warn("refresh user name", "error", err)
			}
		}
		return user, nil
	}

	user, err = b.createUserWithFamily(email, name)
	if err == nil {
		b.logger.Info("bootstrapped family", "user_id", user.ID, "family_id", *user.FamilyID)
		return user, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// Lost the race against a duplicate sign-in callback. The existing
	// association wins; re-read it.
	user, err = b.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("bootstrap: user vanished after unique conflict")
	}
	return user, nil
}

func (b *Bootstrap) createUserWithFamily(email, name string) (*model.User, error) {
	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO families (name) VALUES (?)`, DefaultName(email, name))
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	familyID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	result, err = tx.Exec(
		`INSERT INTO users (email, name, family_id) VALUES (?, ?, ?)`,
		email, name, familyID,
	)
	if err != nil {
		// Unique violation propagates to the caller; the rollback also
		// discards the family inserted above.
		return nil, err
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return b.users.GetByID(userID)
}

// DefaultName derives the bootstrap family name from the user's display
// name, falling back to the email local part when the name is blank.
func DefaultName(email, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
		if i := strings.IndexByte(email, '@'); i > 0 {
			name = email[:i]
		}
	}
	return name + "'s Family"
}

// SQLITE_CONSTRAINT_UNIQUE
const sqliteConstraintUnique = 2067

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteConstraintUnique
	}
	return false
}
