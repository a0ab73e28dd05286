package store

import (
	"errors"

	sqlite "modernc.org/sqlite"
)

// ErrConflict is returned when an insert violates a uniqueness constraint,
// e.g. adding the same external calendar to a family twice.
var ErrConflict = errors.New("store: conflict")

// SQLITE_CONSTRAINT_UNIQUE
const sqliteConstraintUnique = 2067

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteConstraintUnique
	}
	return false
}
