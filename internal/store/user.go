package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthfam/hearth/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var familyID sql.NullInt64
	var tokenExpiry sql.NullTime

	err := scanner.Scan(
		&u.ID, &u.Email, &u.Name, &familyID,
		&u.GoogleAccessToken, &u.GoogleRefreshToken, &tokenExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if familyID.Valid {
		u.FamilyID = &familyID.Int64
	}
	if tokenExpiry.Valid {
		t := tokenExpiry.Time
		u.GoogleTokenExpiry = &t
	}
	return &u, nil
}

const userCols = `id, email, name, family_id, google_access_token, google_refresh_token, google_token_expiry, created_at, updated_at`

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetFamilyMember returns the user only if it belongs to the given family.
// Used to re-verify client-supplied references (e.g. a chore assignee)
// before persisting them.
func (s *UserStore) GetFamilyMember(familyID, userID int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ? AND family_id = ?`, userID, familyID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family member: %w", err)
	}
	return u, nil
}

func (s *UserStore) ListByFamily(familyID int64) ([]model.User, error) {
	rows, err := s.db.Query(`SELECT `+userCols+` FROM users WHERE family_id = ? ORDER BY name ASC`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list users by family: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) UpdateName(id int64, name string) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user name: %w", err)
	}
	return s.GetByID(id)
}

// UpdateGoogleToken stores the latest OAuth credentials for the user.
// A nil expiry clears the stored expiry.
func (s *UserStore) UpdateGoogleToken(id int64, accessToken, refreshToken string, expiry *time.Time) error {
	var exp sql.NullTime
	if expiry != nil {
		exp = sql.NullTime{Time: expiry.UTC(), Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE users SET google_access_token = ?, google_refresh_token = ?, google_token_expiry = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		accessToken, refreshToken, exp, id,
	)
	if err != nil {
		return fmt.Errorf("update google token: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
