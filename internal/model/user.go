package model

import "time"

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	FamilyID *int64 `json:"familyId"`

	// Google OAuth credentials, held for the calendar adapter.
	// Never serialized to clients.
	GoogleAccessToken  string     `json:"-"`
	GoogleRefreshToken string     `json:"-"`
	GoogleTokenExpiry  *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
