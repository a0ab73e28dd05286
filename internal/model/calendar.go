package model

import "time"

type Calendar struct {
	ID                 int64     `json:"id"`
	FamilyID           int64     `json:"familyId"`
	UserID             int64     `json:"userId"`
	ExternalCalendarID string    `json:"externalCalendarId"`
	Name               string    `json:"name"`
	Color              string    `json:"color"`
	IsVisible          bool      `json:"isVisible"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
