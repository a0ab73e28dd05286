package model

import "time"

type Chore struct {
	ID           int64      `json:"id"`
	FamilyID     int64      `json:"familyId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssignedToID *int64     `json:"assignedToId"`
	DueDate      *time.Time `json:"dueDate"`
	IsCompleted  bool       `json:"isCompleted"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
