package model

import "time"

type GroceryList struct {
	ID        int64         `json:"id"`
	FamilyID  int64         `json:"familyId"`
	Name      string        `json:"name"`
	Items     []GroceryItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
}

type GroceryItem struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"groceryListId"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Quantity    string    `json:"quantity"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}
