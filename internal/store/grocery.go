package store

import (
	"database/sql"
	"fmt"

	"github.com/hearthfam/hearth/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.GroceryList, error) {
	var l model.GroceryList
	err := scanner.Scan(&l.ID, &l.FamilyID, &l.Name, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const listCols = `id, family_id, name, created_at`

func (s *GroceryStore) CreateList(familyID int64, name string) (*model.GroceryList, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_lists (family_id, name) VALUES (?, ?)`,
		familyID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetListByID(familyID, id)
}

// GetListByID returns the list only if it belongs to the given family.
func (s *GroceryStore) GetListByID(familyID, id int64) (*model.GroceryList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM grocery_lists WHERE id = ? AND family_id = ?`, id, familyID)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery list: %w", err)
	}
	l.Items, err = s.ListItemsByList(l.ID)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListsByFamily returns the family's lists newest-first, items included.
func (s *GroceryStore) ListsByFamily(familyID int64) ([]model.GroceryList, error) {
	rows, err := s.db.Query(
		`SELECT `+listCols+` FROM grocery_lists WHERE family_id = ? ORDER BY created_at DESC, id DESC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery lists: %w", err)
	}
	defer rows.Close()

	var lists []model.GroceryList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery list: %w", err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.ListItemsByList(lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

func (s *GroceryStore) DeleteList(familyID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_lists WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return false, fmt.Errorf("delete grocery list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var i model.GroceryItem
	err := scanner.Scan(&i.ID, &i.ListID, &i.UserID, &i.Name, &i.Quantity, &i.IsCompleted, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

const itemCols = `id, list_id, user_id, name, quantity, is_completed, created_at`

func (s *GroceryStore) CreateItem(listID, userID int64, name, quantity string) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_items (list_id, user_id, name, quantity) VALUES (?, ?, ?, ?)`,
		listID, userID, name, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	return scanItem(row)
}

// GetItemByID returns the item only if its parent list belongs to the
// given family; item scoping is indirect through the list.
func (s *GroceryStore) GetItemByID(familyID, id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(
		`SELECT i.id, i.list_id, i.user_id, i.name, i.quantity, i.is_completed, i.created_at
		 FROM grocery_items i
		 JOIN grocery_lists l ON i.list_id = l.id
		 WHERE i.id = ? AND l.family_id = ?`,
		id, familyID,
	)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return i, nil
}

// ListItemsByList returns a list's items ordered by recency of addition.
func (s *GroceryStore) ListItemsByList(listID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM grocery_items WHERE list_id = ? ORDER BY created_at DESC, id DESC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// SetItemCompleted updates the completion flag, scoped through the parent
// list's family. Returns (nil, nil) when the item is absent or foreign.
func (s *GroceryStore) SetItemCompleted(familyID, id int64, completed bool) (*model.GroceryItem, error) {
	existing, err := s.GetItemByID(familyID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if _, err := s.db.Exec(`UPDATE grocery_items SET is_completed = ? WHERE id = ?`, completed, id); err != nil {
		return nil, fmt.Errorf("update grocery item: %w", err)
	}
	return s.GetItemByID(familyID, id)
}

// DeleteItem removes the item if its parent list belongs to the family.
func (s *GroceryStore) DeleteItem(familyID, id int64) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM grocery_items WHERE id = ? AND list_id IN (SELECT id FROM grocery_lists WHERE family_id = ?)`,
		id, familyID,
	)
	if err != nil {
		return false, fmt.Errorf("delete grocery item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
