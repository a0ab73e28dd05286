package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hearthfam/hearth/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var assignedTo sql.NullInt64
	var dueDate sql.NullTime

	err := scanner.Scan(
		&c.ID, &c.FamilyID, &c.Title, &c.Description, &assignedTo,
		&dueDate, &c.IsCompleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		c.AssignedToID = &assignedTo.Int64
	}
	if dueDate.Valid {
		t := dueDate.Time
		c.DueDate = &t
	}
	return &c, nil
}

const choreCols = `id, family_id, title, description, assigned_to, due_date, is_completed, created_at, updated_at`

func (s *ChoreStore) Create(familyID int64, title, description string, assignedTo *int64, dueDate *time.Time) (*model.Chore, error) {
	var aTo sql.NullInt64
	if assignedTo != nil {
		aTo = sql.NullInt64{Int64: *assignedTo, Valid: true}
	}
	var due sql.NullTime
	if dueDate != nil {
		due = sql.NullTime{Time: dueDate.UTC(), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO chores (family_id, title, description, assigned_to, due_date) VALUES (?, ?, ?, ?, ?)`,
		familyID, title, description, aTo, due,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(familyID, id)
}

// GetByID returns the chore only if it belongs to the given family.
func (s *ChoreStore) GetByID(familyID, id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ? AND family_id = ?`, id, familyID)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListByFamily(familyID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE family_id = ? ORDER BY created_at DESC, id DESC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// ChorePatch carries the mutable chore fields for partial updates.
// AssignedToID and DueDate distinguish "set to null" from "not provided".
type ChorePatch struct {
	Title        model.Optional[string]
	Description  model.Optional[string]
	AssignedToID model.Optional[*int64]
	DueDate      model.Optional[*time.Time]
	IsCompleted  model.Optional[bool]
}

// Update applies only the set fields of the patch, scoped to the family.
// Returns (nil, nil) when the row is absent or owned by another family.
func (s *ChoreStore) Update(familyID, id int64, p ChorePatch) (*model.Chore, error) {
	existing, err := s.GetByID(familyID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	var sets []string
	var args []any
	if p.Title.Set && strings.TrimSpace(p.Title.Value) != "" {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(p.Title.Value))
	}
	if p.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, p.Description.Value)
	}
	if p.AssignedToID.Set {
		var aTo sql.NullInt64
		if p.AssignedToID.Value != nil {
			aTo = sql.NullInt64{Int64: *p.AssignedToID.Value, Valid: true}
		}
		sets = append(sets, "assigned_to = ?")
		args = append(args, aTo)
	}
	if p.DueDate.Set {
		var due sql.NullTime
		if p.DueDate.Value != nil {
			due = sql.NullTime{Time: p.DueDate.Value.UTC(), Valid: true}
		}
		sets = append(sets, "due_date = ?")
		args = append(args, due)
	}
	if p.IsCompleted.Set {
		sets = append(sets, "is_completed = ?")
		args = append(args, p.IsCompleted.Value)
	}
	if len(sets) == 0 {
		return existing, nil
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, familyID)
	query := `UPDATE chores SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND family_id = ?`
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(familyID, id)
}

// Delete removes the chore if it belongs to the family. The bool result
// reports whether a row was deleted.
func (s *ChoreStore) Delete(familyID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM chores WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return false, fmt.Errorf("delete chore: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
