package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hearthfam/hearth/internal/model"
)

type CalendarStore struct {
	db *sql.DB
}

func NewCalendarStore(db *sql.DB) *CalendarStore {
	return &CalendarStore{db: db}
}

func scanCalendar(scanner interface{ Scan(...any) error }) (*model.Calendar, error) {
	var c model.Calendar
	err := scanner.Scan(
		&c.ID, &c.FamilyID, &c.UserID, &c.ExternalCalendarID,
		&c.Name, &c.Color, &c.IsVisible, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const calendarCols = `id, family_id, user_id, external_calendar_id, name, color, is_visible, created_at, updated_at`

// Create inserts a calendar stamped with the caller's family and user ids.
// Returns ErrConflict when the family already has the external calendar.
func (s *CalendarStore) Create(familyID, userID int64, externalCalendarID, name, color string) (*model.Calendar, error) {
	result, err := s.db.Exec(
		`INSERT INTO calendars (family_id, user_id, external_calendar_id, name, color) VALUES (?, ?, ?, ?, ?)`,
		familyID, userID, externalCalendarID, name, color,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert calendar: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(familyID, id)
}

// GetByID returns the calendar only if it belongs to the given family;
// a row owned by another family reads as not found.
func (s *CalendarStore) GetByID(familyID, id int64) (*model.Calendar, error) {
	row := s.db.QueryRow(`SELECT `+calendarCols+` FROM calendars WHERE id = ? AND family_id = ?`, id, familyID)
	c, err := scanCalendar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	return c, nil
}

func (s *CalendarStore) ListByFamily(familyID int64) ([]model.Calendar, error) {
	rows, err := s.db.Query(`SELECT `+calendarCols+` FROM calendars WHERE family_id = ? ORDER BY id ASC`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	defer rows.Close()

	var calendars []model.Calendar
	for rows.Next() {
		c, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		calendars = append(calendars, *c)
	}
	return calendars, rows.Err()
}

func (s *CalendarStore) ListVisibleByFamily(familyID int64) ([]model.Calendar, error) {
	rows, err := s.db.Query(
		`SELECT `+calendarCols+` FROM calendars WHERE family_id = ? AND is_visible = 1 ORDER BY id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list visible calendars: %w", err)
	}
	defer rows.Close()

	var calendars []model.Calendar
	for rows.Next() {
		c, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		calendars = append(calendars, *c)
	}
	return calendars, rows.Err()
}

// CalendarPatch carries the mutable calendar fields for partial updates.
type CalendarPatch struct {
	Name      model.Optional[string]
	Color     model.Optional[string]
	IsVisible model.Optional[bool]
}

// Update applies only the set fields of the patch, scoped to the family.
// Returns (nil, nil) when the row is absent or owned by another family.
func (s *CalendarStore) Update(familyID, id int64, p CalendarPatch) (*model.Calendar, error) {
	existing, err := s.GetByID(familyID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	var sets []string
	var args []any
	if p.Name.Set && strings.TrimSpace(p.Name.Value) != "" {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(p.Name.Value))
	}
	if p.Color.Set && p.Color.Value != "" {
		sets = append(sets, "color = ?")
		args = append(args, p.Color.Value)
	}
	if p.IsVisible.Set {
		sets = append(sets, "is_visible = ?")
		args = append(args, p.IsVisible.Value)
	}
	if len(sets) == 0 {
		return existing, nil
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, familyID)
	query := `UPDATE calendars SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND family_id = ?`
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update calendar: %w", err)
	}
	return s.GetByID(familyID, id)
}

// Delete removes the calendar if it belongs to the family. The bool result
// reports whether a row was deleted.
func (s *CalendarStore) Delete(familyID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM calendars WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return false, fmt.Errorf("delete calendar: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
