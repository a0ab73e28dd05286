package store

import (
	"errors"
	"testing"

	"github.com/hearthfam/hearth/internal/model"
)

func setupCalendarTest(t *testing.T) (*CalendarStore, int64, int64) {
	t.Helper()
	db := openTestDB(t)
	famID := seedFamily(t, db, "Smith Family")
	userID := seedUser(t, db, famID, "alice@example.com", "Alice")
	return NewCalendarStore(db), famID, userID
}

func TestCalendarCreate(t *testing.T) {
	cs, famID, userID := setupCalendarTest(t)

	cal, err := cs.Create(famID, userID, "primary@group.calendar.google.com", "Family", "#ff0000")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	if cal.FamilyID != famID {
		t.Errorf("family_id = %d, want %d", cal.FamilyID, famID)
	}
	if cal.ExternalCalendarID != "primary@group.calendar.google.com" {
		t.Errorf("external id = %q", cal.ExternalCalendarID)
	}
	if !cal.IsVisible {
		t.Error("expected new calendar to be visible")
	}
}

func TestCalendarCreateConflict(t *testing.T) {
	cs, famID, userID := setupCalendarTest(t)

	if _, err := cs.Create(famID, userID, "cal-1", "Family", "#ff0000"); err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	_, err := cs.Create(famID, userID, "cal-1", "Duplicate", "#00ff00")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestCalendarSameExternalIDAcrossFamilies(t *testing.T) {
	db := openTestDB(t)
	cs := NewCalendarStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")
	userB := seedUser(t, db, famB, "b@example.com", "B")

	if _, err := cs.Create(famA, userA, "shared-cal", "A's", "#ff0000"); err != nil {
		t.Fatalf("create in family A: %v", err)
	}
	if _, err := cs.Create(famB, userB, "shared-cal", "B's", "#00ff00"); err != nil {
		t.Errorf("create in family B: %v", err)
	}
}

func TestCalendarGetByIDForeignFamily(t *testing.T) {
	db := openTestDB(t)
	cs := NewCalendarStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")

	cal, err := cs.Create(famA, userA, "cal-1", "Family", "#ff0000")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}

	got, err := cs.GetByID(famB, cal.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("expected nil for calendar owned by another family")
	}
}

func TestCalendarUpdatePartial(t *testing.T) {
	cs, famID, userID := setupCalendarTest(t)

	cal, err := cs.Create(famID, userID, "cal-1", "Family", "#ff0000")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}

	updated, err := cs.Update(famID, cal.ID, CalendarPatch{
		Color: model.Optional[string]{Set: true, Value: "#00ff00"},
	})
	if err != nil {
		t.Fatalf("update calendar: %v", err)
	}
	if updated.Color != "#00ff00" {
		t.Errorf("color = %q, want %q", updated.Color, "#00ff00")
	}
	if updated.Name != "Family" {
		t.Errorf("name = %q, want unchanged %q", updated.Name, "Family")
	}
}

func TestCalendarUpdateVisibilityFalse(t *testing.T) {
	cs, famID, userID := setupCalendarTest(t)

	cal, _ := cs.Create(famID, userID, "cal-1", "Family", "#ff0000")

	updated, err := cs.Update(famID, cal.ID, CalendarPatch{
		IsVisible: model.Optional[bool]{Set: true, Value: false},
	})
	if err != nil {
		t.Fatalf("update calendar: %v", err)
	}
	if updated.IsVisible {
		t.Error("expected is_visible = false to be applied")
	}
}

func TestCalendarUpdateForeignFamily(t *testing.T) {
	db := openTestDB(t)
	cs := NewCalendarStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")

	cal, _ := cs.Create(famA, userA, "cal-1", "Family", "#ff0000")

	got, err := cs.Update(famB, cal.ID, CalendarPatch{
		Name: model.Optional[string]{Set: true, Value: "Hijacked"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != nil {
		t.Error("expected nil updating another family's calendar")
	}

	unchanged, _ := cs.GetByID(famA, cal.ID)
	if unchanged.Name != "Family" {
		t.Errorf("name = %q, want untouched %q", unchanged.Name, "Family")
	}
}

func TestCalendarListVisible(t *testing.T) {
	cs, famID, userID := setupCalendarTest(t)

	shown, _ := cs.Create(famID, userID, "cal-1", "Shown", "#ff0000")
	hidden, _ := cs.Create(famID, userID, "cal-2", "Hidden", "#00ff00")
	cs.Update(famID, hidden.ID, CalendarPatch{
		IsVisible: model.Optional[bool]{Set: true, Value: false},
	})

	visible, err := cs.ListVisibleByFamily(famID)
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("len = %d, want 1", len(visible))
	}
	if visible[0].ID != shown.ID {
		t.Errorf("id = %d, want %d", visible[0].ID, shown.ID)
	}
}

func TestCalendarDeleteScoped(t *testing.T) {
	db := openTestDB(t)
	cs := NewCalendarStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")

	cal, _ := cs.Create(famA, userA, "cal-1", "Family", "#ff0000")

	deleted, err := cs.Delete(famB, cal.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Error("expected no deletion across families")
	}

	deleted, err = cs.Delete(famA, cal.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected deletion within owning family")
	}
}
