package store

import "testing"

func setupGroceryTest(t *testing.T) (*GroceryStore, int64, int64) {
	t.Helper()
	db := openTestDB(t)
	famID := seedFamily(t, db, "Smith Family")
	userID := seedUser(t, db, famID, "alice@example.com", "Alice")
	return NewGroceryStore(db), famID, userID
}

func TestGroceryListCreateAndLoadItems(t *testing.T) {
	gs, famID, userID := setupGroceryTest(t)

	list, err := gs.CreateList(famID, "Weekly Shop")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if list.Name != "Weekly Shop" {
		t.Errorf("name = %q", list.Name)
	}
	if len(list.Items) != 0 {
		t.Errorf("items = %d, want 0", len(list.Items))
	}

	if _, err := gs.CreateItem(list.ID, userID, "Milk", "2L"); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := gs.CreateItem(list.ID, userID, "Eggs", "12"); err != nil {
		t.Fatalf("create item: %v", err)
	}

	reloaded, err := gs.GetListByID(famID, list.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(reloaded.Items) != 2 {
		t.Errorf("items = %d, want 2", len(reloaded.Items))
	}
}

func TestGroceryListForeignFamily(t *testing.T) {
	db := openTestDB(t)
	gs := NewGroceryStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")

	list, _ := gs.CreateList(famA, "Weekly Shop")

	got, err := gs.GetListByID(famB, list.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got != nil {
		t.Error("expected nil for list owned by another family")
	}
}

func TestGroceryItemScopedThroughList(t *testing.T) {
	db := openTestDB(t)
	gs := NewGroceryStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")

	list, _ := gs.CreateList(famA, "Weekly Shop")
	item, _ := gs.CreateItem(list.ID, userA, "Milk", "2L")

	got, err := gs.GetItemByID(famB, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != nil {
		t.Error("expected nil for item in another family's list")
	}

	got, err = gs.GetItemByID(famA, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got == nil {
		t.Fatal("expected item for owning family")
	}
	if got.Quantity != "2L" {
		t.Errorf("quantity = %q", got.Quantity)
	}
}

func TestGrocerySetItemCompleted(t *testing.T) {
	gs, famID, userID := setupGroceryTest(t)

	list, _ := gs.CreateList(famID, "Weekly Shop")
	item, _ := gs.CreateItem(list.ID, userID, "Milk", "2L")

	updated, err := gs.SetItemCompleted(famID, item.ID, true)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("expected item completed")
	}

	updated, err = gs.SetItemCompleted(famID, item.ID, false)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if updated.IsCompleted {
		t.Error("expected unchecking to apply")
	}
}

func TestGrocerySetItemCompletedForeignFamily(t *testing.T) {
	db := openTestDB(t)
	gs := NewGroceryStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")

	list, _ := gs.CreateList(famA, "Weekly Shop")
	item, _ := gs.CreateItem(list.ID, userA, "Milk", "2L")

	got, err := gs.SetItemCompleted(famB, item.ID, true)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if got != nil {
		t.Error("expected nil toggling another family's item")
	}

	unchanged, _ := gs.GetItemByID(famA, item.ID)
	if unchanged.IsCompleted {
		t.Error("expected item untouched by foreign update")
	}
}

func TestGroceryDeleteItemScoped(t *testing.T) {
	db := openTestDB(t)
	gs := NewGroceryStore(db)
	famA := seedFamily(t, db, "A")
	famB := seedFamily(t, db, "B")
	userA := seedUser(t, db, famA, "a@example.com", "A")

	list, _ := gs.CreateList(famA, "Weekly Shop")
	item, _ := gs.CreateItem(list.ID, userA, "Milk", "2L")

	deleted, err := gs.DeleteItem(famB, item.ID)
	if err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if deleted {
		t.Error("expected no deletion across families")
	}

	deleted, _ = gs.DeleteItem(famA, item.ID)
	if !deleted {
		t.Error("expected deletion within owning family")
	}
}

func TestGroceryDeleteListCascadesItems(t *testing.T) {
	gs, famID, userID := setupGroceryTest(t)

	list, _ := gs.CreateList(famID, "Weekly Shop")
	item, _ := gs.CreateItem(list.ID, userID, "Milk", "2L")

	deleted, err := gs.DeleteList(famID, list.ID)
	if err != nil {
		t.Fatalf("delete list: %v", err)
	}
	if !deleted {
		t.Fatal("expected list deleted")
	}

	got, err := gs.GetItemByID(famID, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != nil {
		t.Error("expected item gone after list deletion")
	}
}
