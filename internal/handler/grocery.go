package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthfam/hearth/internal/model"
	"github.com/hearthfam/hearth/internal/store"
)

type GroceryHandler struct {
	groceries *store.GroceryStore
	logger    *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{groceries: gs, logger: logger}
}

func (h *GroceryHandler) Lists(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	lists, err := h.groceries.ListsByFamily(ident.FamilyID)
	if err != nil {
		h.logger.Error("list grocery lists", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if lists == nil {
		lists = []model.GroceryList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *GroceryHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, err := h.groceries.CreateList(ident.FamilyID, req.Name)
	if err != nil {
		h.logger.Error("create grocery list", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

type groceryItemCreateRequest struct {
	GroceryListID int64  `json:"groceryListId"`
	Name          string `json:"name"`
	Quantity      string `json:"quantity"`
}

func (h *GroceryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req groceryItemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.GroceryListID == 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "groceryListId and name are required")
		return
	}

	// The client supplies the list id; re-verify it belongs to the
	// caller's family before attaching anything to it.
	list, err := h.groceries.GetListByID(ident.FamilyID, req.GroceryListID)
	if err != nil {
		h.logger.Error("verify grocery list", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "grocery list not found")
		return
	}

	item, err := h.groceries.CreateItem(list.ID, ident.UserID, req.Name, req.Quantity)
	if err != nil {
		h.logger.Error("create grocery item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type groceryItemUpdateRequest struct {
	ID          int64                `json:"id"`
	IsCompleted model.Optional[bool] `json:"isCompleted"`
}

func (h *GroceryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req groceryItemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	if !req.IsCompleted.Set {
		// Nothing to apply; still distinguish missing from foreign.
		item, err := h.groceries.GetItemByID(ident.FamilyID, req.ID)
		if err != nil {
			h.logger.Error("get grocery item", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if item == nil {
			writeError(w, http.StatusNotFound, "grocery item not found")
			return
		}
		writeJSON(w, http.StatusOK, item)
		return
	}

	item, err := h.groceries.SetItemCompleted(ident.FamilyID, req.ID, req.IsCompleted.Value)
	if err != nil {
		h.logger.Error("update grocery item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "grocery item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	id, err := parseIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	deleted, err := h.groceries.DeleteItem(ident.FamilyID, id)
	if err != nil {
		h.logger.Error("delete grocery item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "grocery item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
