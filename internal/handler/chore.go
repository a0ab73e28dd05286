package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hearthfam/hearth/internal/model"
	"github.com/hearthfam/hearth/internal/store"
)

type ChoreHandler struct {
	chores *store.ChoreStore
	users  *store.UserStore
	logger *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, us *store.UserStore, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{chores: cs, users: us, logger: logger}
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	chores, err := h.chores.ListByFamily(ident.FamilyID)
	if err != nil {
		h.logger.Error("list chores", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

type choreCreateRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssignedToID *int64     `json:"assignedToId"`
	DueDate      *time.Time `json:"dueDate"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req choreCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if req.AssignedToID != nil {
		if ok := h.verifyAssignee(w, ident.FamilyID, *req.AssignedToID); !ok {
			return
		}
	}

	chore, err := h.chores.Create(ident.FamilyID, req.Title, req.Description, req.AssignedToID, req.DueDate)
	if err != nil {
		h.logger.Error("create chore", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, chore)
}

type choreUpdateRequest struct {
	ID           int64                      `json:"id"`
	Title        model.Optional[string]     `json:"title"`
	Description  model.Optional[string]     `json:"description"`
	AssignedToID model.Optional[*int64]     `json:"assignedToId"`
	DueDate      model.Optional[*time.Time] `json:"dueDate"`
	IsCompleted  model.Optional[bool]       `json:"isCompleted"`
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req choreUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "chore id is required")
		return
	}

	if req.AssignedToID.Set && req.AssignedToID.Value != nil {
		if ok := h.verifyAssignee(w, ident.FamilyID, *req.AssignedToID.Value); !ok {
			return
		}
	}

	chore, err := h.chores.Update(ident.FamilyID, req.ID, store.ChorePatch{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
		IsCompleted:  req.IsCompleted,
	})
	if err != nil {
		h.logger.Error("update chore", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if chore == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireFamily(w, r)
	if !ok {
		return
	}

	id, err := parseIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "chore id is required")
		return
	}

	deleted, err := h.chores.Delete(ident.FamilyID, id)
	if err != nil {
		h.logger.Error("delete chore", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// verifyAssignee rejects assignees outside the caller's family. The check
// runs before any write so a cross-family id never creates or mutates a row.
func (h *ChoreHandler) verifyAssignee(w http.ResponseWriter, familyID, assigneeID int64) bool {
	member, err := h.users.GetFamilyMember(familyID, assigneeID)
	if err != nil {
		h.logger.Error("verify assignee", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	if member == nil {
		writeError(w, http.StatusBadRequest, "assigned user not in family")
		return false
	}
	return true
}
