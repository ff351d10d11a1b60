package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/service/listgen"
)

type listService interface {
	Generate(ctx context.Context, req listgen.GenerateRequest) (*domain.GeneratedWordList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedWordList, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.GeneratedWordList, error)
	Review(ctx context.Context, id uuid.UUID, status domain.ListStatus, adminNotes *string) (*domain.GeneratedWordList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListHandler serves generated word list endpoints.
type ListHandler struct {
	lists listService
	log   *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists listService, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		lists: lists,
		log:   logger.With("handler", "wordlist"),
	}
}

type generateListRequest struct {
	Language              string  `json:"language"`
	CEFRLevel             string  `json:"cefr_level"`
	ListCategoryID        *string `json:"list_category_id"`
	RequestedWordCount    int     `json:"requested_word_count"`
	BaseInstructionFile   string  `json:"base_instruction_file"`
	CustomInstructionFile string  `json:"custom_instruction_file"`
	Refinements           string  `json:"refinements"`
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
}

// Generate runs one list generation call and returns the stored list.
// The list is returned even when the model call failed; its status is
// "error" in that case.
// POST /api/v1/generated-lists/generate
func (h *ListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateListRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	list, err := h.lists.Generate(r.Context(), listgen.GenerateRequest{
		Language:              domain.Language(req.Language),
		CEFRLevel:             req.CEFRLevel,
		ListCategoryID:        req.ListCategoryID,
		RequestedWordCount:    req.RequestedWordCount,
		BaseInstructionFile:   req.BaseInstructionFile,
		CustomInstructionFile: req.CustomInstructionFile,
		Refinements:           req.Refinements,
		Provider:              req.Provider,
		Model:                 req.Model,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// List returns lists newest first, filtered by the query parameters
// status, language, category, limit and offset.
// GET /api/v1/generated-lists
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lists, err := h.lists.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// Get returns one list by UUID.
// GET /api/v1/generated-lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	list, err := h.lists.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type reviewListRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

// Review moves a list to a new review state.
// PATCH /api/v1/generated-lists/{id}/review
func (h *ListHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	var req reviewListRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	list, err := h.lists.Review(r.Context(), id, domain.ListStatus(req.Status), req.AdminNotes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Delete removes a list.
// DELETE /api/v1/generated-lists/{id}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}
	if err := h.lists.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func listFilterFromQuery(r *http.Request) (domain.ListFilter, error) {
	var f domain.ListFilter
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		status := domain.ListStatus(s)
		f.Status = &status
	}
	if l := q.Get("language"); l != "" {
		lang := domain.Language(l)
		f.Language = &lang
	}
	if c := q.Get("category"); c != "" {
		f.CategoryID = &c
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errInvalidQueryInt("limit", v)
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errInvalidQueryInt("offset", v)
		}
		f.Offset = n
	}
	return f, nil
}

func errInvalidQueryInt(name, value string) error {
	return fmt.Errorf("query parameter %q must be a non-negative integer, got %q", name, value)
}
