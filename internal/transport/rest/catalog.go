package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
)

type catalogService interface {
	CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	SetPairConfig(ctx context.Context, c *domain.LanguagePairConfig) (*domain.LanguagePairConfig, error)
	GetPairConfig(ctx context.Context, pair, key string) (*domain.LanguagePairConfig, error)
	ListPairConfigs(ctx context.Context, pair *string) ([]domain.LanguagePairConfig, error)
	DeletePairConfig(ctx context.Context, id uuid.UUID) error
}

// CatalogHandler serves category and language-pair config endpoints.
type CatalogHandler struct {
	catalog catalogService
	log     *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     logger.With("handler", "catalog"),
	}
}

type categoryRequest struct {
	CategoryID  string                     `json:"category_id"`
	DisplayName map[domain.Language]string `json:"display_name"`
	Description map[domain.Language]string `json:"description"`
}

// CreateCategory stores a new category.
// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.catalog.CreateCategory(r.Context(), &domain.Category{
		CategoryID:  req.CategoryID,
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetCategory returns one category by slug.
// GET /api/v1/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListCategories returns every category ordered by slug.
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateCategory replaces a category's display data. The slug in the
// path wins over any slug in the body.
// PUT /api/v1/categories/{id}
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := h.catalog.UpdateCategory(r.Context(), &domain.Category{
		CategoryID:  r.PathValue("id"),
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory removes a category by slug. Word lists referencing it
// keep their rows with the reference cleared.
// DELETE /api/v1/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pairConfigRequest struct {
	LanguagePair string          `json:"language_pair"`
	ConfigKey    string          `json:"config_key"`
	ConfigValue  json.RawMessage `json:"config_value"`
}

// SetPairConfig upserts one (pair, key) value.
// PUT /api/v1/pair-configs
func (h *CatalogHandler) SetPairConfig(w http.ResponseWriter, r *http.Request) {
	var req pairConfigRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.catalog.SetPairConfig(r.Context(), &domain.LanguagePairConfig{
		LanguagePair: req.LanguagePair,
		ConfigKey:    req.ConfigKey,
		ConfigValue:  req.ConfigValue,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetPairConfig returns the value for one (pair, key).
// GET /api/v1/pair-configs/{pair}/{key}
func (h *CatalogHandler) GetPairConfig(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetPairConfig(r.Context(), r.PathValue("pair"), r.PathValue("key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListPairConfigs returns configs, optionally scoped with ?pair=id-en.
// GET /api/v1/pair-configs
func (h *CatalogHandler) ListPairConfigs(w http.ResponseWriter, r *http.Request) {
	var pair *string
	if p := r.URL.Query().Get("pair"); p != "" {
		pair = &p
	}
	list, err := h.catalog.ListPairConfigs(r.Context(), pair)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DeletePairConfig removes one config row by UUID.
// DELETE /api/v1/pair-configs/{id}
func (h *CatalogHandler) DeletePairConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid config id")
		return
	}
	if err := h.catalog.DeletePairConfig(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
