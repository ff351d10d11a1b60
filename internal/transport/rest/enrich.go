package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/service/words"
)

type wordsService interface {
	Enrich(ctx context.Context, req words.EnrichRequest) (*domain.Word, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	GetByHeadword(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error)
}

// EnrichHandler serves enrichment and word-read endpoints.
type EnrichHandler struct {
	words wordsService
	log   *slog.Logger
}

// NewEnrichHandler creates an EnrichHandler.
func NewEnrichHandler(words wordsService, logger *slog.Logger) *EnrichHandler {
	return &EnrichHandler{
		words: words,
		log:   logger.With("handler", "enrich"),
	}
}

type enrichRequest struct {
	Headword      string   `json:"headword"`
	SourceLang    string   `json:"source_lang"`
	TargetLang    string   `json:"target_lang"`
	Categories    []string `json:"categories"`
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	ForceReenrich bool     `json:"force_reenrich"`
}

// Enrich runs the full enrichment flow synchronously.
// POST /api/v1/enrich
// 200 with the persisted word, 422 on invalid input, 503 when the
// pipeline could not produce a word.
func (h *EnrichHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	word, err := h.words.Enrich(r.Context(), words.EnrichRequest{
		Headword:      req.Headword,
		SourceLang:    domain.Language(req.SourceLang),
		TargetLang:    domain.Language(req.TargetLang),
		Categories:    req.Categories,
		Provider:      req.Provider,
		Model:         req.Model,
		ForceReenrich: req.ForceReenrich,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeDomainError(w, err)
			return
		}
		h.log.ErrorContext(r.Context(), "enrichment failed",
			slog.String("headword", req.Headword),
			slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "enrichment failed")
		return
	}

	writeJSON(w, http.StatusOK, word)
}

// GetWord returns one stored word by UUID.
// GET /api/v1/words/{id}
func (h *EnrichHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid word id")
		return
	}

	word, err := h.words.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

// LookupWord returns the stored word for an exact headword match.
// GET /api/v1/words?headword=makan&language=id
func (h *EnrichHandler) LookupWord(w http.ResponseWriter, r *http.Request) {
	headword := r.URL.Query().Get("headword")
	lang := domain.Language(r.URL.Query().Get("language"))
	if headword == "" {
		writeError(w, http.StatusBadRequest, "headword query parameter is required")
		return
	}

	word, err := h.words.GetByHeadword(r.Context(), headword, lang)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}
