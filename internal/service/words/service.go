// Package words provides the enrichment entry point and word reads for
// the admin API.
package words

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/enricher"
	"github.com/linkword/linkword-backend/pkg/ctxutil"
)

type pipeline interface {
	Run(ctx context.Context, in enricher.Input) (*domain.Word, error)
}

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	FindByHeadwordAndLanguage(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error)
}

// EnrichRequest names one word to enrich via the API.
type EnrichRequest struct {
	Headword      string
	SourceLang    domain.Language
	TargetLang    domain.Language
	Categories    []string
	Provider      string
	Model         string
	ForceReenrich bool
}

// Service wraps the enrichment pipeline and word reads.
type Service struct {
	log      *slog.Logger
	pipeline pipeline
	words    wordRepo
}

// NewService creates a new words service.
func NewService(log *slog.Logger, p pipeline, words wordRepo) *Service {
	return &Service{
		log:      log.With("service", "words"),
		pipeline: p,
		words:    words,
	}
}

// Enrich runs the full enrichment flow for one word. The run is tagged
// with a batch id derived from the request id so a stored word's history
// can be traced back to the API call that produced it.
func (s *Service) Enrich(ctx context.Context, req EnrichRequest) (*domain.Word, error) {
	requestID := ctxutil.RequestIDFromCtx(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	word, err := s.pipeline.Run(ctx, enricher.Input{
		Headword:      req.Headword,
		SourceLang:    req.SourceLang,
		TargetLang:    req.TargetLang,
		Categories:    req.Categories,
		Provider:      req.Provider,
		Model:         req.Model,
		ForceReenrich: req.ForceReenrich,
		Batch:         fmt.Sprintf("api-enrich-%s", requestID),
	})
	if err != nil {
		return nil, err
	}
	return word, nil
}

// GetByID returns one stored word.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return s.words.GetByID(ctx, id)
}

// GetByHeadword returns the stored word for an exact headword match.
func (s *Service) GetByHeadword(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error) {
	if !lang.IsValid() {
		return nil, domain.NewValidationError("language", "invalid language code")
	}
	return s.words.FindByHeadwordAndLanguage(ctx, headword, lang)
}
