// Package listgen implements single-shot generation of candidate word
// lists: one LLM call produces a flat batch of headwords which is stored
// for admin review.
package listgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/llm"
)

type listRepo interface {
	Create(ctx context.Context, l *domain.GeneratedWordList) (*domain.GeneratedWordList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedWordList, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.GeneratedWordList, error)
	UpdateReview(ctx context.Context, id uuid.UUID, status domain.ListStatus, adminNotes *string) (*domain.GeneratedWordList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryNamer interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

type textGenerator interface {
	GenerateText(ctx context.Context, req llm.Request) (string, *llm.ResultError)
}

// GenerateRequest describes one list generation call.
type GenerateRequest struct {
	Language           domain.Language
	CEFRLevel          string
	ListCategoryID     *string
	RequestedWordCount int

	// BaseInstructionFile is the template file name under the
	// instructions directory. Placeholders {{language}}, {{cefr_level}},
	// {{category}} and {{word_count}} are substituted.
	BaseInstructionFile string

	// CustomInstructionFile is appended verbatim when set.
	CustomInstructionFile string

	// Refinements is free admin text appended last.
	Refinements string

	Provider string
	Model    string
}

func (r *GenerateRequest) validate() error {
	var fields []domain.FieldError
	if !r.Language.IsValid() {
		fields = append(fields, domain.FieldError{Field: "language", Message: "invalid language code"})
	}
	if r.RequestedWordCount < 1 {
		fields = append(fields, domain.FieldError{Field: "requested_word_count", Message: "must be >= 1"})
	}
	if r.BaseInstructionFile == "" {
		fields = append(fields, domain.FieldError{Field: "base_instruction_file", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

// Service wraps list generation and review operations.
type Service struct {
	log             *slog.Logger
	lists           listRepo
	categories      categoryNamer
	gen             textGenerator
	instructionsDir string
	temperature     float64
}

// NewService creates a new listgen service.
func NewService(log *slog.Logger, lists listRepo, categories categoryNamer, gen textGenerator, instructionsDir string, temperature float64) *Service {
	return &Service{
		log:             log.With("service", "listgen"),
		lists:           lists,
		categories:      categories,
		gen:             gen,
		instructionsDir: instructionsDir,
		temperature:     temperature,
	}
}

// Generate builds the prompt from instruction files, runs one LLM call,
// parses the word items, and persists the list. A failed LLM call is
// still persisted with status "error" so the attempt stays auditable.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*domain.GeneratedWordList, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	prompt, err := s.buildPrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	list := &domain.GeneratedWordList{
		ID:                 uuid.New(),
		ReadableID:         readableID(),
		Status:             domain.ListStatusReview,
		Language:           req.Language,
		CEFRLevel:          req.CEFRLevel,
		ListCategoryID:     req.ListCategoryID,
		RequestedWordCount: req.RequestedWordCount,
		PromptTextSent:     prompt,
		SourceModel:        sourceModel(req),
		Words:              []domain.WordItem{},
	}

	text, rerr := s.gen.GenerateText(ctx, llm.Request{
		Prompt:      prompt,
		Provider:    req.Provider,
		Model:       req.Model,
		Temperature: s.temperature,
	})
	if rerr != nil {
		s.log.WarnContext(ctx, "list generation call failed",
			slog.String("readable_id", list.ReadableID),
			slog.String("reason", string(rerr.Reason)))
		list.Status = domain.ListStatusError
		note := rerr.Error()
		list.AdminNotes = &note
		return s.lists.Create(ctx, list)
	}

	items := parseWordItems(text)
	if len(items) == 0 {
		s.log.WarnContext(ctx, "list generation returned no usable words",
			slog.String("readable_id", list.ReadableID))
		list.Status = domain.ListStatusError
		note := "no word items could be parsed from the model output"
		list.AdminNotes = &note
	}
	list.Words = items
	list.GeneratedWordCount = len(items)

	created, err := s.lists.Create(ctx, list)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "word list generated",
		slog.String("readable_id", created.ReadableID),
		slog.Int("words", created.GeneratedWordCount))
	return created, nil
}

// GetByID returns one list.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedWordList, error) {
	return s.lists.GetByID(ctx, id)
}

// List returns lists matching the filter, newest first.
func (s *Service) List(ctx context.Context, f domain.ListFilter) ([]domain.GeneratedWordList, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown list status "+f.Status.String())
	}
	return s.lists.List(ctx, f)
}

// Review moves a list to a new review state.
func (s *Service) Review(ctx context.Context, id uuid.UUID, status domain.ListStatus, adminNotes *string) (*domain.GeneratedWordList, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown list status "+status.String())
	}
	return s.lists.UpdateReview(ctx, id, status, adminNotes)
}

// Delete removes a list.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.lists.Delete(ctx, id)
}

func (s *Service) buildPrompt(ctx context.Context, req GenerateRequest) (string, error) {
	base, err := s.readInstruction(req.BaseInstructionFile)
	if err != nil {
		return "", domain.NewValidationError("base_instruction_file", err.Error())
	}

	category := ""
	if req.ListCategoryID != nil {
		category = *req.ListCategoryID
		if c, err := s.categories.GetByID(ctx, category); err == nil {
			if name, ok := c.DisplayName["en"]; ok {
				category = name
			}
		} else {
			s.log.WarnContext(ctx, "category lookup failed, using slug in prompt",
				slog.String("category_id", category),
				slog.String("error", err.Error()))
		}
	}

	replacer := strings.NewReplacer(
		"{{language}}", req.Language.String(),
		"{{cefr_level}}", req.CEFRLevel,
		"{{category}}", category,
		"{{word_count}}", fmt.Sprintf("%d", req.RequestedWordCount),
	)
	parts := []string{replacer.Replace(base)}

	if req.CustomInstructionFile != "" {
		custom, err := s.readInstruction(req.CustomInstructionFile)
		if err != nil {
			return "", domain.NewValidationError("custom_instruction_file", err.Error())
		}
		parts = append(parts, custom)
	}
	if req.Refinements != "" {
		parts = append(parts, req.Refinements)
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n")), nil
}

// readInstruction loads one instruction file by bare name. Path elements
// in the name are rejected so callers cannot escape the directory.
func (s *Service) readInstruction(name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("instruction file name %q must not contain path separators", name)
	}
	data, err := os.ReadFile(filepath.Join(s.instructionsDir, name))
	if err != nil {
		return "", fmt.Errorf("read instruction file %q: %w", name, err)
	}
	return string(data), nil
}

// parseWordItems accepts either a JSON array (of {"headword", "notes"}
// objects or bare strings) or plain newline-separated words.
func parseWordItems(text string) []domain.WordItem {
	if raw, err := llm.ExtractJSON(text); err == nil {
		if items := parseJSONItems(raw); len(items) > 0 {
			return items
		}
	}

	var items []domain.WordItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if line == "" {
			continue
		}
		items = append(items, domain.WordItem{Headword: line})
	}
	return items
}

func parseJSONItems(raw string) []domain.WordItem {
	var objects []struct {
		Headword string  `json:"headword"`
		Word     string  `json:"word"`
		Notes    *string `json:"notes"`
	}
	if err := json.Unmarshal([]byte(raw), &objects); err == nil {
		var items []domain.WordItem
		for _, o := range objects {
			headword := o.Headword
			if headword == "" {
				headword = o.Word
			}
			if strings.TrimSpace(headword) == "" {
				continue
			}
			items = append(items, domain.WordItem{Headword: strings.TrimSpace(headword), Notes: o.Notes})
		}
		return items
	}

	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err == nil {
		var items []domain.WordItem
		for _, w := range strs {
			if strings.TrimSpace(w) == "" {
				continue
			}
			items = append(items, domain.WordItem{Headword: strings.TrimSpace(w)})
		}
		return items
	}
	return nil
}

// readableID is a short human-friendly handle, the first segment of a UUID.
func readableID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func sourceModel(req GenerateRequest) string {
	if req.Model != "" {
		return req.Model
	}
	if req.Provider != "" {
		return req.Provider
	}
	return "default"
}
