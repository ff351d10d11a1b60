// Package catalog provides business logic for vocabulary categories and
// language-pair configuration values.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
)

type categoryRepo interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type pairConfigRepo interface {
	Upsert(ctx context.Context, c *domain.LanguagePairConfig) (*domain.LanguagePairConfig, error)
	Get(ctx context.Context, pair, key string) (*domain.LanguagePairConfig, error)
	List(ctx context.Context, pair *string) ([]domain.LanguagePairConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	pairPattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?-[a-z]{2,3}(-[A-Z]{2})?$`)
)

// Service wraps the category and pair-config repositories.
type Service struct {
	log        *slog.Logger
	categories categoryRepo
	configs    pairConfigRepo
}

// NewService creates a new catalog service.
func NewService(log *slog.Logger, categories categoryRepo, configs pairConfigRepo) *Service {
	return &Service{
		log:        log.With("service", "catalog"),
		categories: categories,
		configs:    configs,
	}
}

// CreateCategory validates and stores a new category.
func (s *Service) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "category created", slog.String("category_id", created.CategoryID))
	return created, nil
}

// GetCategory returns one category by slug.
func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// UpdateCategory validates and replaces a category's display data.
func (s *Service) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	return s.categories.Update(ctx, c)
}

// DeleteCategory removes a category by slug.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "category deleted", slog.String("category_id", id))
	return nil
}

// SetPairConfig validates and upserts one (pair, key) value.
func (s *Service) SetPairConfig(ctx context.Context, c *domain.LanguagePairConfig) (*domain.LanguagePairConfig, error) {
	var fields []domain.FieldError
	if !pairPattern.MatchString(c.LanguagePair) {
		fields = append(fields, domain.FieldError{Field: "language_pair", Message: "must look like \"id-en\""})
	}
	if c.ConfigKey == "" {
		fields = append(fields, domain.FieldError{Field: "config_key", Message: "must not be empty"})
	}
	if len(c.ConfigValue) == 0 || !json.Valid(c.ConfigValue) {
		fields = append(fields, domain.FieldError{Field: "config_value", Message: "must be valid JSON"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationErrors(fields)
	}
	return s.configs.Upsert(ctx, c)
}

// GetPairConfig returns the value for one (pair, key).
func (s *Service) GetPairConfig(ctx context.Context, pair, key string) (*domain.LanguagePairConfig, error) {
	return s.configs.Get(ctx, pair, key)
}

// ListPairConfigs returns configs, optionally scoped to one pair.
func (s *Service) ListPairConfigs(ctx context.Context, pair *string) ([]domain.LanguagePairConfig, error) {
	return s.configs.List(ctx, pair)
}

// DeletePairConfig removes one config row.
func (s *Service) DeletePairConfig(ctx context.Context, id uuid.UUID) error {
	return s.configs.Delete(ctx, id)
}

func validateCategory(c *domain.Category) error {
	var fields []domain.FieldError
	if !slugPattern.MatchString(c.CategoryID) {
		fields = append(fields, domain.FieldError{Field: "category_id", Message: "must be a lowercase slug"})
	}
	for lang := range c.DisplayName {
		if !lang.IsValid() {
			fields = append(fields, domain.FieldError{Field: "display_name", Message: "bad language key " + lang.String()})
		}
	}
	for lang := range c.Description {
		if !lang.IsValid() {
			fields = append(fields, domain.FieldError{Field: "description", Message: "bad language key " + lang.String()})
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}
