package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is a master vocabulary category managed by admins. The ID is a
// client-chosen slug; display names and descriptions are per-language.
type Category struct {
	CategoryID  string              `json:"category_id"`
	DisplayName map[Language]string `json:"display_name"`
	Description map[Language]string `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// LanguagePairConfig is one configuration value scoped to a language pair,
// e.g. pair "id-en", key "max_chains_per_sense".
type LanguagePairConfig struct {
	ID           uuid.UUID       `json:"id"`
	LanguagePair string          `json:"language_pair"`
	ConfigKey    string          `json:"config_key"`
	ConfigValue  json.RawMessage `json:"config_value"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ListStatus is the review state of a generated word list.
type ListStatus string

const (
	ListStatusNew      ListStatus = "new"
	ListStatusReview   ListStatus = "review"
	ListStatusApproved ListStatus = "approved"
	ListStatusRejected ListStatus = "rejected"
	ListStatusError    ListStatus = "error"
)

func (s ListStatus) String() string { return string(s) }

func (s ListStatus) IsValid() bool {
	switch s {
	case ListStatusNew, ListStatusReview, ListStatusApproved, ListStatusRejected, ListStatusError:
		return true
	}
	return false
}

// ListFilter defines parameters for listing generated word lists.
type ListFilter struct {
	Status     *ListStatus
	Language   *Language
	CategoryID *string

	// Limit is the maximum number of lists to return. Adapters apply
	// their own default and cap when it is zero or out of range.
	Limit  int
	Offset int
}

// WordItem is one candidate headword in a generated list.
type WordItem struct {
	Headword string  `json:"headword"`
	Notes    *string `json:"notes,omitempty"`
}

// GeneratedWordList is the output of the single-shot list generation
// flow: one LLM call producing a flat batch of candidate headwords for
// review, with the full prompt recorded for reproducibility.
type GeneratedWordList struct {
	ID                 uuid.UUID  `json:"id"`
	ReadableID         string     `json:"readable_id"`
	Status             ListStatus `json:"status"`
	Language           Language   `json:"language"`
	CEFRLevel          string     `json:"cefr_level"`
	ListCategoryID     *string    `json:"list_category_id,omitempty"`
	AdminNotes         *string    `json:"admin_notes,omitempty"`
	RequestedWordCount int        `json:"requested_word_count"`
	GeneratedWordCount int        `json:"generated_word_count"`
	PromptTextSent     string     `json:"prompt_text_sent"`
	SourceModel        string     `json:"source_model"`
	Words              []WordItem `json:"words"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
