package domain

import (
	"time"

	"github.com/google/uuid"
)

// Word is the aggregate root for one enriched lexical entry. The four
// per-language maps (Etymology, Collocations, SemanticRelations,
// UsageNotes) are keyed by target-language code so the same Word can
// carry explanations for several learner languages at once.
type Word struct {
	WordID        uuid.UUID      `json:"word_id" validate:"required"`
	Headword      string         `json:"headword" validate:"required"`
	Language      Language       `json:"language" validate:"required,langcode"`
	Categories    []string       `json:"categories"`
	Pronunciation *Pronunciation `json:"pronunciation,omitempty"`
	FrequencyRank *int           `json:"frequency_rank,omitempty" validate:"omitempty,gt=0"`
	Register      *string        `json:"register,omitempty"`

	Etymology         map[Language]string            `json:"etymology"`
	Collocations      map[Language][]string          `json:"collocations"`
	SemanticRelations map[Language]SemanticRelations `json:"semantic_relations"`
	UsageNotes        map[Language]string            `json:"usage_notes"`

	Senses            []Sense          `json:"senses" validate:"dive"`
	EnrichmentHistory []EnrichmentInfo `json:"enrichment_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pronunciation holds phonetic data for the headword.
type Pronunciation struct {
	IPA              *string `json:"ipa,omitempty"`
	PhoneticSpelling *string `json:"phonetic_spelling,omitempty"`
	AudioURL         *string `json:"audio_url,omitempty"`
}

// SemanticRelations groups related vocabulary for one language.
// A value is always replaced wholesale during merge, never patched field
// by field; absent lists default to empty.
type SemanticRelations struct {
	Synonyms        []string `json:"synonyms"`
	Antonyms        []string `json:"antonyms"`
	RelatedConcepts []string `json:"related_concepts"`
}

// Sense is one distinct meaning of a Word. BaseWordID must always equal
// the parent's WordID; ValidateWord checks this on every assembly.
//
// Across enrichment runs a sense is identified by content, the pair
// (part_of_speech, source-language definition text), not by SenseID.
// SenseID is only reused when that content match succeeds.
type Sense struct {
	SenseID      uuid.UUID `json:"sense_id" validate:"required"`
	BaseWordID   uuid.UUID `json:"base_word_id" validate:"required"`
	PartOfSpeech string    `json:"part_of_speech" validate:"required"`

	Definitions  []Definition             `json:"definitions" validate:"dive"`
	Translations map[Language][]Translation `json:"translations"`
	Examples     []Example                `json:"examples" validate:"dive"`

	SenseRegister          *string                        `json:"sense_register,omitempty"`
	SenseCollocations      map[Language][]string          `json:"sense_collocations"`
	SenseSemanticRelations map[Language]SemanticRelations `json:"sense_semantic_relations"`
	RelatedForms           []string                       `json:"related_forms"`
	CEFRLevel              *string                        `json:"cefr_level,omitempty"`
	UsageFrequency         *string                        `json:"usage_frequency,omitempty"`
	PhoneticTranscription  *string                        `json:"phonetic_transcription,omitempty"`

	LinkChainVariations []LinkChain `json:"link_chain_variations" validate:"dive"`
}

// Definition is one definition text in one language. A sense carries at
// most one definition per language.
type Definition struct {
	Text     string   `json:"text" validate:"required"`
	Language Language `json:"language" validate:"required,langcode"`
}

// Translation is one translation of a sense with optional nuance notes.
type Translation struct {
	Text   string  `json:"text" validate:"required"`
	Nuance *string `json:"nuance,omitempty"`
}

// Example is one usage example in the source language with translations
// into zero or more target languages.
type Example struct {
	Text         string              `json:"text" validate:"required"`
	Language     Language            `json:"language" validate:"required,langcode"`
	Translations map[Language]string `json:"translations"`
	CEFRLevel    *string             `json:"cefr_level,omitempty"`
}

// ImageType classifies the origin of a link chain image.
type ImageType string

const (
	ImageTypeAIGenerated  ImageType = "ai_generated"
	ImageTypeStock        ImageType = "stock"
	ImageTypeUserUploaded ImageType = "user_uploaded"
	ImageTypePlaceholder  ImageType = "placeholder"
)

func (t ImageType) String() string { return string(t) }

func (t ImageType) IsValid() bool {
	switch t {
	case ImageTypeAIGenerated, ImageTypeStock, ImageTypeUserUploaded, ImageTypePlaceholder:
		return true
	}
	return false
}

// Placeholder image URLs used when no real image exists yet. The
// "pending" variant carries a usable prompt for later generation; the
// "missing" variant marks chains the LLM returned without any prompt.
const (
	ImageURLPendingPlaceholder = "placeholder://image/pending"
	ImageURLMissingPlaceholder = "placeholder://image/missing"
	ImagePromptMissingMarker   = "[no image prompt provided]"
)

// ImageData describes the image attached to a link chain. Every chain in
// a persisted Word has one, at minimum a placeholder.
type ImageData struct {
	Type        ImageType `json:"type" validate:"required,imagetype"`
	URL         string    `json:"url" validate:"required"`
	Prompt      *string   `json:"prompt,omitempty"`
	SourceModel *string   `json:"source_model,omitempty"`
	Source      *string   `json:"source,omitempty"`
}

// SyllableLink pairs one syllable of the headword with a concrete,
// imageable keyword noun in some language.
type SyllableLink struct {
	Syllable        string   `json:"syllable" validate:"required"`
	KeywordNoun     string   `json:"keyword_noun" validate:"required"`
	KeywordLanguage Language `json:"keyword_language" validate:"required,langcode"`
}

// FeedbackCounts tracks learner reactions to a link chain in one UI language.
type FeedbackCounts struct {
	Upvotes   int `json:"upvotes" validate:"gte=0"`
	Downvotes int `json:"downvotes" validate:"gte=0"`
	Pins      int `json:"pins" validate:"gte=0"`
}

// LinkChain is one mnemonic story for a sense, targeted at learners of
// one specific language.
type LinkChain struct {
	ChainID        uuid.UUID      `json:"chain_id" validate:"required"`
	TargetLanguage Language       `json:"target_language" validate:"required,langcode"`
	Syllables      []string       `json:"syllables"`
	SyllableLinks  []SyllableLink `json:"syllable_links" validate:"dive"`
	Narrative      string         `json:"narrative" validate:"required"`
	MnemonicRhyme  *string        `json:"mnemonic_rhyme,omitempty"`
	Explanation    *string        `json:"explanation,omitempty"`
	ImageData      *ImageData     `json:"image_data" validate:"required"`
	ValidationScore *float64      `json:"validation_score,omitempty"`
	PromptUsed     *string        `json:"prompt_used,omitempty"`

	FeedbackData map[Language]FeedbackCounts `json:"feedback_data" validate:"dive"`
}

// EnrichmentInfo records one enrichment run in a Word's append-only history.
type EnrichmentInfo struct {
	BatchID   string    `json:"batch_id" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags"`
}
