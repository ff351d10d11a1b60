package enricher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linkword/linkword-backend/internal/domain"
)

// LLM response shapes for the four pipeline calls. Decoding is strict:
// unknown fields fail the schema check and the call is retried.

// SenseIdentity is how the LLM names one distinct sense during
// discovery. The pair (part_of_speech, brief_description) is the
// content identity used to match senses across enrichment runs.
type SenseIdentity struct {
	PartOfSpeech     string `json:"part_of_speech"`
	BriefDescription string `json:"brief_description"`
}

// CoreDetailsOutput is the reply to the core-details call (step 2).
type CoreDetailsOutput struct {
	Headword      string                `json:"headword"`
	Language      domain.Language       `json:"language"`
	Pronunciation *domain.Pronunciation `json:"pronunciation"`
	FrequencyRank *int                  `json:"frequency_rank"`
	Register      *string               `json:"register"`
	Senses        []SenseIdentity       `json:"senses"`
}

// Validate enforces the one fatal requirement of sense discovery: at
// least one usable sense identity.
func (o *CoreDetailsOutput) Validate() error {
	if len(o.Senses) == 0 {
		return fmt.Errorf("no senses identified")
	}
	for i, s := range o.Senses {
		if strings.TrimSpace(s.PartOfSpeech) == "" {
			return fmt.Errorf("senses[%d]: missing part_of_speech", i)
		}
		if strings.TrimSpace(s.BriefDescription) == "" {
			return fmt.Errorf("senses[%d]: missing brief_description", i)
		}
	}
	if o.FrequencyRank != nil && *o.FrequencyRank <= 0 {
		return fmt.Errorf("frequency_rank must be positive")
	}
	return nil
}

// CoreLanguageDetailsOutput is the reply to the target-language core
// details call (step 3). All fields are optional; a partial reply merges
// whatever it carries.
type CoreLanguageDetailsOutput struct {
	Etymology         *string                   `json:"etymology"`
	Collocations      []string                  `json:"collocations"`
	SemanticRelations *domain.SemanticRelations `json:"semantic_relations"`
	UsageNotes        *string                   `json:"usage_notes"`
}

// TranslationOutput is one translation in a sense-details reply.
type TranslationOutput struct {
	Text     string          `json:"text"`
	Language domain.Language `json:"language"`
	Nuance   *string         `json:"nuance"`
}

// ExampleOutput is one usage example in a sense-details reply. The
// single translation is into the target language of the current run.
type ExampleOutput struct {
	Text        string          `json:"text"`
	Language    domain.Language `json:"language"`
	Translation *string         `json:"translation"`
	CEFRLevel   *string         `json:"cefr_level"`
}

// DefinitionOutput is a definition text with its language.
type DefinitionOutput struct {
	Text     string          `json:"text"`
	Language domain.Language `json:"language"`
}

// SenseDetailsOutput is the reply to the per-sense details call (step 4a).
type SenseDetailsOutput struct {
	Definition             *DefinitionOutput         `json:"definition"`
	Translations           []TranslationOutput       `json:"translations"`
	Examples               []ExampleOutput           `json:"examples"`
	SenseRegister          *string                   `json:"sense_register"`
	SenseCollocations      []string                  `json:"sense_collocations"`
	SenseSemanticRelations *domain.SemanticRelations `json:"sense_semantic_relations"`
	CEFRLevel              *string                   `json:"cefr_level"`
}

func (o *SenseDetailsOutput) Validate() error {
	if o.Definition == nil || strings.TrimSpace(o.Definition.Text) == "" {
		return fmt.Errorf("missing definition")
	}
	for i, t := range o.Translations {
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("translations[%d]: missing text", i)
		}
	}
	return nil
}

// SyllableLinkOutput pairs one syllable with its keyword noun.
type SyllableLinkOutput struct {
	Syllable        string          `json:"syllable"`
	KeywordNoun     string          `json:"keyword_noun"`
	KeywordLanguage domain.Language `json:"keyword_language"`
}

// ImageDataOutput is the optional image object a chain reply may carry.
// Everything is a pointer: the LLM frequently omits fields.
type ImageDataOutput struct {
	Type        *string `json:"type"`
	URL         *string `json:"url"`
	Prompt      *string `json:"prompt"`
	SourceModel *string `json:"source_model"`
	Source      *string `json:"source"`
}

// ChainOutput is one mnemonic link chain in a chains reply.
type ChainOutput struct {
	Syllables     []string             `json:"syllables"`
	SyllableLinks []SyllableLinkOutput `json:"syllable_links"`
	Narrative     string               `json:"narrative"`
	MnemonicRhyme *string              `json:"mnemonic_rhyme"`
	Explanation   *string              `json:"explanation"`
	ImagePrompt   *string              `json:"image_prompt"`
	ImageData     *ImageDataOutput     `json:"image_data"`
}

// LinkChainsOutput is the reply to the link-chains call (step 4b).
type LinkChainsOutput struct {
	LinkChains []ChainOutput `json:"link_chains"`
}

func (o *LinkChainsOutput) Validate() error {
	for i, c := range o.LinkChains {
		if strings.TrimSpace(c.Narrative) == "" {
			return fmt.Errorf("link_chains[%d]: missing narrative", i)
		}
	}
	return nil
}

// decodeStrict unmarshals raw JSON into T rejecting unknown fields, then
// runs T's Validate if it has one.
func decodeStrict[T any](raw json.RawMessage) (*T, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var out T
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if v, ok := any(&out).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// schemaCheckFor adapts decodeStrict into the llm.Request schema hook.
func schemaCheckFor[T any]() func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		_, err := decodeStrict[T](raw)
		return err
	}
}
