package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWord() *Word {
	wordID := uuid.New()
	prompt := "image prompt"
	now := time.Now().UTC()
	return &Word{
		WordID:   wordID,
		Headword: "makan",
		Language: "id",
		Senses: []Sense{{
			SenseID:      uuid.New(),
			BaseWordID:   wordID,
			PartOfSpeech: "verb",
			Definitions: []Definition{
				{Text: "memasukkan makanan ke mulut", Language: "id"},
				{Text: "to eat", Language: "en"},
			},
			LinkChainVariations: []LinkChain{{
				ChainID:        uuid.New(),
				TargetLanguage: "en",
				Narrative:      "a story",
				ImageData: &ImageData{
					Type:   ImageTypePlaceholder,
					URL:    ImageURLPendingPlaceholder,
					Prompt: &prompt,
				},
			}},
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestValidateWord_Valid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateWord(validWord()))
}

func TestValidateWord_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(w *Word)
		field  string
	}{
		{"missing headword", func(w *Word) { w.Headword = "" }, "Headword"},
		{"bad language", func(w *Word) { w.Language = "indonesian" }, "Language"},
		{"zero frequency rank", func(w *Word) { n := 0; w.FrequencyRank = &n }, "FrequencyRank"},
		{"orphaned sense", func(w *Word) { w.Senses[0].BaseWordID = uuid.New() }, "base_word_id"},
		{"duplicate definition language", func(w *Word) {
			w.Senses[0].Definitions = append(w.Senses[0].Definitions, Definition{Text: "again", Language: "en"})
		}, "definitions"},
		{"chain without image", func(w *Word) { w.Senses[0].LinkChainVariations[0].ImageData = nil }, "ImageData"},
		{"chain without narrative", func(w *Word) { w.Senses[0].LinkChainVariations[0].Narrative = "" }, "Narrative"},
		{"bad image type", func(w *Word) { w.Senses[0].LinkChainVariations[0].ImageData.Type = "hologram" }, "Type"},
		{"bad etymology key", func(w *Word) { w.Etymology = map[Language]string{"english": "x"} }, "etymology"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWord()
			tt.mutate(w)

			err := ValidateWord(w)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			found := false
			for _, fe := range verr.Errors {
				if containsFold(fe.Field, tt.field) {
					found = true
					break
				}
			}
			assert.True(t, found, "expected a violation mentioning %q, got %+v", tt.field, verr.Errors)
		})
	}
}

func TestValidationError_Messages(t *testing.T) {
	t.Parallel()

	one := NewValidationError("headword", "must not be empty")
	assert.Contains(t, one.Error(), "headword")

	many := NewValidationErrors([]FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	})
	assert.Contains(t, many.Error(), "2 errors")
	assert.ErrorIs(t, many, ErrValidation)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
