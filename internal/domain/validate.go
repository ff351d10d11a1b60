package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Panics only on invalid registration, which is a programming error.
	must(v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return Language(fl.Field().String()).IsValid()
	}))
	must(v.RegisterValidation("imagetype", func(fl validator.FieldLevel) bool {
		return ImageType(fl.Field().String()).IsValid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateWord checks the final, strict shape of an assembled Word:
// struct tags first, then the cross-field invariants the tags cannot
// express. It returns a *ValidationError (unwrapping to ErrValidation)
// describing every violation found.
func ValidateWord(w *Word) error {
	var fields []FieldError

	if err := validate.Struct(w); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate word: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
			})
		}
	}

	for i := range w.Senses {
		s := &w.Senses[i]
		if s.BaseWordID != w.WordID {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("senses[%d].base_word_id", i),
				Message: "must equal the parent word_id",
			})
		}
		seen := make(map[Language]bool, len(s.Definitions))
		for j, d := range s.Definitions {
			if seen[d.Language] {
				fields = append(fields, FieldError{
					Field:   fmt.Sprintf("senses[%d].definitions[%d]", i, j),
					Message: fmt.Sprintf("duplicate definition for language %q", d.Language),
				})
			}
			seen[d.Language] = true
		}
	}

	for lang := range w.Etymology {
		if !lang.IsValid() {
			fields = append(fields, FieldError{Field: "etymology", Message: fmt.Sprintf("bad language key %q", lang)})
		}
	}
	for lang := range w.UsageNotes {
		if !lang.IsValid() {
			fields = append(fields, FieldError{Field: "usage_notes", Message: fmt.Sprintf("bad language key %q", lang)})
		}
	}
	for lang := range w.Collocations {
		if !lang.IsValid() {
			fields = append(fields, FieldError{Field: "collocations", Message: fmt.Sprintf("bad language key %q", lang)})
		}
	}
	for lang := range w.SemanticRelations {
		if !lang.IsValid() {
			fields = append(fields, FieldError{Field: "semantic_relations", Message: fmt.Sprintf("bad language key %q", lang)})
		}
	}

	if len(fields) > 0 {
		return NewValidationErrors(fields)
	}
	return nil
}
