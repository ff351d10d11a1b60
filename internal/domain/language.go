package domain

import "regexp"

// Language is an ISO 639 language code, optionally with a region subtag
// (e.g. "en", "id", "pt-BR"). Per-language maps on Word and Sense are
// keyed by this type so one record can accumulate data for several
// target languages over repeated enrichment runs.
type Language string

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)

func (l Language) String() string { return string(l) }

// IsValid reports whether the code matches the accepted language-code pattern.
func (l Language) IsValid() bool {
	return languagePattern.MatchString(string(l))
}

// ParseLanguage validates a raw code at the boundary and returns it typed.
func ParseLanguage(raw string) (Language, error) {
	l := Language(raw)
	if !l.IsValid() {
		return "", NewValidationError("language", "must be an ISO language code like 'en' or 'pt-BR'")
	}
	return l, nil
}
