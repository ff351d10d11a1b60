package enricher

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
)

// WordDraft is the permissive working state of an enrichment run.
// Fields fill in over several steps and may be inconsistent in between;
// the strict domain.Word invariants are enforced only at final assembly.
type WordDraft struct {
	WordID            uuid.UUID
	Headword          string
	Language          domain.Language
	Categories        []string
	Pronunciation     *domain.Pronunciation
	FrequencyRank     *int
	Register          *string
	Etymology         map[domain.Language]string
	Collocations      map[domain.Language][]string
	SemanticRelations map[domain.Language]domain.SemanticRelations
	UsageNotes        map[domain.Language]string
	Senses            []*SenseDraft
	EnrichmentHistory []domain.EnrichmentInfo
	CreatedAt         time.Time
}

// SenseDraft mirrors domain.Sense without the required-field guarantees.
type SenseDraft struct {
	SenseID                uuid.UUID
	BaseWordID             uuid.UUID
	PartOfSpeech           string
	Definitions            []domain.Definition
	Translations           map[domain.Language][]domain.Translation
	Examples               []domain.Example
	SenseRegister          *string
	SenseCollocations      map[domain.Language][]string
	SenseSemanticRelations map[domain.Language]domain.SemanticRelations
	RelatedForms           []string
	CEFRLevel              *string
	UsageFrequency         *string
	PhoneticTranscription  *string
	LinkChainVariations    []domain.LinkChain
}

// newDraft starts a draft for a headword that has no stored record yet.
func newDraft(headword string, lang domain.Language, categories []string) *WordDraft {
	return &WordDraft{
		WordID:            uuid.New(),
		Headword:          headword,
		Language:          lang,
		Categories:        append([]string(nil), categories...),
		Etymology:         map[domain.Language]string{},
		Collocations:      map[domain.Language][]string{},
		SemanticRelations: map[domain.Language]domain.SemanticRelations{},
		UsageNotes:        map[domain.Language]string{},
	}
}

// draftFromWord lifts a stored word into the permissive draft form so the
// merge steps can edit it in place.
func draftFromWord(w *domain.Word) *WordDraft {
	d := &WordDraft{
		WordID:            w.WordID,
		Headword:          w.Headword,
		Language:          w.Language,
		Categories:        append([]string(nil), w.Categories...),
		Pronunciation:     w.Pronunciation,
		FrequencyRank:     w.FrequencyRank,
		Register:          w.Register,
		Etymology:         cloneMap(w.Etymology),
		Collocations:      cloneSliceMap(w.Collocations),
		SemanticRelations: cloneMap(w.SemanticRelations),
		UsageNotes:        cloneMap(w.UsageNotes),
		EnrichmentHistory: append([]domain.EnrichmentInfo(nil), w.EnrichmentHistory...),
		CreatedAt:         w.CreatedAt,
	}
	for i := range w.Senses {
		d.Senses = append(d.Senses, senseDraftFromSense(&w.Senses[i]))
	}
	return d
}

func senseDraftFromSense(s *domain.Sense) *SenseDraft {
	sd := &SenseDraft{
		SenseID:                s.SenseID,
		BaseWordID:             s.BaseWordID,
		PartOfSpeech:           s.PartOfSpeech,
		Definitions:            append([]domain.Definition(nil), s.Definitions...),
		Translations:           cloneSliceMap(s.Translations),
		Examples:               append([]domain.Example(nil), s.Examples...),
		SenseRegister:          s.SenseRegister,
		SenseCollocations:      cloneSliceMap(s.SenseCollocations),
		SenseSemanticRelations: cloneMap(s.SenseSemanticRelations),
		RelatedForms:           append([]string(nil), s.RelatedForms...),
		CEFRLevel:              s.CEFRLevel,
		UsageFrequency:         s.UsageFrequency,
		PhoneticTranscription:  s.PhoneticTranscription,
		LinkChainVariations:    append([]domain.LinkChain(nil), s.LinkChainVariations...),
	}
	return sd
}

// sameIdentity applies the content identity rule to two identities:
// equal part of speech (case-insensitive) and an exact brief-description
// match after trimming.
func sameIdentity(a, b SenseIdentity) bool {
	return strings.EqualFold(strings.TrimSpace(a.PartOfSpeech), strings.TrimSpace(b.PartOfSpeech)) &&
		strings.TrimSpace(a.BriefDescription) == strings.TrimSpace(b.BriefDescription)
}

// findSense matches an identity against existing drafts by content:
// equal part of speech (case-insensitive) and an exact source-language
// definition text match after trimming. Rephrased definitions do not
// match and produce a new sense.
func (d *WordDraft) findSense(id SenseIdentity, sourceLang domain.Language) *SenseDraft {
	want := strings.TrimSpace(id.BriefDescription)
	for _, s := range d.Senses {
		if !strings.EqualFold(strings.TrimSpace(s.PartOfSpeech), strings.TrimSpace(id.PartOfSpeech)) {
			continue
		}
		for _, def := range s.Definitions {
			if def.Language == sourceLang && strings.TrimSpace(def.Text) == want {
				return s
			}
		}
	}
	return nil
}

// definitionFor returns the sense's definition text in the given
// language, or "" when none is stored.
func (s *SenseDraft) definitionFor(lang domain.Language) string {
	for _, def := range s.Definitions {
		if def.Language == lang {
			return def.Text
		}
	}
	return ""
}

// toWord freezes the draft into a domain.Word. Validation happens at the
// caller; this is pure shape conversion.
func (d *WordDraft) toWord(now time.Time) *domain.Word {
	w := &domain.Word{
		WordID:            d.WordID,
		Headword:          d.Headword,
		Language:          d.Language,
		Categories:        d.Categories,
		Pronunciation:     d.Pronunciation,
		FrequencyRank:     d.FrequencyRank,
		Register:          d.Register,
		Etymology:         d.Etymology,
		Collocations:      d.Collocations,
		SemanticRelations: d.SemanticRelations,
		UsageNotes:        d.UsageNotes,
		EnrichmentHistory: d.EnrichmentHistory,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         now,
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	for _, sd := range d.Senses {
		w.Senses = append(w.Senses, domain.Sense{
			SenseID:                sd.SenseID,
			BaseWordID:             sd.BaseWordID,
			PartOfSpeech:           sd.PartOfSpeech,
			Definitions:            sd.Definitions,
			Translations:           sd.Translations,
			Examples:               sd.Examples,
			SenseRegister:          sd.SenseRegister,
			SenseCollocations:      sd.SenseCollocations,
			SenseSemanticRelations: sd.SenseSemanticRelations,
			RelatedForms:           sd.RelatedForms,
			CEFRLevel:              sd.CEFRLevel,
			UsageFrequency:         sd.UsageFrequency,
			PhoneticTranscription:  sd.PhoneticTranscription,
			LinkChainVariations:    sd.LinkChainVariations,
		})
	}
	return w
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	out := make(map[K][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}
