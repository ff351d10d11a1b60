package enricher

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/domain"
)

// Merge policies. The recurring rule: a field already holding data is
// kept unless force is set; per-language maps apply the rule per key, so
// a forced run for one target language never disturbs another.

// applyCoreDetails folds the step-2 reply into the draft.
func applyCoreDetails(d *WordDraft, out *CoreDetailsOutput, force bool) {
	if out.Pronunciation != nil && (d.Pronunciation == nil || force) {
		d.Pronunciation = out.Pronunciation
	}
	if out.FrequencyRank != nil && (d.FrequencyRank == nil || force) {
		d.FrequencyRank = out.FrequencyRank
	}
	if out.Register != nil && (d.Register == nil || force) {
		d.Register = out.Register
	}
}

// mergeCoreLanguageDetails folds the step-3 reply into the draft under
// the given target-language key.
func mergeCoreLanguageDetails(d *WordDraft, out *CoreLanguageDetailsOutput, lang domain.Language, force bool) {
	if out.Etymology != nil {
		if _, ok := d.Etymology[lang]; !ok || force {
			d.Etymology[lang] = *out.Etymology
		}
	}
	if len(out.Collocations) > 0 {
		if _, ok := d.Collocations[lang]; !ok || force {
			d.Collocations[lang] = out.Collocations
		}
	}
	if out.SemanticRelations != nil {
		if _, ok := d.SemanticRelations[lang]; !ok || force {
			d.SemanticRelations[lang] = normalizedRelations(*out.SemanticRelations)
		}
	}
	if out.UsageNotes != nil {
		if _, ok := d.UsageNotes[lang]; !ok || force {
			d.UsageNotes[lang] = *out.UsageNotes
		}
	}
}

// normalizedRelations replaces nil lists with empty ones. Semantic
// relations are always stored with all three lists present.
func normalizedRelations(r domain.SemanticRelations) domain.SemanticRelations {
	if r.Synonyms == nil {
		r.Synonyms = []string{}
	}
	if r.Antonyms == nil {
		r.Antonyms = []string{}
	}
	if r.RelatedConcepts == nil {
		r.RelatedConcepts = []string{}
	}
	return r
}

// mergeOrCreateSense resolves a discovered identity to an existing sense
// draft, or creates a skeleton seeded with the source-language brief
// description as its first definition.
func (d *WordDraft) mergeOrCreateSense(id SenseIdentity, sourceLang domain.Language) *SenseDraft {
	if s := d.findSense(id, sourceLang); s != nil {
		return s
	}
	s := &SenseDraft{
		SenseID:      uuid.New(),
		BaseWordID:   d.WordID,
		PartOfSpeech: strings.TrimSpace(id.PartOfSpeech),
		Definitions: []domain.Definition{{
			Text:     strings.TrimSpace(id.BriefDescription),
			Language: sourceLang,
		}},
		Translations: map[domain.Language][]domain.Translation{},
	}
	d.Senses = append(d.Senses, s)
	return s
}

// applySenseDetails folds a step-4a reply into one sense draft.
func applySenseDetails(s *SenseDraft, out *SenseDetailsOutput, targetLang domain.Language, force bool) {
	if out.Definition != nil {
		lang := out.Definition.Language
		if lang == "" {
			lang = targetLang
		}
		setDefinition(s, domain.Definition{Text: out.Definition.Text, Language: lang}, force)
	}
	if len(out.Translations) > 0 {
		if s.Translations == nil {
			s.Translations = map[domain.Language][]domain.Translation{}
		}
		if _, ok := s.Translations[targetLang]; !ok || force {
			trs := make([]domain.Translation, 0, len(out.Translations))
			for _, t := range out.Translations {
				trs = append(trs, domain.Translation{Text: t.Text, Nuance: t.Nuance})
			}
			s.Translations[targetLang] = trs
		}
	}
	if len(out.Examples) > 0 {
		examples := make([]domain.Example, 0, len(out.Examples))
		for _, e := range out.Examples {
			ex := domain.Example{Text: e.Text, Language: e.Language, CEFRLevel: e.CEFRLevel}
			if ex.Language == "" {
				ex.Language = targetLang
			}
			if e.Translation != nil {
				ex.Translations = map[domain.Language]string{targetLang: *e.Translation}
			}
			examples = append(examples, ex)
		}
		if force {
			s.Examples = examples
		} else {
			s.Examples = append(s.Examples, examples...)
		}
	}
	if out.SenseRegister != nil && (s.SenseRegister == nil || force) {
		s.SenseRegister = out.SenseRegister
	}
	if len(out.SenseCollocations) > 0 {
		if s.SenseCollocations == nil {
			s.SenseCollocations = map[domain.Language][]string{}
		}
		if _, ok := s.SenseCollocations[targetLang]; !ok || force {
			s.SenseCollocations[targetLang] = out.SenseCollocations
		}
	}
	if out.SenseSemanticRelations != nil {
		if s.SenseSemanticRelations == nil {
			s.SenseSemanticRelations = map[domain.Language]domain.SemanticRelations{}
		}
		if _, ok := s.SenseSemanticRelations[targetLang]; !ok || force {
			s.SenseSemanticRelations[targetLang] = normalizedRelations(*out.SenseSemanticRelations)
		}
	}
	if out.CEFRLevel != nil && (s.CEFRLevel == nil || force) {
		s.CEFRLevel = out.CEFRLevel
	}
}

// setDefinition replaces the definition for its language when absent or
// forced; at most one definition per language survives.
func setDefinition(s *SenseDraft, def domain.Definition, force bool) {
	for i, existing := range s.Definitions {
		if existing.Language == def.Language {
			if force {
				s.Definitions[i] = def
			}
			return
		}
	}
	s.Definitions = append(s.Definitions, def)
}

// countChainsForLanguage reports how many stored chains target the given
// language.
func countChainsForLanguage(s *SenseDraft, lang domain.Language) int {
	n := 0
	for _, c := range s.LinkChainVariations {
		if c.TargetLanguage == lang {
			n++
		}
	}
	return n
}

// dropChainsForLanguage removes every stored chain targeting the given
// language. Used by forced runs before requesting a fresh batch.
func dropChainsForLanguage(s *SenseDraft, lang domain.Language) {
	kept := s.LinkChainVariations[:0]
	for _, c := range s.LinkChainVariations {
		if c.TargetLanguage != lang {
			kept = append(kept, c)
		}
	}
	s.LinkChainVariations = kept
}

// assembleLinkChain converts one chain reply into a stored LinkChain.
// The image slot is always filled: a prompt becomes a pending
// placeholder, and a chain with neither prompt nor image gets the
// missing-prompt placeholder. An inline image_data object without a
// prompt is unusable and logged away.
func assembleLinkChain(log *slog.Logger, c ChainOutput, targetLang domain.Language, promptUsed, sourceModel string) (*domain.LinkChain, error) {
	if strings.TrimSpace(c.Narrative) == "" {
		return nil, fmt.Errorf("chain has empty narrative")
	}

	chain := &domain.LinkChain{
		ChainID:        uuid.New(),
		TargetLanguage: targetLang,
		Syllables:      c.Syllables,
		Narrative:      c.Narrative,
		MnemonicRhyme:  c.MnemonicRhyme,
		Explanation:    c.Explanation,
		PromptUsed:     &promptUsed,
		FeedbackData:   map[domain.Language]domain.FeedbackCounts{},
	}
	for _, l := range c.SyllableLinks {
		chain.SyllableLinks = append(chain.SyllableLinks, domain.SyllableLink{
			Syllable:        l.Syllable,
			KeywordNoun:     l.KeywordNoun,
			KeywordLanguage: l.KeywordLanguage,
		})
	}

	switch {
	case c.ImagePrompt != nil && strings.TrimSpace(*c.ImagePrompt) != "":
		prompt := strings.TrimSpace(*c.ImagePrompt)
		chain.ImageData = &domain.ImageData{
			Type:        domain.ImageTypePlaceholder,
			URL:         domain.ImageURLPendingPlaceholder,
			Prompt:      &prompt,
			SourceModel: &sourceModel,
		}
	default:
		if c.ImageData != nil {
			log.Warn("chain carries image_data without an image prompt, discarding",
				slog.String("target_language", string(targetLang)))
		}
		marker := domain.ImagePromptMissingMarker
		chain.ImageData = &domain.ImageData{
			Type:        domain.ImageTypePlaceholder,
			URL:         domain.ImageURLMissingPlaceholder,
			Prompt:      &marker,
			SourceModel: &sourceModel,
		}
	}
	return chain, nil
}
