package enricher

import (
	"fmt"
	"strings"

	"github.com/linkword/linkword-backend/internal/domain"
)

// buildCorePrompt requests headword-level details plus the sense
// inventory. The brief descriptions double as source-language
// definitions for new senses, so they must be written in the source
// language.
func buildCorePrompt(headword string, sourceLang domain.Language) string {
	return fmt.Sprintf(`Analyze the word "%s" (language: %s).

Provide its core linguistic details and identify every distinct sense.

Output ONLY a valid JSON object matching this exact schema:
{
  "headword": "%s",
  "language": "%s",
  "pronunciation": {"ipa": "<IPA or null>", "phonetic_spelling": "<spelling or null>", "audio_url": null},
  "frequency_rank": <estimated positive integer or null>,
  "register": "<formal|informal|neutral|... or null>",
  "senses": [
    {"part_of_speech": "<noun|verb|adjective|...>", "brief_description": "<one concise definition in %s>"}
  ]
}

Rules:
- List every distinct sense a learner's dictionary would show, at least one
- Write each brief_description as a clear standalone definition in %s
- pronunciation may be null if unknown
- Output ONLY the JSON, no markdown, no explanations`,
		headword, sourceLang, headword, sourceLang, sourceLang, sourceLang)
}

// buildCoreLanguagePrompt requests headword-level explanatory material
// written for learners whose language is targetLang.
func buildCoreLanguagePrompt(headword string, sourceLang, targetLang domain.Language) string {
	return fmt.Sprintf(`For the word "%s" (language: %s), provide headword-level learning material written in %s for someone learning %s.

Output ONLY a valid JSON object matching this exact schema:
{
  "etymology": "<brief etymology in %s or null>",
  "collocations": ["<common collocation>", "..."],
  "semantic_relations": {"synonyms": ["..."], "antonyms": ["..."], "related_concepts": ["..."]},
  "usage_notes": "<practical usage notes in %s or null>"
}

Rules:
- etymology and usage_notes must be written in %s
- collocations stay in %s, since they are phrases of the source language
- Lists inside semantic_relations may be empty but not omitted
- Output ONLY the JSON, no markdown, no explanations`,
		headword, sourceLang, targetLang, sourceLang,
		targetLang, targetLang, targetLang, sourceLang)
}

// buildSensePrompt requests target-language details for one sense,
// pinned down by its part of speech and source-language description.
func buildSensePrompt(headword string, sourceLang, targetLang domain.Language, id SenseIdentity) string {
	return fmt.Sprintf(`For the word "%s" (%s), specifically the sense meaning "%s" (%s):

Provide detailed enrichment data for someone learning %s.

Output ONLY a valid JSON object matching this exact schema:
{
  "definition": {"text": "<definition in %s>", "language": "%s"},
  "translations": [{"text": "<translation into %s>", "language": "%s", "nuance": "<optional nuance note or null>"}],
  "examples": [{"text": "<example sentence in %s>", "language": "%s", "translation": "<translation into %s>", "cefr_level": "<A1..C2 or null>"}],
  "sense_register": "<formal|informal|... or null>",
  "sense_collocations": ["<collocation typical for this sense>"],
  "sense_semantic_relations": {"synonyms": ["..."], "antonyms": ["..."], "related_concepts": ["..."]},
  "cefr_level": "<A1..C2 or null>"
}

Rules:
- definition.text is written in %s for this exact sense, not the word in general
- Provide 2-4 high-quality translations into %s
- Generate 1-3 natural example sentences in %s with %s translations
- Output ONLY the JSON, no markdown, no explanations`,
		headword, sourceLang, id.BriefDescription, id.PartOfSpeech, targetLang,
		targetLang, targetLang, targetLang, targetLang,
		sourceLang, sourceLang, targetLang,
		targetLang, targetLang, sourceLang, targetLang)
}

// buildChainPrompt requests a batch of mnemonic link chains. count is
// the number of chains still needed, never more than the per-sense cap.
func buildChainPrompt(headword string, sourceLang, targetLang domain.Language, id SenseIdentity, count int) string {
	return fmt.Sprintf(`Generate %d distinct, creative, and memorable mnemonic link chains for the word "%s" (%s), sense "%s" (%s), to help someone learning %s remember it.

A link chain breaks the word into syllables, links each syllable to a concrete imageable keyword noun the learner knows, and ties the keywords into a short vivid story that ends at the word's meaning.

Output ONLY a valid JSON object matching this exact schema:
{
  "link_chains": [
    {
      "syllables": ["<syllable>", "..."],
      "syllable_links": [{"syllable": "<syllable>", "keyword_noun": "<concrete noun>", "keyword_language": "%s"}],
      "narrative": "<the mnemonic story in %s>",
      "mnemonic_rhyme": "<optional short rhyme in %s or null>",
      "explanation": "<optional note on why the chain works, in %s, or null>",
      "image_prompt": "<one-sentence description of an image illustrating the story, or null>"
    }
  ]
}

Rules:
- Produce exactly %d chains, each with a different story
- Keyword nouns must be concrete and easy to picture
- The narrative must mention the word's meaning "%s"
- Output ONLY the JSON, no markdown, no explanations`,
		count, headword, sourceLang, id.BriefDescription, id.PartOfSpeech, targetLang,
		targetLang, targetLang, targetLang, targetLang,
		count, strings.TrimSpace(id.BriefDescription))
}

// Schema hints passed to the LLM client for retry-time error messages.
const (
	schemaNameCoreDetails     = "core_details"
	schemaNameCoreLangDetails = "core_language_details"
	schemaNameSenseDetails    = "sense_details"
	schemaNameLinkChains      = "link_chains"
)
