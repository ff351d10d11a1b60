package enricher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkword/linkword-backend/internal/domain"
)

func TestDraftRoundTrip(t *testing.T) {
	t.Parallel()

	original := storedWord(t)
	completeForEnglish(original)

	d := draftFromWord(original)
	now := time.Now().UTC()
	back := d.toWord(now)

	assert.Equal(t, original.WordID, back.WordID)
	assert.Equal(t, original.Headword, back.Headword)
	assert.Equal(t, original.CreatedAt, back.CreatedAt)
	assert.Equal(t, now, back.UpdatedAt)
	require.Len(t, back.Senses, 1)
	assert.Equal(t, original.Senses[0].SenseID, back.Senses[0].SenseID)
	assert.Len(t, back.Senses[0].LinkChainVariations, 2)

	require.NoError(t, domain.ValidateWord(back))
}

func TestDraftFromWord_IsolatedFromSource(t *testing.T) {
	t.Parallel()

	original := storedWord(t)
	completeForEnglish(original)

	d := draftFromWord(original)
	d.Etymology["en"] = "changed"
	d.Senses[0].Translations["en"] = append(d.Senses[0].Translations["en"], domain.Translation{Text: "extra"})

	assert.Equal(t, "From Proto-Malayic.", original.Etymology["en"], "draft edits must not leak back")
	assert.Len(t, original.Senses[0].Translations["en"], 1)
}

func TestToWord_StampsCreatedAtForNewWords(t *testing.T) {
	t.Parallel()

	d := newDraft("makan", "id", nil)
	now := time.Now().UTC()
	w := d.toWord(now)

	assert.Equal(t, now, w.CreatedAt)
	assert.Equal(t, now, w.UpdatedAt)
}

func TestSenseIdentities_SkipsSensesWithoutSourceDefinition(t *testing.T) {
	t.Parallel()

	d := newDraft("makan", "id", nil)
	d.mergeOrCreateSense(SenseIdentity{PartOfSpeech: "verb", BriefDescription: "memasukkan makanan ke mulut"}, "id")
	// A sense carrying only a target-language definition cannot be
	// re-identified and is left out.
	d.Senses = append(d.Senses, &SenseDraft{
		PartOfSpeech: "noun",
		Definitions:  []domain.Definition{{Text: "a meal", Language: "en"}},
	})

	ids := d.senseIdentities("id")
	require.Len(t, ids, 1)
	assert.Equal(t, "verb", ids[0].PartOfSpeech)
}

func TestWorkingSetIdentities_AddsStoredSensesNotNamed(t *testing.T) {
	t.Parallel()

	d := newDraft("makan", "id", nil)
	d.mergeOrCreateSense(SenseIdentity{PartOfSpeech: "verb", BriefDescription: "memasukkan makanan ke mulut"}, "id")

	// A rephrased discovery result covers neither stored sense, so the
	// stored identity is appended after it.
	rephrased := SenseIdentity{PartOfSpeech: "verb", BriefDescription: "mengunyah dan menelan makanan"}
	ids := d.workingSetIdentities([]SenseIdentity{rephrased}, "id")
	require.Len(t, ids, 2)
	assert.Equal(t, rephrased, ids[0])
	assert.Equal(t, "memasukkan makanan ke mulut", ids[1].BriefDescription)

	// An identity matching a stored sense (case and padding aside) is
	// not duplicated.
	named := SenseIdentity{PartOfSpeech: "Verb", BriefDescription: "  memasukkan makanan ke mulut "}
	ids = d.workingSetIdentities([]SenseIdentity{named}, "id")
	require.Len(t, ids, 1)
}

func TestMissingCoreLanguageData(t *testing.T) {
	t.Parallel()

	d := newDraft("makan", "id", nil)
	assert.True(t, d.missingCoreLanguageData("en"))

	d.Etymology["en"] = "x"
	d.Collocations["en"] = []string{}
	d.SemanticRelations["en"] = domain.SemanticRelations{}
	assert.True(t, d.missingCoreLanguageData("en"), "all four maps must have the key")

	d.UsageNotes["en"] = "y"
	assert.False(t, d.missingCoreLanguageData("en"))
	assert.True(t, d.missingCoreLanguageData("pt"))
}

func TestSenseNeedsDetails(t *testing.T) {
	t.Parallel()

	s := &SenseDraft{Translations: map[domain.Language][]domain.Translation{}}
	assert.True(t, senseNeedsDetails(s, "en"))

	s.Translations["en"] = []domain.Translation{{Text: "to eat"}}
	assert.False(t, senseNeedsDetails(s, "en"), "translations alone satisfy the check")

	s2 := &SenseDraft{Definitions: []domain.Definition{{Text: "to eat", Language: "en"}}}
	assert.False(t, senseNeedsDetails(s2, "en"), "a definition alone satisfies the check")
}
