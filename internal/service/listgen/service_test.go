package listgen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/llm"
)

type fakeListRepo struct {
	created *domain.GeneratedWordList
	lists   map[uuid.UUID]*domain.GeneratedWordList
}

func (f *fakeListRepo) Create(_ context.Context, l *domain.GeneratedWordList) (*domain.GeneratedWordList, error) {
	f.created = l
	return l, nil
}
func (f *fakeListRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.GeneratedWordList, error) {
	if l, ok := f.lists[id]; ok {
		return l, nil
	}
	return nil, domain.ErrNotFound
}
func (f *fakeListRepo) List(_ context.Context, _ domain.ListFilter) ([]domain.GeneratedWordList, error) {
	return nil, nil
}
func (f *fakeListRepo) UpdateReview(_ context.Context, id uuid.UUID, status domain.ListStatus, notes *string) (*domain.GeneratedWordList, error) {
	return &domain.GeneratedWordList{ID: id, Status: status, AdminNotes: notes}, nil
}
func (f *fakeListRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type fakeNamer struct {
	categories map[string]*domain.Category
}

func (f *fakeNamer) GetByID(_ context.Context, id string) (*domain.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

type fakeTextGen struct {
	text      string
	err       *llm.ResultError
	gotPrompt string
}

func (f *fakeTextGen) GenerateText(_ context.Context, req llm.Request) (string, *llm.ResultError) {
	f.gotPrompt = req.Prompt
	return f.text, f.err
}

func writeInstruction(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestService(t *testing.T, gen *fakeTextGen) (*Service, *fakeListRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo := &fakeListRepo{lists: map[uuid.UUID]*domain.GeneratedWordList{}}
	namer := &fakeNamer{categories: map[string]*domain.Category{
		"food": {CategoryID: "food", DisplayName: map[domain.Language]string{"en": "Food & Drink"}},
	}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, repo, namer, gen, dir, 0.7), repo, dir
}

func baseRequest() GenerateRequest {
	return GenerateRequest{
		Language:            "id",
		CEFRLevel:           "A1",
		RequestedWordCount:  10,
		BaseInstructionFile: "base.txt",
	}
}

func TestGenerate_JSONObjectReply(t *testing.T) {
	t.Parallel()

	gen := &fakeTextGen{text: `Here you go:
[{"headword": "makan", "notes": "very common"}, {"headword": "minum"}]`}
	svc, repo, dir := newTestService(t, gen)
	writeInstruction(t, dir, "base.txt", "Generate {{word_count}} {{language}} words at {{cefr_level}}.")

	list, err := svc.Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ListStatusReview, list.Status)
	assert.Equal(t, 2, list.GeneratedWordCount)
	require.Len(t, list.Words, 2)
	assert.Equal(t, "makan", list.Words[0].Headword)
	require.NotNil(t, list.Words[0].Notes)
	assert.Equal(t, "very common", *list.Words[0].Notes)

	assert.Contains(t, list.PromptTextSent, "Generate 10 id words at A1.")
	assert.NotEmpty(t, list.ReadableID)
	assert.Same(t, list, repo.created)
}

func TestGenerate_PlainLinesFallback(t *testing.T) {
	t.Parallel()

	gen := &fakeTextGen{text: "1. makan\n2. minum\n- tidur\n\n"}
	svc, _, dir := newTestService(t, gen)
	writeInstruction(t, dir, "base.txt", "words please")

	list, err := svc.Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, list.Words, 3)
	assert.Equal(t, "makan", list.Words[0].Headword)
	assert.Equal(t, "tidur", list.Words[2].Headword)
}

func TestGenerate_LLMFailurePersistsErrorList(t *testing.T) {
	t.Parallel()

	gen := &fakeTextGen{err: &llm.ResultError{Reason: llm.ReasonQuota, Err: fmt.Errorf("insufficient balance")}}
	svc, repo, dir := newTestService(t, gen)
	writeInstruction(t, dir, "base.txt", "words please")

	list, err := svc.Generate(context.Background(), baseRequest())
	require.NoError(t, err, "a failed call still persists an auditable list")

	assert.Equal(t, domain.ListStatusError, list.Status)
	require.NotNil(t, list.AdminNotes)
	assert.Contains(t, *list.AdminNotes, "quota")
	assert.NotNil(t, repo.created)
}

func TestGenerate_CategoryNameSubstituted(t *testing.T) {
	t.Parallel()

	gen := &fakeTextGen{text: `["makan"]`}
	svc, _, dir := newTestService(t, gen)
	writeInstruction(t, dir, "base.txt", "Topic: {{category}}")

	req := baseRequest()
	cat := "food"
	req.ListCategoryID = &cat

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, gen.gotPrompt, "Topic: Food & Drink")
}

func TestGenerate_UnknownCategoryFallsBackToSlug(t *testing.T) {
	t.Parallel()

	gen := &fakeTextGen{text: `["makan"]`}
	svc, _, dir := newTestService(t, gen)
	writeInstruction(t, dir, "base.txt", "Topic: {{category}}")

	req := baseRequest()
	cat := "unknown-slug"
	req.ListCategoryID = &cat

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, gen.gotPrompt, "Topic: unknown-slug")
}

func TestGenerate_CustomInstructionAndRefinements(t *testing.T) {
	t.Parallel()

	gen := &fakeTextGen{text: `["makan"]`}
	svc, _, dir := newTestService(t, gen)
	writeInstruction(t, dir, "base.txt", "base part")
	writeInstruction(t, dir, "custom.txt", "custom part")

	req := baseRequest()
	req.CustomInstructionFile = "custom.txt"
	req.Refinements = "avoid loanwords"

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, gen.gotPrompt, "base part\n\ncustom part\n\navoid loanwords")
}

func TestGenerate_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, &fakeTextGen{text: `["x"]`})

	req := baseRequest()
	req.BaseInstructionFile = "../../etc/passwd"

	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerate_ValidatesRequest(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, &fakeTextGen{})

	tests := []struct {
		name   string
		mutate func(r *GenerateRequest)
	}{
		{"bad language", func(r *GenerateRequest) { r.Language = "indonesian" }},
		{"zero word count", func(r *GenerateRequest) { r.RequestedWordCount = 0 }},
		{"missing base file", func(r *GenerateRequest) { r.BaseInstructionFile = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			_, err := svc.Generate(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestReview_ValidatesStatus(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, &fakeTextGen{})

	list, err := svc.Review(context.Background(), uuid.New(), domain.ListStatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ListStatusApproved, list.Status)

	_, err = svc.Review(context.Background(), uuid.New(), "published", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseWordItems(t *testing.T) {
	t.Parallel()

	t.Run("string array", func(t *testing.T) {
		items := parseWordItems(`["makan", " minum ", ""]`)
		require.Len(t, items, 2)
		assert.Equal(t, "minum", items[1].Headword)
	})

	t.Run("word key accepted", func(t *testing.T) {
		items := parseWordItems(`[{"word": "makan"}]`)
		require.Len(t, items, 1)
		assert.Equal(t, "makan", items[0].Headword)
	})

	t.Run("numbered lines", func(t *testing.T) {
		items := parseWordItems("10. makan\n* minum")
		require.Len(t, items, 2)
		assert.Equal(t, "makan", items[0].Headword)
		assert.Equal(t, "minum", items[1].Headword)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, parseWordItems(""))
	})
}
