package words

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/enricher"
	"github.com/linkword/linkword-backend/pkg/ctxutil"
)

type fakePipeline struct {
	gotInput enricher.Input
	word     *domain.Word
	err      error
}

func (f *fakePipeline) Run(_ context.Context, in enricher.Input) (*domain.Word, error) {
	f.gotInput = in
	return f.word, f.err
}

type fakeWordRepo struct {
	byID       map[uuid.UUID]*domain.Word
	byHeadword map[string]*domain.Word
}

func (f *fakeWordRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	if w, ok := f.byID[id]; ok {
		return w, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeWordRepo) FindByHeadwordAndLanguage(_ context.Context, headword string, _ domain.Language) (*domain.Word, error) {
	if w, ok := f.byHeadword[headword]; ok {
		return w, nil
	}
	return nil, domain.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrich_BatchTaggedWithRequestID(t *testing.T) {
	t.Parallel()

	want := &domain.Word{WordID: uuid.New(), Headword: "makan"}
	p := &fakePipeline{word: want}
	svc := NewService(testLogger(), p, &fakeWordRepo{})

	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	got, err := svc.Enrich(ctx, EnrichRequest{
		Headword: "makan", SourceLang: "id", TargetLang: "en", ForceReenrich: true,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "api-enrich-req-123", p.gotInput.Batch)
	assert.True(t, p.gotInput.ForceReenrich)
}

func TestEnrich_GeneratesBatchWithoutRequestID(t *testing.T) {
	t.Parallel()

	p := &fakePipeline{word: &domain.Word{}}
	svc := NewService(testLogger(), p, &fakeWordRepo{})

	_, err := svc.Enrich(context.Background(), EnrichRequest{
		Headword: "makan", SourceLang: "id", TargetLang: "en",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "api-enrich-", p.gotInput.Batch)
	assert.Contains(t, p.gotInput.Batch, "api-enrich-")
}

func TestEnrich_PipesErrorsThrough(t *testing.T) {
	t.Parallel()

	p := &fakePipeline{err: domain.NewValidationError("headword", "must not be empty")}
	svc := NewService(testLogger(), p, &fakeWordRepo{})

	_, err := svc.Enrich(context.Background(), EnrichRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetByHeadword_ValidatesLanguage(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &fakePipeline{}, &fakeWordRepo{
		byHeadword: map[string]*domain.Word{"makan": {Headword: "makan"}},
	})

	got, err := svc.GetByHeadword(context.Background(), "makan", "id")
	require.NoError(t, err)
	assert.Equal(t, "makan", got.Headword)

	_, err = svc.GetByHeadword(context.Background(), "makan", "indonesian")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &fakePipeline{}, &fakeWordRepo{})
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
