package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/service/words"
)

type fakeWordsService struct {
	enrichFn func(ctx context.Context, req words.EnrichRequest) (*domain.Word, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	lookupFn func(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error)
}

func (f *fakeWordsService) Enrich(ctx context.Context, req words.EnrichRequest) (*domain.Word, error) {
	return f.enrichFn(ctx, req)
}

func (f *fakeWordsService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return f.getFn(ctx, id)
}

func (f *fakeWordsService) GetByHeadword(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error) {
	return f.lookupFn(ctx, headword, lang)
}

func restLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrich_Success(t *testing.T) {
	t.Parallel()

	want := &domain.Word{WordID: uuid.New(), Headword: "makan", Language: "id"}
	var gotReq words.EnrichRequest
	h := NewEnrichHandler(&fakeWordsService{
		enrichFn: func(_ context.Context, req words.EnrichRequest) (*domain.Word, error) {
			gotReq = req
			return want, nil
		},
	}, restLogger())

	body := `{"headword": "makan", "source_lang": "id", "target_lang": "en", "force_reenrich": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Enrich(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "makan", gotReq.Headword)
	assert.True(t, gotReq.ForceReenrich)

	var resp domain.Word
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, want.WordID, resp.WordID)
}

func TestEnrich_BadJSON(t *testing.T) {
	t.Parallel()

	h := NewEnrichHandler(&fakeWordsService{}, restLogger())

	tests := []string{
		`{broken`,
		`{"headword": "x", "surprise_field": 1}`,
	}
	for _, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Enrich(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestEnrich_ValidationFailure(t *testing.T) {
	t.Parallel()

	h := NewEnrichHandler(&fakeWordsService{
		enrichFn: func(_ context.Context, _ words.EnrichRequest) (*domain.Word, error) {
			return nil, domain.NewValidationError("target_lang", "must differ from source_lang")
		},
	}, restLogger())

	body := `{"headword": "makan", "source_lang": "id", "target_lang": "id"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Enrich(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "target_lang", resp.Fields[0].Field)
}

func TestEnrich_PipelineFailure(t *testing.T) {
	t.Parallel()

	h := NewEnrichHandler(&fakeWordsService{
		enrichFn: func(_ context.Context, _ words.EnrichRequest) (*domain.Word, error) {
			return nil, fmt.Errorf("core details: llm server_error")
		},
	}, restLogger())

	body := `{"headword": "makan", "source_lang": "id", "target_lang": "en"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Enrich(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "enrichment failed")
}

func TestGetWord(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	h := NewEnrichHandler(&fakeWordsService{
		getFn: func(_ context.Context, got uuid.UUID) (*domain.Word, error) {
			if got == id {
				return &domain.Word{WordID: id, Headword: "makan"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}, restLogger())

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/words/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()
		h.GetWord(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		other := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/words/"+other.String(), nil)
		req.SetPathValue("id", other.String())
		rec := httptest.NewRecorder()
		h.GetWord(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/words/nope", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		h.GetWord(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLookupWord(t *testing.T) {
	t.Parallel()

	h := NewEnrichHandler(&fakeWordsService{
		lookupFn: func(_ context.Context, headword string, lang domain.Language) (*domain.Word, error) {
			if headword == "makan" && lang == "id" {
				return &domain.Word{Headword: "makan", Language: "id"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}, restLogger())

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/words?headword=makan&language=id", nil)
		rec := httptest.NewRecorder()
		h.LookupWord(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing headword", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/words?language=id", nil)
		rec := httptest.NewRecorder()
		h.LookupWord(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not stored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/words?headword=tidur&language=id", nil)
		rec := httptest.NewRecorder()
		h.LookupWord(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
