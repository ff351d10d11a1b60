package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkword/linkword-backend/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	incomingID := uuid.New().String()

	var gotID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = ctxutil.RequestIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", incomingID)
	rec := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rec, req)

	assert.Equal(t, incomingID, gotID)
	assert.Equal(t, incomingID, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_GenerateNew(t *testing.T) {
	var gotID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = ctxutil.RequestIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, gotID)
	_, err := uuid.Parse(gotID)
	assert.NoError(t, err, "generated request id should be a UUID")
	assert.Equal(t, gotID, rec.Header().Get("X-Request-Id"))
}
