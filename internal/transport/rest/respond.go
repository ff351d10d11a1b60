package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linkword/linkword-backend/internal/domain"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []FieldErrorPayload `json:"fields,omitempty"`
}

// FieldErrorPayload is one field-level validation failure.
type FieldErrorPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps domain sentinel errors to HTTP statuses.
// Validation failures carry their field list; anything unrecognized is a
// 500 with a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp := ErrorResponse{Error: "validation failed"}
		for _, fe := range verr.Errors {
			resp.Fields = append(resp.Fields, FieldErrorPayload{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
