// Package llm provides a provider-agnostic client for generating
// schema-guided JSON (or plain text) from chat-completion style LLM APIs.
//
// Calls never return half-parsed output: a request either yields a fully
// extracted, schema-checked JSON document, or a *ResultError sentinel
// describing why the last attempt failed and what raw text (if any) the
// provider returned.
package llm

import "fmt"

// FailReason classifies why a generation attempt failed.
type FailReason string

const (
	// Retryable failures.
	ReasonEmptyResponse    FailReason = "empty_response"
	ReasonMalformedJSON    FailReason = "malformed_json"
	ReasonSchemaValidation FailReason = "schema_validation"
	ReasonRateLimited      FailReason = "rate_limited"
	ReasonServerError      FailReason = "server_error"
	ReasonTransport        FailReason = "transport"

	// Non-retryable failures: retrying cannot help, return immediately.
	ReasonAuth            FailReason = "auth"
	ReasonQuota           FailReason = "quota"
	ReasonUnknownProvider FailReason = "unknown_provider"
	ReasonCanceled        FailReason = "canceled"
)

// Retryable reports whether another attempt could plausibly succeed.
func (r FailReason) Retryable() bool {
	switch r {
	case ReasonEmptyResponse, ReasonMalformedJSON, ReasonSchemaValidation,
		ReasonRateLimited, ReasonServerError, ReasonTransport:
		return true
	}
	return false
}

// ResultError is the structured failure returned after retries are
// exhausted (or a non-retryable failure occurs). Callers branch on
// Reason; RawText holds the last raw provider response, empty when no
// text was received.
type ResultError struct {
	Reason  FailReason
	RawText string
	Err     error // underlying cause of the last attempt, may be nil
}

func (e *ResultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("llm %s", e.Reason)
}

func (e *ResultError) Unwrap() error { return e.Err }

// StatusError carries an HTTP status from a provider API so failures can
// be classified without depending on provider-specific error types.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.StatusCode, e.Message)
}
