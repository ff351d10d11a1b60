package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
)

// Request describes one structured-generation call.
type Request struct {
	Prompt      string
	System      string
	Provider    string // "" uses the client default
	Model       string // "" uses the provider default
	Temperature float64

	// SchemaName and SchemaHint drive the hard JSON instruction appended
	// to the prompt. SchemaCheck, when set, must fully validate the
	// extracted document; a failed check counts as a retryable failure.
	SchemaName  string
	SchemaHint  string
	SchemaCheck func(raw json.RawMessage) error
}

// Provider is one chat-completion backend.
type Provider interface {
	// Complete returns the raw text of a single completion.
	Complete(ctx context.Context, model, system, prompt string, temperature float64) (string, error)
	// DefaultModel is used when the request does not name a model.
	DefaultModel() string
}

// Client routes requests to a named provider and wraps every call with
// JSON extraction, schema checking, and classified retry handling.
type Client struct {
	log             *slog.Logger
	providers       map[string]Provider
	defaultProvider string
	retry           RetryPolicy
}

// NewClient creates a Client with the given providers. The map key is
// the name callers select the provider by (e.g. "anthropic", "deepseek").
func NewClient(log *slog.Logger, providers map[string]Provider, defaultProvider string, retry RetryPolicy) *Client {
	return &Client{
		log:             log.With("component", "llm"),
		providers:       providers,
		defaultProvider: defaultProvider,
		retry:           retry.normalized(),
	}
}

// GenerateJSON runs the request and returns a fully extracted and
// schema-checked JSON document, or the failure sentinel. It never
// returns a partially validated document.
func (c *Client) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, *ResultError) {
	prov, name, rerr := c.resolve(req)
	if rerr != nil {
		return nil, rerr
	}
	model := req.Model
	if model == "" {
		model = prov.DefaultModel()
	}

	prompt := req.Prompt
	if req.SchemaName != "" {
		prompt += schemaInstruction(req.SchemaName, req.SchemaHint)
	}

	var (
		lastReason = ReasonEmptyResponse
		lastRaw    string
		lastErr    error
	)

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			c.log.DebugContext(ctx, "retrying llm call",
				slog.String("provider", name),
				slog.Int("attempt", attempt),
				slog.String("last_reason", string(lastReason)),
			)
			if err := c.retry.wait(ctx, attempt-1); err != nil {
				return nil, &ResultError{Reason: ReasonCanceled, RawText: lastRaw, Err: err}
			}
		}

		text, err := prov.Complete(ctx, model, req.System, prompt, req.Temperature)
		if err != nil {
			reason := classify(err)
			c.log.WarnContext(ctx, "llm call failed",
				slog.String("provider", name),
				slog.String("model", model),
				slog.String("reason", string(reason)),
				slog.String("error", err.Error()),
			)
			if !reason.Retryable() {
				return nil, &ResultError{Reason: reason, RawText: lastRaw, Err: err}
			}
			lastReason, lastErr = reason, err
			continue
		}

		if strings.TrimSpace(text) == "" {
			lastReason, lastRaw, lastErr = ReasonEmptyResponse, text, nil
			continue
		}
		lastRaw = text

		jsonStr, err := ExtractJSON(text)
		if err == nil && !json.Valid([]byte(jsonStr)) {
			err = fmt.Errorf("extracted text is not valid JSON")
		}
		if err != nil {
			lastReason, lastErr = ReasonMalformedJSON, err
			continue
		}

		raw := json.RawMessage(jsonStr)
		if req.SchemaCheck != nil {
			if err := req.SchemaCheck(raw); err != nil {
				c.log.WarnContext(ctx, "llm response failed schema check",
					slog.String("provider", name),
					slog.String("error", err.Error()),
				)
				lastReason, lastErr = ReasonSchemaValidation, err
				continue
			}
		}
		return raw, nil
	}

	return nil, &ResultError{Reason: lastReason, RawText: lastRaw, Err: lastErr}
}

// GenerateText runs the request without any JSON handling and returns
// the raw completion text. Empty responses and transport failures are
// retried under the same policy as GenerateJSON.
func (c *Client) GenerateText(ctx context.Context, req Request) (string, *ResultError) {
	prov, name, rerr := c.resolve(req)
	if rerr != nil {
		return "", rerr
	}
	model := req.Model
	if model == "" {
		model = prov.DefaultModel()
	}

	var (
		lastReason = ReasonEmptyResponse
		lastErr    error
	)
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.retry.wait(ctx, attempt-1); err != nil {
				return "", &ResultError{Reason: ReasonCanceled, Err: err}
			}
		}
		text, err := prov.Complete(ctx, model, req.System, req.Prompt, req.Temperature)
		if err != nil {
			reason := classify(err)
			c.log.WarnContext(ctx, "llm call failed",
				slog.String("provider", name),
				slog.String("reason", string(reason)),
				slog.String("error", err.Error()),
			)
			if !reason.Retryable() {
				return "", &ResultError{Reason: reason, Err: err}
			}
			lastReason, lastErr = reason, err
			continue
		}
		if strings.TrimSpace(text) == "" {
			lastReason, lastErr = ReasonEmptyResponse, nil
			continue
		}
		return text, nil
	}
	return "", &ResultError{Reason: lastReason, Err: lastErr}
}

// ModelFor reports the model a call with the given provider and model
// selection actually runs on: the named model, or the resolved
// provider's default. An unknown provider yields "".
func (c *Client) ModelFor(provider, model string) string {
	if model != "" {
		return model
	}
	name := provider
	if name == "" {
		name = c.defaultProvider
	}
	if prov, ok := c.providers[name]; ok {
		return prov.DefaultModel()
	}
	return ""
}

func (c *Client) resolve(req Request) (Provider, string, *ResultError) {
	name := req.Provider
	if name == "" {
		name = c.defaultProvider
	}
	prov, ok := c.providers[name]
	if !ok {
		return nil, name, &ResultError{
			Reason: ReasonUnknownProvider,
			Err:    fmt.Errorf("no provider registered for %q", name),
		}
	}
	return prov, name, nil
}

func schemaInstruction(name, hint string) string {
	var b strings.Builder
	b.WriteString("\n\nFormat your entire response as a single valid JSON document that strictly matches the ")
	b.WriteString(name)
	b.WriteString(" schema, including all required fields. Do not include any prose, explanation, or markdown fencing outside the JSON itself.")
	if hint != "" {
		b.WriteString("\nThe expected shape is:\n")
		b.WriteString(hint)
	}
	return b.String()
}

// classify maps a provider error to a failure reason. Authentication and
// insufficient-balance failures are terminal; everything else that looks
// like a transient API or network problem is retryable.
func classify(err error) FailReason {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}

	status := 0
	var se *StatusError
	var ae *anthropic.Error
	switch {
	case errors.As(err, &se):
		status = se.StatusCode
	case errors.As(err, &ae):
		status = ae.StatusCode
	}

	switch {
	case status == 401 || status == 403:
		return ReasonAuth
	case status == 402:
		return ReasonQuota
	case status == 429:
		return ReasonRateLimited
	case status >= 500:
		return ReasonServerError
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "unauthorized"):
		return ReasonAuth
	case strings.Contains(msg, "insufficient balance"), strings.Contains(msg, "quota"):
		return ReasonQuota
	}
	return ReasonTransport
}
