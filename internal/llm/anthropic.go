package llm

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicProvider generates completions via the Anthropic Messages API.
type AnthropicProvider struct {
	client       anthropic.Client
	defaultModel string
	maxTokens    int64
}

// NewAnthropicProvider creates a provider with the given API key.
// An empty defaultModel falls back to the package default.
func NewAnthropicProvider(apiKey, defaultModel string) *AnthropicProvider {
	if defaultModel == "" {
		defaultModel = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		defaultModel: defaultModel,
		maxTokens:    4096,
	}
}

func (p *AnthropicProvider) DefaultModel() string { return p.defaultModel }

// Complete sends one user message and returns the first text block of
// the reply. API errors are returned unwrapped so the client can
// classify them by status code.
func (p *AnthropicProvider) Complete(ctx context.Context, model, system, prompt string, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   p.maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
