// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicMessager is the subset of the SDK messages service used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicBackend calls the Anthropic Messages API through the official SDK.
type AnthropicBackend struct {
	messages AnthropicMessager
	model    string
}

// NewAnthropicBackend builds a backend for apiKey. baseURL may be empty.
func NewAnthropicBackend(apiKey, model, baseURL string) *AnthropicBackend {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := anthropic.NewClient(opts...)
	return &AnthropicBackend{messages: &c.Messages, model: model}
}

// Generate maps system messages to the system prompt and the rest to turns.
func (b *AnthropicBackend) Generate(ctx context.Context, req Request) (string, error) {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	resp, err := b.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   int64(req.MaxOutputTokens),
		System:      system,
		Messages:    turns,
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		gerr := &GenerationError{Provider: "anthropic", Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			gerr.StatusCode = apiErr.StatusCode
		}
		return "", gerr
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &GenerationError{Provider: "anthropic", Err: errors.New("no text content in response")}
	}
	return sb.String(), nil
}
