// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate is the text generation client used by every
// LLM-backed stage. A Client takes an ordered message list, a sampling
// temperature and an output token bound, and returns the completion text.
// Backends: OpenAI-compatible chat completions over raw HTTP (Groq by
// default), the Anthropic Messages API through anthropic-sdk-go, and any
// eino ChatModel.
package generate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a generation request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System returns a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Request is a single generation call.
type Request struct {
	Messages        []Message
	Temperature     float64
	MaxOutputTokens int
}

// Client abstracts the generation service so stages and tests can supply
// their own implementation. Implementations perform no retries; every
// transport, status or decoding failure is returned as *GenerationError.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationError reports a failed generation call. It aborts the
// invocation that issued the call.
type GenerationError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s generation failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[types.Provider]string{
	types.ProviderGroq:      "llama-3.3-70b-versatile",
	types.ProviderOpenAI:    "gpt-4o-mini",
	types.ProviderAnthropic: "claude-sonnet-4-20250514",
	types.ProviderEino:      "gpt-4o-mini",
}

const defaultTimeout = 120 * time.Second

// New builds the Client selected by cfg.Provider. An empty provider means Groq.
func New(ctx context.Context, cfg types.AIConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	if cfg.Provider == "" {
		cfg.Provider = types.ProviderGroq
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModels[cfg.Provider]
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	switch cfg.Provider {
	case types.ProviderGroq, types.ProviderOpenAI:
		base := cfg.BaseURL
		if base == "" {
			base = groqAPIBase
			if cfg.Provider == types.ProviderOpenAI {
				base = openAIAPIBase
			}
		}
		return &OpenAIBackend{
			Name:    string(cfg.Provider),
			BaseURL: base,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Client:  &http.Client{Timeout: timeout},
		}, nil
	case types.ProviderAnthropic:
		return NewAnthropicBackend(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case types.ProviderEino:
		return NewEinoBackend(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)
	}
	return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
}
