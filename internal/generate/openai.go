// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// API bases for OpenAI-compatible providers. Package-level vars for test substitution.
var (
	groqAPIBase   = "https://api.groq.com/openai/v1"
	openAIAPIBase = "https://api.openai.com/v1"
)

// OpenAIBackend calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIBackend struct {
	// Name labels errors (e.g. "groq").
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends one chat completion request and returns the first choice.
func (b *OpenAIBackend) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       b.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		return "", b.fail(0, fmt.Errorf("marshaling request: %w", err))
	}

	base := b.BaseURL
	if base == "" {
		base = groqAPIBase
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", b.fail(0, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", b.fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", b.fail(resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(msg))))
	}

	var cResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", b.fail(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	if len(cResp.Choices) == 0 {
		return "", b.fail(resp.StatusCode, fmt.Errorf("no choices in response"))
	}
	return cResp.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) fail(status int, err error) error {
	name := b.Name
	if name == "" {
		name = "openai"
	}
	return &GenerationError{Provider: name, StatusCode: status, Err: err}
}
