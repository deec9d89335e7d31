// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoBackend adapts an eino chat model to Client.
type EinoBackend struct {
	chatModel model.BaseChatModel
}

// NewEinoBackend builds an eino OpenAI chat model. baseURL may point at any
// OpenAI-compatible service.
func NewEinoBackend(ctx context.Context, apiKey, modelName, baseURL string, timeout time.Duration) (*EinoBackend, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
		Timeout: timeout,
	})
	if err != nil {
		return nil, &GenerationError{Provider: "eino", Err: err}
	}
	return &EinoBackend{chatModel: cm}, nil
}

// NewEinoBackendFromModel wraps an existing chat model.
func NewEinoBackendFromModel(cm model.BaseChatModel) *EinoBackend {
	return &EinoBackend{chatModel: cm}
}

// Generate converts messages to eino schema messages and calls the model.
func (b *EinoBackend) Generate(ctx context.Context, req Request) (string, error) {
	msgs := make([]*schema.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := schema.User
		switch m.Role {
		case RoleSystem:
			role = schema.System
		case RoleAssistant:
			role = schema.Assistant
		}
		msgs = append(msgs, &schema.Message{Role: role, Content: m.Content})
	}

	resp, err := b.chatModel.Generate(ctx, msgs,
		model.WithTemperature(float32(req.Temperature)),
		model.WithMaxTokens(req.MaxOutputTokens),
	)
	if err != nil {
		return "", &GenerationError{Provider: "eino", Err: err}
	}
	if resp == nil {
		return "", &GenerationError{Provider: "eino", Err: errors.New("empty response")}
	}
	return resp.Content, nil
}
