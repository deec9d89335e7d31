// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"strings"
	"sync"

	"github.com/pdiddy/ideation-engine/internal/generate"
)

// scriptedClient answers generation requests from a function and records them.
type scriptedClient struct {
	mu      sync.Mutex
	calls   []generate.Request
	respond func(req generate.Request) (string, error)
}

func (c *scriptedClient) Generate(_ context.Context, req generate.Request) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.mu.Unlock()
	return c.respond(req)
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// reply returns a client that always answers text.
func reply(text string) *scriptedClient {
	return &scriptedClient{respond: func(generate.Request) (string, error) { return text, nil }}
}

// failing returns a client whose every call fails.
func failing() *scriptedClient {
	return &scriptedClient{respond: func(generate.Request) (string, error) {
		return "", &generate.GenerationError{Provider: "fake", StatusCode: 503}
	}}
}

// bySystem routes requests on their system prompt.
func bySystem(routes map[string]string) *scriptedClient {
	return &scriptedClient{respond: func(req generate.Request) (string, error) {
		return routes[systemOf(req)], nil
	}}
}

func systemOf(req generate.Request) string {
	for _, m := range req.Messages {
		if m.Role == generate.RoleSystem {
			return m.Content
		}
	}
	return ""
}

func userOf(req generate.Request) string {
	for _, m := range req.Messages {
		if m.Role == generate.RoleUser {
			return m.Content
		}
	}
	return ""
}

func ptr(s string) *string { return &s }

func long(s string) string {
	return s + strings.Repeat(" with enough detail to be mined", 3)
}
