// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

func TestMinerSectionOrderAndThreshold(t *testing.T) {
	llm := &scriptedClient{respond: func(req generate.Request) (string, error) {
		u := userOf(req)
		switch {
		case strings.Contains(u, "the method section"):
			return "- Method weakness one\n- Method weakness two", nil
		case strings.Contains(u, "the limitations section"):
			return "1. Limitation weakness", nil
		case strings.Contains(u, "the abstract section"):
			return "Overall fine.\n* Abstract weakness", nil
		}
		return "", nil
	}}
	m := NewMiner(llm, nil)

	doc := types.ParsedDocument{
		ID:          "A",
		Method:      ptr(long("The method")),
		Experiments: ptr("too short"),
		Limitations: ptr(long("Limitations")),
		Abstract:    ptr(long("Abstract")),
	}
	got, err := m.Mine(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Method weakness one",
		"Method weakness two",
		"Limitation weakness",
		"Abstract weakness",
	}, got)
	require.Equal(t, 3, llm.callCount(), "short experiments section must be skipped")
	for _, req := range llm.calls {
		assert.Equal(t, 0.4, req.Temperature)
		assert.Equal(t, 1000, req.MaxOutputTokens)
	}
}

func TestMinerExactThreshold(t *testing.T) {
	llm := reply("- something")
	m := NewMiner(llm, nil)

	_, err := m.Mine(context.Background(), types.ParsedDocument{Method: ptr(strings.Repeat("m", 50))})
	require.NoError(t, err)
	assert.Equal(t, 1, llm.callCount(), "a 50 character section is mined")

	llm = reply("- something")
	m = NewMiner(llm, nil)
	_, err = m.Mine(context.Background(), types.ParsedDocument{Method: ptr(strings.Repeat("m", 49))})
	require.NoError(t, err)
	assert.Equal(t, 0, llm.callCount())
}

func TestMinerForcedAbstractPass(t *testing.T) {
	llm := &scriptedClient{respond: func(req generate.Request) (string, error) {
		if systemOf(req) == mineForcedSystem {
			return "- Forced weakness", nil
		}
		return "- none\n- N/A", nil
	}}
	m := NewMiner(llm, nil)

	got, err := m.Mine(context.Background(), types.ParsedDocument{ID: "A", Abstract: ptr("Short abstract.")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Forced weakness"}, got)
	require.Equal(t, 1, llm.callCount())
	assert.Contains(t, userOf(llm.calls[0]), "paper_content")
}

func TestMinerNoAbstractNoForcedPass(t *testing.T) {
	llm := reply("")
	m := NewMiner(llm, nil)

	got, err := m.Mine(context.Background(), types.ParsedDocument{ID: "A"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, llm.callCount())
}

func TestMinerTruncatesSection(t *testing.T) {
	llm := reply("- w")
	m := NewMiner(llm, nil)
	_, err := m.Mine(context.Background(), types.ParsedDocument{Method: ptr(strings.Repeat("m", 3000) + "TAIL")})
	require.NoError(t, err)
	assert.NotContains(t, userOf(llm.calls[0]), "TAIL")
}

func TestMinerGenerationError(t *testing.T) {
	m := NewMiner(failing(), nil)
	_, err := m.Mine(context.Background(), types.ParsedDocument{Method: ptr(long("m"))})
	var gerr *generate.GenerationError
	assert.ErrorAs(t, err, &gerr)
}
