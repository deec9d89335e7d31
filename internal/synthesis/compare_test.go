// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

func assertCompleteTable(t *testing.T, table types.ComparisonTable) {
	t.Helper()
	require.Len(t, table, len(types.ComparisonAspects))
	for _, aspect := range types.ComparisonAspects {
		cell, ok := table[aspect]
		require.True(t, ok, "missing aspect %q", aspect)
		assert.NotEmpty(t, cell.PaperA, aspect)
		assert.NotEmpty(t, cell.PaperB, aspect)
		assert.NotEmpty(t, cell.Proposed, aspect)
	}
}

func TestComparatorFillsMissingCells(t *testing.T) {
	raw := "```json\n" + `{
  "Task Scalability": {"paper_a": "Tested on three small benchmarks only", "paper_b": "Scales linearly with task count", "proposed": "Scales through shared adapters"},
  "theoretical foundation": {"paper_a": "Formal convergence guarantees provided"},
  "Made Up Aspect": {"paper_a": "x", "paper_b": "y", "proposed": "z"}
}` + "\n```"
	c := NewComparator(reply(raw), nil)

	table, err := c.Compare(context.Background(), types.ParsedDocument{}, types.ParsedDocument{}, nil, nil, DefaultMethod())
	require.NoError(t, err)
	assertCompleteTable(t, table)

	assert.Equal(t, "Scales linearly with task count", table[types.AspectScalability].PaperB)
	assert.Equal(t, "Formal convergence guarantees provided", table[types.AspectTheory].PaperA)
	assert.Equal(t, DefaultAssessment.PaperB, table[types.AspectTheory].PaperB)
	assert.Equal(t, DefaultAssessment, table[types.AspectPractical])
	assert.NotContains(t, table, "Made Up Aspect")
}

func TestComparatorDefaultOnGarbage(t *testing.T) {
	for _, raw := range []string{"I think paper A is better.", `{"unrelated": {"paper_a": "x"}}`} {
		c := NewComparator(reply(raw), nil)
		table, err := c.Compare(context.Background(), types.ParsedDocument{}, types.ParsedDocument{}, nil, nil, DefaultMethod())
		require.NoError(t, err)
		assert.Equal(t, DefaultComparison(), table)
		assertCompleteTable(t, table)
	}
}

func TestComparatorPromptContext(t *testing.T) {
	llm := reply("")
	c := NewComparator(llm, nil)

	b := types.ParsedDocument{Title: ptr("Graph Nets")}
	weakB := []string{"w1", "w2", "w3", "w4", "w5"}
	_, err := c.Compare(context.Background(), types.ParsedDocument{}, b, nil, weakB, DefaultMethod())
	require.NoError(t, err)

	req := llm.calls[0]
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, 2500, req.MaxOutputTokens)
	u := userOf(req)
	assert.Contains(t, u, "Title: Untitled Paper A")
	assert.Contains(t, u, "Key limitations: Not specified")
	assert.Contains(t, u, "Title: Graph Nets")
	assert.Contains(t, u, "Key limitations: w1; w2; w3; w4\n")
	assert.Contains(t, u, `"Practical Applicability": {"paper_a"`)
}

func TestComparatorGenerationError(t *testing.T) {
	c := NewComparator(failing(), nil)
	table, err := c.Compare(context.Background(), types.ParsedDocument{}, types.ParsedDocument{}, nil, nil, DefaultMethod())
	assert.Error(t, err)
	assert.Nil(t, table)
}
