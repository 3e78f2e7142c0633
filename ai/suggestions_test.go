package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions_PlainJSON(t *testing.T) {
	suggestions, err := ParseSuggestions(`[
		{"type": "child", "title": "Budget", "description": "Costs", "content": "Estimate the budget"}
	]`)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "child", suggestions[0].Type)
	assert.Equal(t, "Budget", suggestions[0].Title)
}

func TestParseSuggestions_FencedCodeBlock(t *testing.T) {
	content := "```json\n[{\"type\": \"question\", \"title\": \"Why?\", \"description\": \"\", \"content\": \"Ask why\"}]\n```"

	suggestions, err := ParseSuggestions(content)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "question", suggestions[0].Type)
}

func TestParseSuggestions_BareFence(t *testing.T) {
	content := "```\n[]\n```"

	suggestions, err := ParseSuggestions(content)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestParseSuggestions_InvalidJSON(t *testing.T) {
	_, err := ParseSuggestions("the model rambled instead of returning JSON")
	assert.Error(t, err)
}

func TestKnownAction(t *testing.T) {
	assert.True(t, KnownAction("expand"))
	assert.True(t, KnownAction("summarize"))
	assert.True(t, KnownAction("connect"))
	assert.True(t, KnownAction("question"))
	assert.False(t, KnownAction("hack"))
	assert.False(t, KnownAction(""))
}
