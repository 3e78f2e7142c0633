package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// The actions the suggestion endpoint accepts, mapped to their prompts.
var actionPrompts = map[string]string{
	"expand":    "Suggest child topics that expand on the given mind-map content.",
	"summarize": "Summarize the given mind-map content into a few key points.",
	"connect":   "Suggest relationships between the ideas in the given mind-map content.",
	"question":  "Suggest open questions the given mind-map content raises.",
}

// KnownAction reports whether the suggestion endpoint supports the action.
func KnownAction(action string) bool {
	_, ok := actionPrompts[action]
	return ok
}

const suggestionSystemPrompt = `You are a mind-mapping assistant. Respond with a JSON array only.
Each element must be an object with the string fields "type", "title", "description" and "content".`

func (c *Client) GenerateSuggestions(ctx context.Context, action, contextText string) ([]Suggestion, error) {
	prompt, ok := actionPrompts[action]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", action)
	}

	content, err := c.chat(ctx, suggestionSystemPrompt, prompt+"\n\nContent:\n"+contextText)
	if err != nil {
		return nil, err
	}

	return ParseSuggestions(content)
}

func (c *Client) EnhanceQuery(ctx context.Context, query string) (string, error) {
	enhanced, err := c.chat(ctx,
		"You rewrite search queries to improve semantic recall. Respond with the rewritten query only.",
		query)
	if err != nil {
		return "", err
	}
	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" {
		return query, nil
	}
	return enhanced, nil
}

// ParseSuggestions decodes the model's JSON array, tolerating a fenced
// code block around it.
func ParseSuggestions(content string) ([]Suggestion, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(trimmed), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return suggestions, nil
}
