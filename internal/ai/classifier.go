package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Classification is the AI service's verdict on a document.
type Classification struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary"`
}

const classifySystemPrompt = "You are a document classification service. " +
	"Given a document name and its text content, respond with a single JSON object " +
	`of the form {"category": string, "tags": [string], "summary": string}. ` +
	"Pick the category from the provided list when one fits, otherwise propose a short new one. " +
	"Use at most 5 tags. Keep the summary under 3 sentences. Respond with JSON only."

const classifyContentLimit = 6000 // runes of content sent to the model

// Classify asks the LLM for a category, tags and summary of the document.
func (c *Client) Classify(ctx context.Context, name, content string, knownCategories []string) (*Classification, error) {
	runes := []rune(content)
	if len(runes) > classifyContentLimit {
		content = string(runes[:classifyContentLimit])
	}

	userContent := fmt.Sprintf("Known categories: %s\n\nDocument name: %s\n\nContent:\n%s",
		strings.Join(knownCategories, ", "), name, content)

	messages := []ChatMessage{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: userContent},
	}
	answer, err := c.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	var result Classification
	if err := json.Unmarshal([]byte(extractJSONObject(answer)), &result); err != nil {
		return nil, fmt.Errorf("parse classification json failed: %w", err)
	}
	return &result, nil
}

// Translate translates text into the target language.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("translation input is empty")
	}

	messages := []ChatMessage{
		{Role: "system", Content: "You are a translation service. Translate the user's text into " +
			targetLanguage + ". Respond with the translation only, no commentary."},
		{Role: "user", Content: text},
	}
	answer, err := c.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// extractJSONObject trims code fences and surrounding prose that models
// sometimes wrap around a JSON answer.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
