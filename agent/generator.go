package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for price estimates and statement scans.
const DefaultModel = "gemini-2.5-flash"

// generator is the part of genai.Models used for one-shot requests.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("response has no text")
	}
	return sb.String(), nil
}

// generateJSON sends parts to model asking for a JSON answer and decodes it into v.
func generateJSON(ctx context.Context, g generator, model string, schema *genai.Schema, v any, parts ...*genai.Part) error {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := g.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return fmt.Errorf("gemini request failed: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return fmt.Errorf("gemini %s: %w", model, err)
	}
	if err := json.Unmarshal([]byte(stripFence(text)), v); err != nil {
		return fmt.Errorf("cannot decode gemini answer %q: %w", text, err)
	}
	return nil
}

// stripFence removes the markdown code fence models sometimes wrap JSON in.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}
