// Package provider wraps text-generation backends used for schema synthesis
// and SQL error coaching. Every backend can be wrapped in a fallback decorator
// so provider trouble degrades to canned payloads instead of failing callers.
package provider

import (
	"context"
	"encoding/json"
	"strings"
)

const (
	SourceClaude   = "claude-api"
	SourceOpenAI   = "openai-compatible"
	SourceFallback = "fallback"
)

// Generation is the outcome of one schema generation request. SQL holds raw
// provider output; sanitizing it is the caller's job. ErrorNote carries the
// provider failure that triggered a fallback, if any.
type Generation struct {
	SQL       string
	Source    string
	Model     string
	ErrorNote string
}

type CoachingRequest struct {
	Schema string
	Query  string
	Error  string
}

type Coaching struct {
	Explanation  string
	SuggestedFix string
	Hints        []string
	Source       string
	ErrorNote    string
}

type Generator interface {
	GenerateSchema(ctx context.Context, prompt string) (Generation, error)
}

type Coach interface {
	ExplainError(ctx context.Context, req CoachingRequest) (Coaching, error)
}

// parseCoaching interprets raw provider text. Text that looks like JSON is
// parsed into the structured shape; anything else (including malformed JSON)
// becomes the explanation verbatim. It never fails.
func parseCoaching(raw string) Coaching {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var parsed struct {
			Explanation  string   `json:"explanation"`
			SuggestedFix string   `json:"suggested_fix"`
			Hints        []string `json:"hints"`
		}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Explanation != "" {
			return Coaching{
				Explanation:  parsed.Explanation,
				SuggestedFix: parsed.SuggestedFix,
				Hints:        parsed.Hints,
			}
		}
	}
	return Coaching{Explanation: trimmed}
}
