package ai

import (
	"context"
	"strings"
)

// Judge sends a prompt to a language model and returns its raw reply. The schema
// is a JSON Schema object describing the structured reply the caller expects.
type Judge interface {
	Invoke(ctx context.Context, prompt string, schema map[string]any) (string, error)
}

// JudgeFunc adapts a plain function to Judge.
type JudgeFunc func(ctx context.Context, prompt string, schema map[string]any) (string, error)

func (f JudgeFunc) Invoke(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	return f(ctx, prompt, schema)
}

// ExtractJSON strips markdown code fences models like to wrap JSON replies in.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
