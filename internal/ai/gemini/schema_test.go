package gemini

import (
	"reflect"
	"testing"

	"google.golang.org/genai"
)

func TestToSchemaConvertsNestedObjects(t *testing.T) {
	in := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"skills": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"proficiency": map[string]any{"type": "string", "enum": []any{"beginner", "expert"}},
					},
					"required": []any{"name", "proficiency"},
				},
			},
			"match_score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100.0},
		},
		"required": []string{"skills"},
	}

	out, err := toSchema(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Type != genai.TypeObject {
		t.Fatalf("expected object, got %v", out.Type)
	}
	if !reflect.DeepEqual(out.Required, []string{"skills"}) {
		t.Fatalf("unexpected required: %v", out.Required)
	}
	if !reflect.DeepEqual(out.PropertyOrdering, []string{"match_score", "skills"}) {
		t.Fatalf("unexpected ordering: %v", out.PropertyOrdering)
	}

	skills := out.Properties["skills"]
	if skills == nil || skills.Type != genai.TypeArray || skills.Items == nil {
		t.Fatalf("unexpected skills schema: %+v", skills)
	}
	proficiency := skills.Items.Properties["proficiency"]
	if !reflect.DeepEqual(proficiency.Enum, []string{"beginner", "expert"}) {
		t.Fatalf("unexpected enum: %v", proficiency.Enum)
	}

	score := out.Properties["match_score"]
	if score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 100 {
		t.Fatalf("unexpected score bounds: %+v", score)
	}
}

func TestToSchemaRejectsMalformedInput(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown type":      {"type": "tuple"},
		"non-string type":   {"type": 3},
		"bad properties":    {"type": "object", "properties": []string{"a"}},
		"bad property":      {"type": "object", "properties": map[string]any{"a": "string"}},
		"bad required":      {"type": "object", "required": []any{1}},
		"bad items":         {"type": "array", "items": "string"},
		"bad nested schema": {"type": "array", "items": map[string]any{"type": "void"}},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := toSchema(in); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
