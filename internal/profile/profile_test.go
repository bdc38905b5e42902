package profile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/sponsor-scout/internal/ai"
)

const validReply = `{
  "skills": [{"name": "Go", "proficiency": "expert"}, {"name": "Kubernetes", "proficiency": "advanced"}],
  "seniority_level": "senior",
  "total_years_experience": 8,
  "industries": ["fintech"],
  "education": {"degree_level": "BSc", "field": "Computer Science"},
  "job_titles": ["Senior Engineer", "Engineer"]
}`

func stubJudge(reply string, err error, prompts *[]string) ai.Judge {
	return ai.JudgeFunc(func(_ context.Context, prompt string, schema map[string]any) (string, error) {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		if schema == nil {
			return "", errors.New("schema is required")
		}
		return reply, err
	})
}

func TestExtractReturnsProfile(t *testing.T) {
	var prompts []string
	extractor := NewExtractor(stubJudge(validReply, nil, &prompts), nil)

	p, err := extractor.Extract(context.Background(), "Jane Doe, Go developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Profile{
		Skills:               []Skill{{Name: "Go", Proficiency: "expert"}, {Name: "Kubernetes", Proficiency: "advanced"}},
		SeniorityLevel:       "senior",
		TotalYearsExperience: 8,
		Industries:           []string{"fintech"},
		Education:            Education{DegreeLevel: "BSc", Field: "Computer Science"},
		JobTitles:            []string{"Senior Engineer", "Engineer"},
	}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("unexpected profile:\n%+v\nwant\n%+v", p, want)
	}

	if len(prompts) != 1 {
		t.Fatalf("expected a single call, got %d", len(prompts))
	}
	if prompts[0] != ExtractionPrompt+"Jane Doe, Go developer" {
		t.Fatalf("unexpected prompt: %q", prompts[0])
	}
}

func TestExtractRejectsInvalidReplies(t *testing.T) {
	cases := map[string]string{
		"not json":        "Sorry, I cannot help with that.",
		"missing field":   `{"skills": [], "seniority_level": "mid", "total_years_experience": 2, "industries": [], "education": {"degree_level": "", "field": ""}}`,
		"unknown level":   strings.Replace(validReply, `"senior"`, `"staff"`, 1),
		"fractional year": strings.Replace(validReply, `8`, `8.5`, 1),
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewExtractor(stubJudge(reply, nil, nil), nil).Extract(context.Background(), "cv")
			if !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestExtractPropagatesJudgeErrors(t *testing.T) {
	apiErr := errors.New("network down")
	_, err := NewExtractor(stubJudge("", apiErr, nil), nil).Extract(context.Background(), "cv")

	if !errors.Is(err, apiErr) {
		t.Fatalf("expected judge error, got %v", err)
	}
	if errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("judge errors must not be reported as invalid profiles")
	}
}

func TestExtractRejectsEmptyCV(t *testing.T) {
	var prompts []string
	_, err := NewExtractor(stubJudge(validReply, nil, &prompts), nil).Extract(context.Background(), "  \n")
	if err == nil {
		t.Fatal("expected error for empty cv")
	}
	if len(prompts) != 0 {
		t.Fatal("judge must not be called for empty cv")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	p, err := NewExtractor(stubJudge(validReply, nil, nil), nil).Extract(context.Background(), "cv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("profile changed on disk:\n%+v\nwant\n%+v", got, p)
	}
}

func TestReadFileRejectsInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(`{"skills": []}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ReadFile(path); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestCandidatePromptSection(t *testing.T) {
	text := FromText("Senior Go engineer {{ not a template }}")
	if text.Structured() {
		t.Fatal("text candidate reported as structured")
	}
	if text.PromptSection() != "\n\nCV:\nSenior Go engineer {{ not a template }}" {
		t.Fatalf("unexpected text section: %q", text.PromptSection())
	}

	structured, err := FromProfile(Profile{SeniorityLevel: "lead", Skills: []Skill{{Name: "Go", Proficiency: "expert"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !structured.Structured() {
		t.Fatal("profile candidate not reported as structured")
	}
	section := structured.PromptSection()
	if !strings.HasPrefix(section, "\n\nCandidate Profile:\n{\n  \"skills\": [") {
		t.Fatalf("unexpected profile section: %q", section)
	}
	if !strings.Contains(section, `"seniority_level": "lead"`) {
		t.Fatalf("seniority missing from section: %q", section)
	}
}
