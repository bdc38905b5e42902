package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/sponsor-scout/internal/ai"
)

var (
	Proficiencies   = []string{"beginner", "intermediate", "advanced", "expert"}
	SeniorityLevels = []string{"junior", "mid", "senior", "lead", "principal"}
)

type Skill struct {
	Name        string `mapstructure:"name" json:"name"`
	Proficiency string `mapstructure:"proficiency" json:"proficiency"`
}

type Education struct {
	DegreeLevel string `mapstructure:"degree_level" json:"degree_level"`
	Field       string `mapstructure:"field" json:"field"`
}

// Profile is the structured form of a CV.
type Profile struct {
	Skills               []Skill   `mapstructure:"skills" json:"skills"`
	SeniorityLevel       string    `mapstructure:"seniority_level" json:"seniority_level"`
	TotalYearsExperience int       `mapstructure:"total_years_experience" json:"total_years_experience"`
	Industries           []string  `mapstructure:"industries" json:"industries"`
	Education            Education `mapstructure:"education" json:"education"`
	JobTitles            []string  `mapstructure:"job_titles" json:"job_titles"`
}

var Schema = ai.MustCompileSchema(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": "string"},
					"proficiency": map[string]any{"type": "string", "enum": Proficiencies},
				},
				"required": []string{"name", "proficiency"},
			},
		},
		"seniority_level":        map[string]any{"type": "string", "enum": SeniorityLevels},
		"total_years_experience": map[string]any{"type": "integer"},
		"industries": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"education": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"degree_level": map[string]any{"type": "string"},
				"field":        map[string]any{"type": "string"},
			},
			"required": []string{"degree_level", "field"},
		},
		"job_titles": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []string{
		"skills",
		"seniority_level",
		"total_years_experience",
		"industries",
		"education",
		"job_titles",
	},
})

func decode(data map[string]any) (Profile, error) {
	var p Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &p,
		TagName: "mapstructure",
	})
	if err != nil {
		return Profile{}, fmt.Errorf("create profile decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// Write stores p as indented JSON.
func Write(w io.Writer, p Profile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// ReadFile loads a profile saved by Write, validating it like an extracted one.
func ReadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile file %q: %w", path, err)
	}

	fields, err := Schema.Decode(string(data))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return decode(fields)
}
