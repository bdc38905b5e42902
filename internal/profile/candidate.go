package profile

import (
	"encoding/json"
	"fmt"
)

const (
	cvLabel      = "\n\nCV:\n"
	profileLabel = "\n\nCandidate Profile:\n"
)

// Candidate is what a job is scored against: raw CV text or a structured profile.
type Candidate struct {
	section    string
	structured bool
}

func FromText(text string) Candidate {
	return Candidate{section: cvLabel + text}
}

// FromProfile renders p as indented JSON, the same form Write produces.
func FromProfile(p Profile) (Candidate, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return Candidate{}, fmt.Errorf("marshal profile: %w", err)
	}
	return Candidate{section: profileLabel + string(b), structured: true}, nil
}

// PromptSection is the labelled block placed between the instructions and the job description.
func (c Candidate) PromptSection() string {
	return c.section
}

func (c Candidate) Structured() bool {
	return c.structured
}
