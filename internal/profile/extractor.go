package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/ai"
)

// ErrInvalidProfile is returned when the model reply is not a usable profile.
var ErrInvalidProfile = errors.New("invalid profile")

const ExtractionPrompt = `You are a senior technical recruiter. Analyse the following CV and extract a structured profile.

Instructions:
1. List ALL technical and professional skills mentioned or clearly implied. For each skill, assess proficiency as beginner/intermediate/advanced/expert based on years used, depth of work described, and context.
2. Determine the candidate's overall seniority level (junior/mid/senior/lead/principal) from their most recent roles, scope of responsibility, and total experience.
3. Calculate total years of professional experience from the earliest to most recent role.
4. Identify industries the candidate has worked in (e.g. fintech, healthcare, e-commerce).
5. Extract the highest level of education and its field.
6. List up to 5 most recent job titles, newest first.

CV:
`

// Extractor turns CV text into a Profile with a single model call.
type Extractor struct {
	judge  ai.Judge
	logger *zap.Logger
}

func NewExtractor(judge ai.Judge, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{judge: judge, logger: logger}
}

// Extract returns ErrInvalidProfile for replies that are not JSON or miss required
// fields. Judge errors are returned as they are.
func (e *Extractor) Extract(ctx context.Context, cvText string) (Profile, error) {
	if strings.TrimSpace(cvText) == "" {
		return Profile{}, errors.New("cv text is empty")
	}

	raw, err := e.judge.Invoke(ctx, ExtractionPrompt+cvText, Schema.Doc())
	if err != nil {
		return Profile{}, fmt.Errorf("extract profile: %w", err)
	}

	fields, err := Schema.Decode(raw)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	p, err := decode(fields)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	e.logger.Info("profile extracted",
		zap.String("seniority", p.SeniorityLevel),
		zap.Int("skills", len(p.Skills)),
		zap.Int("years", p.TotalYearsExperience),
	)

	return p, nil
}
