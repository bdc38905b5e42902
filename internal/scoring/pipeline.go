package scoring

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/ai"
	"github.com/spigell/sponsor-scout/internal/jobs"
	"github.com/spigell/sponsor-scout/internal/profile"
	"github.com/spigell/sponsor-scout/internal/utils"
)

const (
	DefaultDelay = 1500 * time.Millisecond

	NoDescriptionColumn = "No description column in data."
	NoDescription       = "No job description available."
	failurePrefix       = "Scoring failed: "
)

var wait = utils.WaitFor

// Result is the score for one job row. Row is the record index in the scored table.
type Result struct {
	Row        int
	MatchScore int
	Reasoning  string
}

// Failed reports whether the row was judged but the judgement could not be used.
func (r Result) Failed() bool {
	return strings.HasPrefix(r.Reasoning, failurePrefix)
}

// ProgressFunc receives the number of processed rows and the table size.
type ProgressFunc func(done, total int)

// Pipeline scores job rows one at a time against a candidate.
type Pipeline struct {
	judge  ai.Judge
	delay  time.Duration
	logger *zap.Logger
}

func NewPipeline(judge ai.Judge, delay time.Duration, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay < 0 {
		delay = 0
	}
	return &Pipeline{judge: judge, delay: delay, logger: logger}
}

// Score returns exactly one result per row, in row order. Per-row failures become
// zero-score results and never stop the batch. The delay follows every judged row
// except the last one; rows without a description are not judged.
func (p *Pipeline) Score(ctx context.Context, candidate profile.Candidate, table *jobs.Table, onProgress ProgressFunc) []Result {
	records := table.Records()
	total := len(records)
	results := make([]Result, 0, total)

	report := func(done int) {
		if onProgress != nil {
			onProgress(done, total)
		}
	}

	if !table.HasColumn(jobs.ColumnDescription) {
		p.logger.Warn("jobs table has no description column, nothing to score", zap.Int("rows", total))
		for i, r := range records {
			results = append(results, Result{Row: r.Index, Reasoning: NoDescriptionColumn})
			report(i + 1)
		}
		return results
	}

	for i, r := range records {
		description, ok := r.Get(jobs.ColumnDescription)
		if !ok || strings.TrimSpace(description) == "" {
			results = append(results, Result{Row: r.Index, Reasoning: NoDescription})
			report(i + 1)
			continue
		}

		res, err := p.judgeRow(ctx, BuildPrompt(candidate, description))
		if err != nil {
			p.logger.Warn("job scoring failed", zap.Int("row", r.Index), zap.Error(err))
			res = Result{Reasoning: failurePrefix + err.Error()}
		} else {
			p.logger.Debug("job scored", zap.Int("row", r.Index), zap.Int("match_score", res.MatchScore))
		}
		res.Row = r.Index
		results = append(results, res)
		report(i + 1)

		if i < total-1 {
			if err := wait(ctx, p.delay); err != nil {
				p.logger.Debug("rate limit delay interrupted", zap.Error(err))
			}
		}
	}

	return results
}

func (p *Pipeline) judgeRow(ctx context.Context, prompt string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("judge panicked: %v", r)
		}
	}()

	raw, err := p.judge.Invoke(ctx, prompt, ScoreSchema.Doc())
	if err != nil {
		return Result{}, err
	}

	fields, err := ScoreSchema.Decode(raw)
	if err != nil {
		return Result{}, err
	}

	score, ok := fields["match_score"].(float64)
	if !ok {
		return Result{}, errors.New("match_score is not a number")
	}
	reasoning, ok := fields["reasoning"].(string)
	if !ok {
		return Result{}, errors.New("reasoning is not a string")
	}

	return Result{MatchScore: int(score), Reasoning: reasoning}, nil
}

// ScoreTable returns a copy of table with match_score and reasoning columns.
func (p *Pipeline) ScoreTable(ctx context.Context, candidate profile.Candidate, table *jobs.Table, onProgress ProgressFunc) (*jobs.Table, []Result, error) {
	results := p.Score(ctx, candidate, table, onProgress)

	scores := make([]string, len(results))
	reasons := make([]string, len(results))
	for i, res := range results {
		scores[i] = strconv.Itoa(res.MatchScore)
		reasons[i] = res.Reasoning
	}

	out, err := table.WithColumn(jobs.ColumnMatchScore, scores)
	if err != nil {
		return nil, nil, fmt.Errorf("add score column: %w", err)
	}
	out, err = out.WithColumn(jobs.ColumnReasoning, reasons)
	if err != nil {
		return nil, nil, fmt.Errorf("add reasoning column: %w", err)
	}

	return out, results, nil
}
