package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/ai"
	"github.com/spigell/sponsor-scout/internal/filtering"
	"github.com/spigell/sponsor-scout/internal/jobs"
	"github.com/spigell/sponsor-scout/internal/logger"
	"github.com/spigell/sponsor-scout/internal/output"
	"github.com/spigell/sponsor-scout/internal/profile"
	"github.com/spigell/sponsor-scout/internal/scoring"
	"github.com/spigell/sponsor-scout/internal/sponsors"
)

const (
	PromptYes           = "Yes"
	PromptNo            = "No"
	PromptShowSponsored = "Show sponsored jobs"
	PromptShowMatched   = "Show matched jobs"
	PromptShowAll       = "Show all scored jobs"
	PromptExportMatched = "Export matched jobs"
	PromptExportAll     = "Export all scored jobs"
	PromptExit          = "Exit"

	defaultMatchedFile = "matched_jobs.csv"
	defaultAllFile     = "all_sponsor_jobs.csv"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Verify sponsors for a jobs table and rank the sponsored jobs against a CV",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("jobs-file", "i", "", "CSV file with scraped jobs")
	runCmd.Flags().StringP("cv-file", "c", "", "plain-text CV")
	runCmd.Flags().String("profile-file", "", "structured profile saved by 'profile extract'; used instead of the CV text")
	runCmd.Flags().Bool("structured-profile", false, "extract a structured profile from the CV before scoring")
	runCmd.Flags().Int("min-score", defaultMinimumMatchScore, "minimum match score for a job to count as matched")
	runCmd.Flags().StringP("output", "o", "", "export matched jobs to this .csv or .xlsx file")
	runCmd.Flags().String("output-all", "", "export all scored sponsor jobs to this .csv or .xlsx file")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before scoring")
	runCmd.Flags().Bool("keep-unverified", false, "score jobs from companies not found in the sponsor register too")

	viper.BindPFlag("jobs.file", runCmd.Flags().Lookup("jobs-file"))
	viper.BindPFlag("cv-file", runCmd.Flags().Lookup("cv-file"))
	viper.BindPFlag("scoring.profile-file", runCmd.Flags().Lookup("profile-file"))
	viper.BindPFlag("scoring.structured-profile", runCmd.Flags().Lookup("structured-profile"))
	viper.BindPFlag("scoring.minimum-match-score", runCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("output.matched", runCmd.Flags().Lookup("output"))
	viper.BindPFlag("output.all", runCmd.Flags().Lookup("output-all"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	l, config := setup()
	autoApprove := cmd.Flag("auto-approve").Value.String() == "true"

	if strings.TrimSpace(config.Jobs.File) == "" {
		l.Fatal("jobs file is required", zap.String("hint", "pass --jobs-file or set jobs.file"))
	}

	l = logger.WithRunFields(l, uuid.NewString(), config.Jobs.File, config.Register.URL)
	l.Info("starting the sponsor-scout", zap.String("version", resolveVersion()))

	table, err := jobs.ReadCSVFile(config.Jobs.File)
	if err != nil {
		l.Fatal("reading jobs table", zap.Error(err))
	}
	if table.Len() == 0 {
		l.Info("exiting", zap.String("reason", "no jobs in table"))
		return
	}

	register, err := loadRegister(ctx, newRegisterCache(config.Register, l), l)
	if err != nil {
		l.Fatal("could not load the UK sponsor register", zap.Error(err))
	}

	sponsored, err := verify(ctx, cmd, config, table, register, l)
	if err != nil {
		l.Fatal("verifying sponsors", zap.Error(err))
	}
	if sponsored.Len() == 0 {
		l.Warn("none of the jobs are from verified UK visa sponsors", zap.Int("jobs", table.Len()))
		return
	}

	candidate, judge, err := prepareScoring(ctx, config, l)
	if err != nil {
		l.Fatal("preparing scoring", zap.Error(err))
	}

	if !autoApprove {
		if err := confirm(sponsored); err != nil {
			if errors.Is(err, errExit) {
				l.Info("exiting", zap.String("reason", "got no from prompt"))
				return
			}
			l.Fatal("exiting", zap.Error(err))
		}
	}

	l.Info("scoring sponsored jobs", zap.Int("count", sponsored.Len()), zap.Duration("delay", config.Scoring.Delay))

	pipeline := scoring.NewPipeline(judge, config.Scoring.Delay, l)
	scored, results, err := pipeline.ScoreTable(ctx, candidate, sponsored, func(done, total int) {
		l.Info("scoring job", zap.Int("done", done), zap.Int("total", total))
	})
	if err != nil {
		l.Fatal("scoring jobs", zap.Error(err))
	}
	logFailures(results, l)

	scored = scored.SortByIntDesc(jobs.ColumnMatchScore)
	matched, err := filtering.Run(ctx, filtering.Deps{Logger: l}, []filtering.Filter{
		filtering.NewMinimumScore(config.Scoring.MinimumMatchScore),
	}, scored)
	if err != nil {
		l.Fatal("filtering scored jobs", zap.Error(err))
	}

	present(matched, config.Scoring.MinimumMatchScore, l)

	if err := export(config.Output, matched, scored, l); err != nil {
		l.Fatal("exporting jobs", zap.Error(err))
	}

	if autoApprove {
		return
	}

	for {
		if err := handleAction(matched, scored, l); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			l.Fatal("exiting", zap.Error(err))
		}
	}
}

// verify dedupes, excludes companies and keeps rows from verified sponsors.
func verify(ctx context.Context, cmd *cobra.Command, config *Config, table *jobs.Table, register sponsors.Register, l *zap.Logger) (*jobs.Table, error) {
	deps := filtering.Deps{Logger: l}

	table, err := filtering.Run(ctx, deps, []filtering.Filter{
		filtering.NewDuplicateKey(config.Jobs.DedupeColumn),
		filtering.NewExcludedCompanies(config.Jobs.ExcludeCompanies),
	}, table)
	if err != nil {
		return nil, err
	}
	l.Info("unique jobs", zap.Int("count", table.Len()))

	verified, _, err := sponsors.NewMatcher(l).VerifyTable(table, register)
	if err != nil {
		return nil, err
	}

	steps := []filtering.Filter{filtering.NewVerifiedSponsors()}
	if flag := cmd.Flag("keep-unverified"); flag != nil && flag.Value.String() == "true" {
		filtering.DisableByName(steps, "verified_sponsors", "keep-unverified flag is set")
	}
	for _, status := range filtering.Describe(steps) {
		l.Debug("filter status", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.String("reason", status.Reason))
	}

	return filtering.Run(ctx, deps, steps, verified)
}

func prepareScoring(ctx context.Context, config *Config, l *zap.Logger) (profile.Candidate, ai.Judge, error) {
	judge, err := newJudge(ctx, config.AI.Gemini, l)
	if err != nil {
		return profile.Candidate{}, nil, fmt.Errorf("building gemini judge: %w", err)
	}

	if path := strings.TrimSpace(config.Scoring.ProfileFile); path != "" {
		p, err := profile.ReadFile(path)
		if err != nil {
			return profile.Candidate{}, nil, err
		}
		candidate, err := profile.FromProfile(p)
		return candidate, judge, err
	}

	cv, err := readCV(config.CVFile)
	if err != nil {
		return profile.Candidate{}, nil, err
	}

	if !config.Scoring.StructuredProfile {
		return profile.FromText(cv), judge, nil
	}

	p, err := profile.NewExtractor(judge, l).Extract(ctx, cv)
	if err != nil {
		return profile.Candidate{}, nil, err
	}
	candidate, err := profile.FromProfile(p)
	return candidate, judge, err
}

func confirm(sponsored *jobs.Table) error {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Score %d sponsored jobs with Gemini?", sponsored.Len()),
		Items: []string{PromptYes, PromptNo, PromptShowSponsored},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptYes:
			return nil
		case PromptNo:
			return errExit
		case PromptShowSponsored:
			if err := output.RenderTable(os.Stdout, sponsored, output.Summary(sponsored)); err != nil {
				return err
			}
		}
	}
}

func logFailures(results []scoring.Result, l *zap.Logger) {
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	if failed > 0 {
		l.Warn("some jobs could not be scored", zap.Int("failed", failed), zap.Int("total", len(results)))
	}
}

func present(matched *jobs.Table, minimum int, l *zap.Logger) {
	if matched.Len() == 0 {
		l.Warn("no jobs reached the minimum match score", zap.Int("minimum", minimum))
		return
	}

	l.Info("jobs match your CV", zap.Int("count", matched.Len()), zap.Int("minimum", minimum))
	if err := output.RenderTable(os.Stdout, matched, output.Summary(matched)); err != nil {
		l.Warn("rendering matched jobs", zap.Error(err))
	}
}

func export(cfg *OutputConfig, matched, all *jobs.Table, l *zap.Logger) error {
	for _, target := range []struct {
		path  string
		table *jobs.Table
	}{{cfg.Matched, matched}, {cfg.All, all}} {
		path := strings.TrimSpace(target.path)
		if path == "" {
			continue
		}
		if err := output.WriteFile(path, target.table); err != nil {
			return err
		}
		l.Info("exported jobs", zap.String("filename", path), zap.Int("count", target.table.Len()))
	}
	return nil
}

func handleAction(matched, all *jobs.Table, l *zap.Logger) error {
	prompt := promptui.Select{
		Label: "What next?",
		Items: []string{PromptShowMatched, PromptShowAll, PromptExportMatched, PromptExportAll, PromptExit},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptShowMatched:
		return output.RenderTable(os.Stdout, matched, output.Summary(matched))
	case PromptShowAll:
		return output.RenderTable(os.Stdout, all, output.Summary(all))
	case PromptExportMatched:
		return exportInteractive(matched, defaultMatchedFile, l)
	case PromptExportAll:
		return exportInteractive(all, defaultAllFile, l)
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func exportInteractive(table *jobs.Table, defaultName string, l *zap.Logger) error {
	prompt := promptui.Prompt{
		Label:   "File (.csv or .xlsx)",
		Default: defaultName,
		Validate: func(s string) error {
			lower := strings.ToLower(strings.TrimSpace(s))
			if !strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, ".xlsx") {
				return errors.New("use a .csv or .xlsx file name")
			}
			return nil
		},
	}

	path, err := prompt.Run()
	if err != nil {
		return err
	}

	path = strings.TrimSpace(path)
	if err := output.WriteFile(path, table); err != nil {
		return err
	}
	l.Info("exported jobs", zap.String("filename", path), zap.Int("count", table.Len()))
	return nil
}
