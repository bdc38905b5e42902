package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Work with structured candidate profiles",
}

var profileExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a structured profile from a CV with Gemini",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		l, config := setup()

		cvPath := cmd.Flag("cv-file").Value.String()
		if cvPath == "" {
			cvPath = config.CVFile
		}
		cv, err := readCV(cvPath)
		if err != nil {
			l.Fatal("reading cv", zap.Error(err))
		}

		judge, err := newJudge(ctx, config.AI.Gemini, l)
		if err != nil {
			l.Fatal("building gemini judge", zap.Error(err))
		}

		p, err := profile.NewExtractor(judge, l).Extract(ctx, cv)
		if err != nil {
			l.Fatal("extracting profile", zap.Error(err))
		}

		path := strings.TrimSpace(cmd.Flag("output").Value.String())
		if err := writeProfile(path, p); err != nil {
			l.Fatal("writing profile", zap.Error(err))
		}
		if path != "" {
			l.Info("saved profile", zap.String("filename", path), zap.Int("skills", len(p.Skills)))
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileExtractCmd)

	profileExtractCmd.Flags().StringP("cv-file", "c", "", "plain-text CV")
	profileExtractCmd.Flags().StringP("output", "o", "", "write the profile as JSON to this file (default is stdout)")
}

func writeProfile(path string, p profile.Profile) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return profile.Write(w, p)
}
