package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/sponsors"
)

var sponsorsCmd = &cobra.Command{
	Use:   "sponsors",
	Short: "Inspect the UK register of licensed worker sponsors",
}

var sponsorsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Download the register and print how many sponsors it lists",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		l, config := setup()

		register, err := loadRegister(context.Background(), newRegisterCache(config.Register, l), l)
		if err != nil {
			l.Fatal("could not load the UK sponsor register", zap.Error(err))
		}

		fmt.Printf("%d licensed sponsors\n", register.Len())
	},
}

var sponsorsCheckCmd = &cobra.Command{
	Use:   "check NAME...",
	Short: "Check company names against the register",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		l, config := setup()

		register, err := loadRegister(context.Background(), newRegisterCache(config.Register, l), l)
		if err != nil {
			l.Fatal("could not load the UK sponsor register", zap.Error(err))
		}

		names := make([]sponsors.CompanyName, len(args))
		for i, arg := range args {
			names[i] = sponsors.CompanyName{Row: i, Raw: arg}
		}

		results := sponsors.NewMatcher(l).Verify(names, register.Names())
		renderChecks(args, results)
	},
}

func init() {
	rootCmd.AddCommand(sponsorsCmd)
	sponsorsCmd.AddCommand(sponsorsCountCmd, sponsorsCheckCmd)

	sponsorsCmd.PersistentFlags().String("register-url", "", "publication page linking the register CSV")
	viper.BindPFlag("register.url", sponsorsCmd.PersistentFlags().Lookup("register-url"))
}

func renderChecks(names []string, results []sponsors.MatchResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Company", "Verified", "Score", "Sponsor"})

	for i, res := range results {
		score := "-"
		if res.Verified {
			score = strconv.Itoa(res.Score)
		}
		tw.AppendRow(table.Row{names[i], res.Verified, score, res.Sponsor})
	}

	tw.AppendFooter(table.Row{"", "", "threshold", sponsors.Threshold})
	tw.Render()
}
