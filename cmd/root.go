package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/sponsor-scout/internal/ai/gemini"
	"github.com/spigell/sponsor-scout/internal/jobs"
	"github.com/spigell/sponsor-scout/internal/scoring"
	"github.com/spigell/sponsor-scout/internal/sponsors"
)

const (
	app = "sponsor-scout"

	defaultMinimumMatchScore = 70
	defaultMaxLogLength      = 200
	apiKeyEnv                = "GEMINI_API_KEY"
)

type Config struct {
	Register *RegisterConfig `mapstructure:"register"`
	Jobs     *JobsConfig     `mapstructure:"jobs"`
	AI       *AIConfig       `mapstructure:"ai"`
	Scoring  *ScoringConfig  `mapstructure:"scoring"`
	CVFile   string          `mapstructure:"cv-file"`
	Output   *OutputConfig   `mapstructure:"output"`
}

type RegisterConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

type JobsConfig struct {
	File             string   `mapstructure:"file"`
	DedupeColumn     string   `mapstructure:"dedupe-column"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ScoringConfig struct {
	Delay             time.Duration `mapstructure:"delay"`
	MinimumMatchScore int           `mapstructure:"minimum-match-score"`
	StructuredProfile bool          `mapstructure:"structured-profile"`
	ProfileFile       string        `mapstructure:"profile-file"`
}

type OutputConfig struct {
	Matched string `mapstructure:"matched"`
	All     string `mapstructure:"all"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "sponsor-scout finds jobs at UK visa sponsors and ranks them against your CV",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is sponsor-scout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("register.url", sponsors.DefaultIndexURL)
	viper.SetDefault("register.timeout", sponsors.DefaultTimeout)
	viper.SetDefault("jobs.dedupe-column", jobs.ColumnJobURL)
	viper.SetDefault("ai.gemini.model", gemini.DefaultModel)
	viper.SetDefault("ai.gemini.max-log-length", defaultMaxLogLength)
	viper.SetDefault("scoring.delay", scoring.DefaultDelay)
	viper.SetDefault("scoring.minimum-match-score", defaultMinimumMatchScore)
}

func initConfig() {
	viper.SetEnvPrefix(strings.ReplaceAll(app, "-", "_"))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config file is fine, everything has a default or a flag.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Register == nil {
		config.Register = &RegisterConfig{}
	}
	if config.Jobs == nil {
		config.Jobs = &JobsConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}

	return config, nil
}
