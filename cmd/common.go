package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/ai"
	"github.com/spigell/sponsor-scout/internal/ai/gemini"
	"github.com/spigell/sponsor-scout/internal/logger"
	"github.com/spigell/sponsor-scout/internal/secrets"
	"github.com/spigell/sponsor-scout/internal/sponsors"
)

const providerGemini = "gemini"

// setup builds the logger and reads the config. Failures are fatal.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	return l, config
}

func newRegisterCache(cfg *RegisterConfig, l *zap.Logger) *sponsors.Cache {
	loader := sponsors.NewLoader(l)
	if u := strings.TrimSpace(cfg.URL); u != "" {
		loader.IndexURL = u
	}
	if cfg.Timeout > 0 {
		loader.IndexTimeout = cfg.Timeout
	}
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		loader.UserAgent = ua
	}
	return sponsors.NewCache(loader, l)
}

// loadRegister returns the register or an error when it cannot be used.
func loadRegister(ctx context.Context, cache *sponsors.Cache, l *zap.Logger) (sponsors.Register, error) {
	outcome, err := cache.Get(ctx)
	if err != nil {
		return sponsors.Register{}, fmt.Errorf("load sponsor register: %w", err)
	}
	if !outcome.Available() {
		return sponsors.Register{}, fmt.Errorf("sponsor register unavailable at %s: %s", outcome.Source, outcome.Reason)
	}

	l.Info("loaded sponsor register",
		zap.Int("sponsors", outcome.Register.Len()),
		zap.String("source", outcome.Source),
	)
	return outcome.Register, nil
}

func newJudge(ctx context.Context, cfg *GeminiConfig, l *zap.Logger) (ai.Judge, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   apiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, ai.gemini.api-key or %s)", err, apiKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		return nil, err
	}

	judgeLogger := logger.WithCommonFields(l, providerGemini, generator.Model())
	return gemini.NewJudge(generator, judgeLogger, cfg.MaxLogLength), nil
}

func readCV(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("cv file is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read cv file: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("cv file %q has no text", path)
	}
	return text, nil
}
