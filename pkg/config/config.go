// Package config loads the engine's process-level configuration (spec
// §6.4) from environment variables, optionally layered over a YAML
// config file, using koanf — the same provider/parser split
// tomtom215-lyrebirdaudio-go's config loader uses, simplified since this
// engine's keys are already flat (no nested device namespace).
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every recognized process-level key from spec §6.4.
type Config struct {
	LLMProvider string `koanf:"llm_provider"`
	LLMModel    string `koanf:"llm_model"`

	OpenAIAPIKey     string `koanf:"openai_api_key"`
	AnthropicAPIKey  string `koanf:"anthropic_api_key"`
	ReplicateAPIToken string `koanf:"replicate_api_token"`

	SummaryMaxOutputTokens    int    `koanf:"summary_max_output_tokens"`
	SummaryChunkSeconds       int    `koanf:"summary_chunk_seconds"`
	SummaryCoDPasses          int    `koanf:"summary_cod_passes"`
	SummaryTemplate           string `koanf:"summary_template"`
	SummaryAutoDetectTemplate bool   `koanf:"summary_auto_detect_template"`

	MaxUploadMB       int `koanf:"max_upload_mb"`
	MaxConcurrentJobs int `koanf:"max_concurrent_jobs"`

	JobHistoryDays   int `koanf:"job_history_days"`
	TempCleanupHours int `koanf:"temp_cleanup_hours"`

	Environment string `koanf:"environment"` // development|production
	LogLevel    string `koanf:"log_level"`
}

// Defaults returns the built-in fallback values, applied before any
// file or environment layer.
func Defaults() Config {
	return Config{
		LLMProvider:               "openai",
		LLMModel:                  "gpt-4o-mini",
		SummaryMaxOutputTokens:    4096,
		SummaryChunkSeconds:       1800,
		SummaryCoDPasses:          2,
		SummaryTemplate:           "default",
		SummaryAutoDetectTemplate: true,
		MaxUploadMB:               500,
		MaxConcurrentJobs:         4,
		JobHistoryDays:            30,
		TempCleanupHours:          24,
		Environment:               "development",
		LogLevel:                  "info",
	}
}

// Load builds configuration with precedence (highest to lowest):
// environment variables, an optional YAML file at yamlPath (parsed
// with koanf's yaml.Parser, not a KEY=value .env file), then
// Defaults(). yamlPath may be empty to skip the file layer.
func Load(yamlPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	defaultMap := map[string]any{
		"llm_provider":                 defaults.LLMProvider,
		"llm_model":                    defaults.LLMModel,
		"summary_max_output_tokens":    defaults.SummaryMaxOutputTokens,
		"summary_chunk_seconds":        defaults.SummaryChunkSeconds,
		"summary_cod_passes":           defaults.SummaryCoDPasses,
		"summary_template":             defaults.SummaryTemplate,
		"summary_auto_detect_template": defaults.SummaryAutoDetectTemplate,
		"max_upload_mb":                defaults.MaxUploadMB,
		"max_concurrent_jobs":          defaults.MaxConcurrentJobs,
		"job_history_days":             defaults.JobHistoryDays,
		"temp_cleanup_hours":           defaults.TempCleanupHours,
		"environment":                  defaults.Environment,
		"log_level":                    defaults.LogLevel,
	}
	if err := k.Load(confmap.Provider(defaultMap, "."), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	if yamlPath != "" {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", yamlPath, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(key), value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
