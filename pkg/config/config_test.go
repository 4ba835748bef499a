package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	defaults := Defaults()
	if cfg.LLMProvider != defaults.LLMProvider {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, defaults.LLMProvider)
	}
	if cfg.MaxUploadMB != defaults.MaxUploadMB {
		t.Errorf("MaxUploadMB = %d, want %d", cfg.MaxUploadMB, defaults.MaxUploadMB)
	}
}

func TestLoadYAMLFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "llm_provider: anthropic\nmax_upload_mb: 250\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Errorf("LLMProvider = %q, want anthropic", cfg.LLMProvider)
	}
	if cfg.MaxUploadMB != 250 {
		t.Errorf("MaxUploadMB = %d, want 250", cfg.MaxUploadMB)
	}
	// Untouched keys keep their default.
	if cfg.SummaryTemplate != Defaults().SummaryTemplate {
		t.Errorf("SummaryTemplate = %q, want default %q", cfg.SummaryTemplate, Defaults().SummaryTemplate)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("llm_provider: anthropic\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("LLM_PROVIDER", "openai")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if cfg.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, want openai (env overrides file)", cfg.LLMProvider)
	}
}
