// Package credentials implements ports.CredentialStore by resolving
// named credentials from process configuration, with format-only shape
// validation on read (never a network probe), grounded on spec.md §4.6.
package credentials

import (
	"github.com/summeets/engine/application/classify"
	"github.com/summeets/engine/pkg/config"
)

// Store resolves credentials from a loaded Config.
type Store struct {
	cfg *config.Config
}

// New builds a Store over cfg.
func New(cfg *config.Config) *Store {
	return &Store{cfg: cfg}
}

// Get resolves name to its configured value. It returns (value, true)
// only when the value is non-empty and matches the credential's
// expected shape; a present-but-malformed credential is treated as
// absent so callers fail with "missing credential" rather than a
// confusing downstream provider error.
func (s *Store) Get(name string) (string, bool) {
	var value string
	switch name {
	case "OPENAI_API_KEY":
		value = s.cfg.OpenAIAPIKey
	case "ANTHROPIC_API_KEY":
		value = s.cfg.AnthropicAPIKey
	case "REPLICATE_API_TOKEN":
		value = s.cfg.ReplicateAPIToken
	default:
		return "", false
	}

	if value == "" {
		return "", false
	}
	if err := classify.ValidateCredentialShape(name, value); err != nil {
		return "", false
	}
	return value, true
}
