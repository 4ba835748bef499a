package classify

import (
	"strings"

	pkgerrors "github.com/summeets/engine/pkg/errors"
)

// Valid summarization providers and prompt templates, the single source
// of truth both the workflow validator and front-ends consult.
var (
	ValidProviders = map[string]bool{"openai": true, "anthropic": true}
	ValidTemplates = map[string]bool{
		"default": true, "sop": true, "decision": true,
		"brainstorm": true, "requirements": true,
	}
)

// ValidateLLMProvider lowercases and checks provider against
// ValidProviders.
func ValidateLLMProvider(provider string) (string, error) {
	if strings.TrimSpace(provider) == "" {
		return "", pkgerrors.NewValidationError("provider", provider, "provider cannot be empty")
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !ValidProviders[provider] {
		return "", pkgerrors.NewValidationError("provider", provider, "unrecognized LLM provider")
	}
	return provider, nil
}

// ValidateSummaryTemplate lowercases and checks template against
// ValidTemplates.
func ValidateSummaryTemplate(template string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", pkgerrors.NewValidationError("template", template, "template cannot be empty")
	}
	template = strings.ToLower(strings.TrimSpace(template))
	if !ValidTemplates[template] {
		return "", pkgerrors.NewValidationError("template", template, "unrecognized summary template")
	}
	return template, nil
}

// ValidateCredentialShape is a format-only check — it never makes a
// network call. Recognized shapes: OpenAI "sk-" or "sk-proj-", Anthropic
// "sk-ant-", STT provider (Replicate) "r8_".
func ValidateCredentialShape(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.NewValidationError(name, "", "credential is empty")
	}

	var ok bool
	switch name {
	case "OPENAI_API_KEY":
		ok = strings.HasPrefix(value, "sk-proj-") || strings.HasPrefix(value, "sk-")
	case "ANTHROPIC_API_KEY":
		ok = strings.HasPrefix(value, "sk-ant-")
	case "REPLICATE_API_TOKEN":
		ok = strings.HasPrefix(value, "r8_")
	default:
		return nil
	}

	if !ok {
		return pkgerrors.NewValidationError(name, "", "credential does not match the expected shape for "+name)
	}
	return nil
}
