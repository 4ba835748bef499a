package summarize

import (
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/summeets/engine/pkg/cancel"
	pkgerrors "github.com/summeets/engine/pkg/errors"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// maxAnthropicChars truncates very long transcripts before sending them
// to stay comfortably inside the model's context window.
const maxAnthropicChars = 150000

func summarizeAnthropic(token *cancel.Token, apiKey, transcriptPath, model, template string, autoDetect bool, outputDir string, chunkSeconds, codPasses int) (string, map[string]any, error) {
	if err := token.Check(); err != nil {
		return "", nil, err
	}

	text, err := readTranscriptText(transcriptPath)
	if err != nil {
		return "", nil, err
	}
	if len(text) > maxAnthropicChars {
		text = text[:maxAnthropicChars] + "\n\n[transcript truncated due to length]"
	}

	effectiveTemplate := template
	if autoDetect {
		effectiveTemplate = detectTemplate(text)
	}
	if model == "" {
		model = defaultAnthropicModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(token.Context(), anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 8000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(promptFor(effectiveTemplate) + "\n\n" + text)),
		},
	})
	if err != nil {
		return "", nil, classifyAnthropicError(err)
	}

	var body strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			body.WriteString(block.Text)
		}
	}
	if body.Len() == 0 {
		return "", nil, pkgerrors.NewLLMProviderError("anthropic", pkgerrors.LLMClassOther, "no response content returned", nil)
	}

	return writeSummary(outputDir, transcriptPath, "anthropic", model, effectiveTemplate, autoDetect, body.String(), time.Now(), chunkSeconds, codPasses)
}

// classifyAnthropicError wraps a Messages.New failure as an
// LLMProviderError. The SDK's error body includes the HTTP status text,
// so a coarse substring sniff is enough to sub-classify without
// depending on its internal error type.
func classifyAnthropicError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return pkgerrors.NewLLMProviderError("anthropic", pkgerrors.LLMClassAuth, "authentication failed", err)
	case strings.Contains(msg, "429"):
		return pkgerrors.NewLLMProviderError("anthropic", pkgerrors.LLMClassRateLimit, "rate limited", err)
	case strings.Contains(msg, "408") || strings.Contains(msg, "504") || strings.Contains(msg, "timeout"):
		return pkgerrors.NewLLMProviderError("anthropic", pkgerrors.LLMClassTimeout, "request timed out", err)
	default:
		return pkgerrors.NewLLMProviderError("anthropic", pkgerrors.LLMClassOther, "message creation failed", err)
	}
}
