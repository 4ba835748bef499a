package summarize

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/summeets/engine/pkg/cancel"
	pkgerrors "github.com/summeets/engine/pkg/errors"
)

const defaultOpenAIModel = "gpt-4o-mini"

func summarizeOpenAI(ctx context.Context, token *cancel.Token, apiKey, transcriptPath, model, template string, autoDetect bool, outputDir string, chunkSeconds, codPasses int) (string, map[string]any, error) {
	if err := token.Check(); err != nil {
		return "", nil, err
	}

	text, err := readTranscriptText(transcriptPath)
	if err != nil {
		return "", nil, err
	}

	effectiveTemplate := template
	if autoDetect {
		effectiveTemplate = detectTemplate(text)
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	client := openai.NewClient(apiKey)
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: promptFor(effectiveTemplate)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.3,
	}

	resp, err := client.CreateChatCompletion(token.Context(), req)
	if err != nil {
		return "", nil, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, pkgerrors.NewLLMProviderError("openai", pkgerrors.LLMClassOther, "no response choices returned", nil)
	}

	body := resp.Choices[0].Message.Content
	return writeSummary(outputDir, transcriptPath, "openai", model, effectiveTemplate, autoDetect, body, time.Now(), chunkSeconds, codPasses)
}

func classifyOpenAIError(err error) error {
	if apiErr, ok := pkgerrors.As[*openai.APIError](err); ok {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return pkgerrors.NewLLMProviderError("openai", pkgerrors.LLMClassAuth, "authentication failed", err)
		case 429:
			return pkgerrors.NewLLMProviderError("openai", pkgerrors.LLMClassRateLimit, "rate limited", err)
		case 408:
			return pkgerrors.NewLLMProviderError("openai", pkgerrors.LLMClassTimeout, "request timed out", err)
		}
	}
	if reqErr, ok := pkgerrors.As[*openai.RequestError](err); ok {
		return pkgerrors.NewLLMProviderError("openai", pkgerrors.LLMClassNetwork, fmt.Sprintf("request failed: %v", reqErr), err)
	}
	return pkgerrors.NewLLMProviderError("openai", pkgerrors.LLMClassOther, "chat completion failed", err)
}
