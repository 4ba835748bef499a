package transcribe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"

	"github.com/summeets/engine/domain/model"
	"github.com/summeets/engine/pkg/cancel"
	pkgerrors "github.com/summeets/engine/pkg/errors"
)

const defaultWhisperModel = openai.Whisper1

// OpenAIWhisperTranscriber implements ports.Transcriber against OpenAI's
// audio transcription endpoint. Unlike ReplicateTranscriber it does not
// diarize: every segment's Speaker is left empty.
type OpenAIWhisperTranscriber struct {
	APIKey string
}

// NewOpenAIWhisperTranscriber builds a transcriber with apiKey (the
// OPENAI_API_KEY credential).
func NewOpenAIWhisperTranscriber(apiKey string) *OpenAIWhisperTranscriber {
	return &OpenAIWhisperTranscriber{APIKey: apiKey}
}

func (t *OpenAIWhisperTranscriber) Transcribe(ctx context.Context, token *cancel.Token, audioPath, modelName, language, outputDir string) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}
	if t.APIKey == "" {
		return "", pkgerrors.NewConfigurationError("OPENAI_API_KEY", "whisper credential is not configured", nil)
	}
	if modelName == "" {
		modelName = defaultWhisperModel
	}

	client := openai.NewClient(t.APIKey)
	req := openai.AudioRequest{
		Model:    modelName,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if language != "" && language != "auto" {
		req.Language = language
	}

	resp, err := client.CreateTranscription(token.Context(), req)
	if err != nil {
		return "", pkgerrors.NewTranscriptionError("openai", "transcription request failed", err)
	}

	segments := make([]model.Segment, len(resp.Segments))
	for i, s := range resp.Segments {
		segments[i] = model.Segment{Start: s.Start, End: s.End, Text: s.Text}
	}
	if len(segments) == 0 && resp.Text != "" {
		segments = []model.Segment{{Text: resp.Text}}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", pkgerrors.NewFileOperationError("mkdir", outputDir, err)
	}
	outPath := filepath.Join(outputDir, trimExt(filepath.Base(audioPath))+".json")

	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return "", pkgerrors.NewFileOperationError("marshal", outPath, err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", pkgerrors.NewFileOperationError("write", outPath, err)
	}
	return outPath, nil
}
