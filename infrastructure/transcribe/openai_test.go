package transcribe

import (
	"context"
	"testing"

	"github.com/summeets/engine/pkg/cancel"
)

func TestOpenAIWhisperTranscribeRejectsMissingCredential(t *testing.T) {
	tr := NewOpenAIWhisperTranscriber("")
	token := cancel.New(context.Background())

	_, err := tr.Transcribe(context.Background(), token, "audio.wav", "whisper-1", "auto", t.TempDir())
	if err == nil {
		t.Errorf("Transcribe with empty key = nil error, want ConfigurationError")
	}
}

func TestOpenAIWhisperTranscribeHonorsCancellation(t *testing.T) {
	tr := NewOpenAIWhisperTranscriber("sk-faketoken")
	token := cancel.New(context.Background())
	token.Cancel("stop")

	_, err := tr.Transcribe(context.Background(), token, "audio.wav", "whisper-1", "auto", t.TempDir())
	if err == nil {
		t.Errorf("Transcribe with cancelled token = nil error, want rejection")
	}
}
