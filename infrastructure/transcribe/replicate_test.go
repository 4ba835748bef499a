package transcribe

import (
	"context"
	"testing"

	"github.com/summeets/engine/pkg/cancel"
)

func TestParseOutputBareArray(t *testing.T) {
	raw := []any{
		map[string]any{"start": 0.0, "end": 1.5, "text": "hello", "speaker": "A"},
		map[string]any{"start": 1.5, "end": 3.0, "text": "world"},
	}
	segments, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("parseOutput error = %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(segments))
	}
	if segments[0].Speaker != "A" || segments[0].Text != "hello" {
		t.Errorf("segments[0] = %+v, want speaker=A text=hello", segments[0])
	}
}

func TestParseOutputWrappedObject(t *testing.T) {
	raw := map[string]any{
		"segments": []any{
			map[string]any{"start": 0.0, "end": 2.0, "text": "hi"},
		},
	}
	segments, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("parseOutput error = %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "hi" {
		t.Errorf("segments = %+v, want one segment with text hi", segments)
	}
}

func TestParseOutputUnrecognizedShapeErrors(t *testing.T) {
	if _, err := parseOutput(42); err == nil {
		t.Errorf("parseOutput(42) = nil error, want rejection")
	}
}

func TestDataURIProducesBase64WAVPrefix(t *testing.T) {
	uri := dataURI([]byte("RIFF"))
	want := "data:audio/wav;base64,UklGRg=="
	if uri != want {
		t.Errorf("dataURI() = %q, want %q", uri, want)
	}
}

func TestTrimExt(t *testing.T) {
	if got := trimExt("meeting.wav"); got != "meeting" {
		t.Errorf("trimExt(meeting.wav) = %q, want meeting", got)
	}
	if got := trimExt("no-extension"); got != "no-extension" {
		t.Errorf("trimExt(no-extension) = %q, want unchanged", got)
	}
}

func TestTranscribeRejectsMissingCredential(t *testing.T) {
	r := NewReplicateTranscriber("")
	token := cancel.New(context.Background())

	_, err := r.Transcribe(context.Background(), token, "audio.wav", "some/model", "auto", t.TempDir())
	if err == nil {
		t.Errorf("Transcribe with empty token = nil error, want ConfigurationError")
	}
}

func TestTranscribeHonorsCancellation(t *testing.T) {
	r := NewReplicateTranscriber("r8_faketoken")
	token := cancel.New(context.Background())
	token.Cancel("stop")

	_, err := r.Transcribe(context.Background(), token, "audio.wav", "some/model", "auto", t.TempDir())
	if err == nil {
		t.Errorf("Transcribe with cancelled token = nil error, want rejection")
	}
}
