// Package ports declares the capability contracts the workflow engine
// consumes from collaborators outside this module's scope: ffmpeg-backed
// audio processing, STT transcription, LLM summarization, the on-disk
// data layout, and credential resolution. Adapters in infrastructure/
// bridge these to the real subsystems.
package ports

import (
	"context"

	"github.com/summeets/engine/pkg/cancel"
)

// AudioExtractor pulls an audio track out of a video container.
type AudioExtractor interface {
	Extract(ctx context.Context, token *cancel.Token, input, outputDir, format, quality string, normalize bool) (path string, err error)
}

// AudioConditioner applies post-extraction audio transforms.
type AudioConditioner interface {
	AdjustVolume(ctx context.Context, token *cancel.Token, input, output string, gainDB float64) (path string, err error)
	NormalizeLoudness(ctx context.Context, token *cancel.Token, input, output string) (path string, err error)
	Convert(ctx context.Context, token *cancel.Token, input, output, format, quality string) (path string, err error)
	EnsureWAV16kMono(ctx context.Context, token *cancel.Token, input string) (path string, err error)
	Probe(ctx context.Context, token *cancel.Token, path string) (metadata map[string]any, err error)
}

// Transcriber turns an audio file into a transcript, diarized when the
// provider supports it.
type Transcriber interface {
	Transcribe(ctx context.Context, token *cancel.Token, audioPath, model, language, outputDir string) (transcriptPath string, err error)
}

// Summarizer turns a transcript into a structured meeting summary.
type Summarizer interface {
	Summarize(ctx context.Context, token *cancel.Token, transcriptPath, provider, model, template string, autoDetect bool, outputDir string) (summaryPath string, metadata map[string]any, err error)
}

// DataLayout resolves paths inside the persisted data/ tree.
type DataLayout interface {
	GetAudioPath(stem, format string) string
	GetTranscriptSubdir(stem string) string
	GetSummarySubdir(stem, template string) string
	JobsDir() string
	TempDir() string
	VideoDir() string
}

// CredentialStore resolves process credentials by name.
type CredentialStore interface {
	Get(name string) (string, bool)
}

// ProgressReporter allows callers to receive coarse-grained progress
// updates keyed by job, distinct from the engine's own per-run Func
// callback.
type ProgressReporter interface {
	Report(jobID string, percent float64, stage string)
}

// Names of the credentials the engine resolves via CredentialStore.
const (
	CredentialOpenAI    = "OPENAI_API_KEY"
	CredentialAnthropic = "ANTHROPIC_API_KEY"
	CredentialSTT       = "REPLICATE_API_TOKEN"
)
