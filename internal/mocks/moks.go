// Package mocks provides function-field test doubles for every
// capability port in domain/ports, following the teacher's original
// MockFFmpegExecutor/MockStorageProvider shape: a struct field per
// method, defaulting to a canned response when unset.
package mocks

import (
	"context"

	"github.com/summeets/engine/pkg/cancel"
)

// FakeAudioExtractor is a test double for ports.AudioExtractor.
type FakeAudioExtractor struct {
	ExtractFunc func(ctx context.Context, token *cancel.Token, input, outputDir, format, quality string, normalize bool) (string, error)
	Calls       int
}

func (f *FakeAudioExtractor) Extract(ctx context.Context, token *cancel.Token, input, outputDir, format, quality string, normalize bool) (string, error) {
	f.Calls++
	if f.ExtractFunc != nil {
		return f.ExtractFunc(ctx, token, input, outputDir, format, quality, normalize)
	}
	return outputDir + "/extracted." + format, nil
}

// FakeAudioConditioner is a test double for ports.AudioConditioner.
type FakeAudioConditioner struct {
	AdjustVolumeFunc      func(ctx context.Context, token *cancel.Token, input, output string, gainDB float64) (string, error)
	NormalizeLoudnessFunc func(ctx context.Context, token *cancel.Token, input, output string) (string, error)
	ConvertFunc           func(ctx context.Context, token *cancel.Token, input, output, format, quality string) (string, error)
	EnsureWAV16kMonoFunc  func(ctx context.Context, token *cancel.Token, input string) (string, error)
	ProbeFunc             func(ctx context.Context, token *cancel.Token, path string) (map[string]any, error)
	EnsureWAVCalls        int
}

func (f *FakeAudioConditioner) AdjustVolume(ctx context.Context, token *cancel.Token, input, output string, gainDB float64) (string, error) {
	if f.AdjustVolumeFunc != nil {
		return f.AdjustVolumeFunc(ctx, token, input, output, gainDB)
	}
	return output, nil
}

func (f *FakeAudioConditioner) NormalizeLoudness(ctx context.Context, token *cancel.Token, input, output string) (string, error) {
	if f.NormalizeLoudnessFunc != nil {
		return f.NormalizeLoudnessFunc(ctx, token, input, output)
	}
	return output, nil
}

func (f *FakeAudioConditioner) Convert(ctx context.Context, token *cancel.Token, input, output, format, quality string) (string, error) {
	if f.ConvertFunc != nil {
		return f.ConvertFunc(ctx, token, input, output, format, quality)
	}
	return output, nil
}

func (f *FakeAudioConditioner) EnsureWAV16kMono(ctx context.Context, token *cancel.Token, input string) (string, error) {
	f.EnsureWAVCalls++
	if f.EnsureWAV16kMonoFunc != nil {
		return f.EnsureWAV16kMonoFunc(ctx, token, input)
	}
	return input + "_16k_mono.wav", nil
}

func (f *FakeAudioConditioner) Probe(ctx context.Context, token *cancel.Token, path string) (map[string]any, error) {
	if f.ProbeFunc != nil {
		return f.ProbeFunc(ctx, token, path)
	}
	return map[string]any{"duration_seconds": 0.0}, nil
}

// FakeTranscriber is a test double for ports.Transcriber.
type FakeTranscriber struct {
	TranscribeFunc func(ctx context.Context, token *cancel.Token, audioPath, model, language, outputDir string) (string, error)
	Calls          int
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, token *cancel.Token, audioPath, model, language, outputDir string) (string, error) {
	f.Calls++
	if f.TranscribeFunc != nil {
		return f.TranscribeFunc(ctx, token, audioPath, model, language, outputDir)
	}
	return outputDir + "/transcript.json", nil
}

// FakeSummarizer is a test double for ports.Summarizer.
type FakeSummarizer struct {
	SummarizeFunc func(ctx context.Context, token *cancel.Token, transcriptPath, provider, model, template string, autoDetect bool, outputDir string) (string, map[string]any, error)
	Calls         int
}

func (f *FakeSummarizer) Summarize(ctx context.Context, token *cancel.Token, transcriptPath, provider, model, template string, autoDetect bool, outputDir string) (string, map[string]any, error) {
	f.Calls++
	if f.SummarizeFunc != nil {
		return f.SummarizeFunc(ctx, token, transcriptPath, provider, model, template, autoDetect, outputDir)
	}
	return outputDir + "/summary.json", map[string]any{"provider": provider, "template": template}, nil
}

// FakeDataLayout is a test double for ports.DataLayout.
type FakeDataLayout struct {
	GetAudioPathFunc        func(stem, format string) string
	GetTranscriptSubdirFunc func(stem string) string
	GetSummarySubdirFunc    func(stem, template string) string
	JobsDirFunc             func() string
	TempDirFunc             func() string
	VideoDirFunc            func() string
}

func (f *FakeDataLayout) GetAudioPath(stem, format string) string {
	if f.GetAudioPathFunc != nil {
		return f.GetAudioPathFunc(stem, format)
	}
	return "data/audio/" + stem + "/" + stem + "." + format
}

func (f *FakeDataLayout) GetTranscriptSubdir(stem string) string {
	if f.GetTranscriptSubdirFunc != nil {
		return f.GetTranscriptSubdirFunc(stem)
	}
	return "data/transcript/" + stem
}

func (f *FakeDataLayout) GetSummarySubdir(stem, template string) string {
	if f.GetSummarySubdirFunc != nil {
		return f.GetSummarySubdirFunc(stem, template)
	}
	return "data/summary/" + stem + "/" + template
}

func (f *FakeDataLayout) JobsDir() string {
	if f.JobsDirFunc != nil {
		return f.JobsDirFunc()
	}
	return "data/jobs"
}

func (f *FakeDataLayout) TempDir() string {
	if f.TempDirFunc != nil {
		return f.TempDirFunc()
	}
	return "data/temp"
}

func (f *FakeDataLayout) VideoDir() string {
	if f.VideoDirFunc != nil {
		return f.VideoDirFunc()
	}
	return "data/video"
}

// FakeCredentialStore is a test double for ports.CredentialStore.
type FakeCredentialStore struct {
	Values map[string]string
}

func (f *FakeCredentialStore) Get(name string) (string, bool) {
	v, ok := f.Values[name]
	return v, ok
}
