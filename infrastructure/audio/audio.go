// Package audio implements ports.AudioExtractor and
// ports.AudioConditioner on top of infrastructure/ffmpeg, grounded on
// the codec/quality argument shapes of the source's
// core/audio/ffmpeg_ops.py.
package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/summeets/engine/infrastructure/ffmpeg"
	"github.com/summeets/engine/pkg/cancel"
)

// Adapter implements ports.AudioExtractor and ports.AudioConditioner.
type Adapter struct {
	exec *ffmpeg.Executor
}

// New wraps exec as an AudioExtractor/AudioConditioner.
func New(exec *ffmpeg.Executor) *Adapter {
	return &Adapter{exec: exec}
}

func codecArgs(format, quality string) ([]string, error) {
	switch format {
	case "m4a":
		return []string{"-c:a", "aac", "-b:a", bitrateFor(quality, map[string]string{
			"high": "192k", "medium": "128k", "low": "96k",
		})}, nil
	case "mp3":
		return []string{"-c:a", "libmp3lame", "-q:a", vbrFor(quality, map[string]string{
			"high": "0", "medium": "2", "low": "4",
		})}, nil
	case "ogg":
		return []string{"-c:a", "libvorbis", "-q:a", vbrFor(quality, map[string]string{
			"high": "6", "medium": "4", "low": "2",
		})}, nil
	case "wav":
		return []string{"-c:a", "pcm_s16le", "-ar", "48000"}, nil
	case "flac":
		return []string{"-c:a", "flac", "-compression_level", vbrFor(quality, map[string]string{
			"high": "8", "medium": "5", "low": "1",
		})}, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", format)
	}
}

func bitrateFor(quality string, table map[string]string) string {
	if v, ok := table[quality]; ok {
		return v
	}
	return table["medium"]
}

func vbrFor(quality string, table map[string]string) string {
	return bitrateFor(quality, table)
}

// Extract pulls an audio track out of a video container, applying the
// given format/quality codec settings and, when normalize is true, an
// EBU-R128 loudnorm pass (skipped for wav to preserve raw quality).
func (a *Adapter) Extract(ctx context.Context, token *cancel.Token, input, outputDir, format, quality string, normalize bool) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}

	codec, err := codecArgs(format, quality)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	output := filepath.Join(outputDir, stem(input)+"_extracted."+format)

	args := append([]string{"-i", input, "-vn"}, codec...)
	if normalize && format != "wav" {
		args = append(args, "-af", "loudnorm")
	}
	args = append(args, output)

	if err := a.exec.Execute(token.Context(), args); err != nil {
		return "", err
	}
	return output, nil
}

// AdjustVolume applies a static gain filter.
func (a *Adapter) AdjustVolume(ctx context.Context, token *cancel.Token, input, output string, gainDB float64) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}
	args := []string{"-i", input, "-af", fmt.Sprintf("volume=%gdB", gainDB), output}
	if err := a.exec.Execute(token.Context(), args); err != nil {
		return "", err
	}
	return output, nil
}

// NormalizeLoudness applies ffmpeg's default EBU-R128 loudnorm filter.
func (a *Adapter) NormalizeLoudness(ctx context.Context, token *cancel.Token, input, output string) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}
	args := []string{"-i", input, "-af", "loudnorm", output}
	if err := a.exec.Execute(token.Context(), args); err != nil {
		return "", err
	}
	return output, nil
}

// Convert transcodes input to the target format/quality.
func (a *Adapter) Convert(ctx context.Context, token *cancel.Token, input, output, format, quality string) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}
	codec, err := codecArgs(format, quality)
	if err != nil {
		return "", err
	}
	args := append([]string{"-i", input}, codec...)
	args = append(args, output)
	if err := a.exec.Execute(token.Context(), args); err != nil {
		return "", err
	}
	return output, nil
}

// EnsureWAV16kMono resamples input to the canonical 16 kHz mono PCM
// waveform every STT capability in this module expects.
func (a *Adapter) EnsureWAV16kMono(ctx context.Context, token *cancel.Token, input string) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}
	if strings.HasSuffix(input, "_16k_mono.wav") {
		return input, nil
	}
	output := withoutExt(input) + "_16k_mono.wav"
	args := []string{"-i", input, "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", output}
	if err := a.exec.Execute(token.Context(), args); err != nil {
		return "", err
	}
	return output, nil
}

// ffprobeOutput mirrors the subset of `ffprobe -show_format -show_streams`
// JSON this adapter reads: the container's duration/bit_rate from format,
// and the first audio stream's codec/channels/sample_rate.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Channels   int    `json:"channels"`
		SampleRate string `json:"sample_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe against path and returns its duration, bit rate,
// codec, channel count and sample rate as a metadata map suitable for
// model.ProcessedFile.Meta.
func (a *Adapter) Probe(ctx context.Context, token *cancel.Token, path string) (map[string]any, error) {
	if err := token.Check(); err != nil {
		return nil, err
	}

	raw, err := a.exec.Probe(token.Context(), path)
	if err != nil {
		return nil, err
	}
	return parseProbeOutput(raw, path)
}

func parseProbeOutput(raw []byte, path string) (map[string]any, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output for %s: %w", path, err)
	}

	meta := map[string]any{}
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		meta["duration_seconds"] = d
	}
	if br, err := strconv.ParseInt(out.Format.BitRate, 10, 64); err == nil {
		meta["bit_rate"] = br
	}
	for _, s := range out.Streams {
		if s.CodecType != "audio" {
			continue
		}
		meta["codec"] = s.CodecName
		meta["channels"] = s.Channels
		if sr, err := strconv.ParseInt(s.SampleRate, 10, 64); err == nil {
			meta["sample_rate"] = sr
		}
		break
	}
	return meta, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func withoutExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
