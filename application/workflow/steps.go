package workflow

import (
	"context"
	"path/filepath"

	"github.com/summeets/engine/domain/model"
	pkgerrors "github.com/summeets/engine/pkg/errors"
	"github.com/summeets/engine/pkg/cancel"
)

// BuildSteps returns the 4-item step list in fixed declaration order —
// extract_audio, process_audio, transcribe, summarize — with settings
// materialized from config and run closures bound to this run's ctx,
// token, state, and capabilities. required_input_kind is set only for
// extract_audio; the remaining three gate at runtime on state.fileType
// inside their own Run bodies, matching the source's "engine state"
// gating rather than a static kind requirement.
func BuildSteps(ctx context.Context, token *cancel.Token, config *model.WorkflowConfig, state *runState, caps Capabilities) []model.WorkflowStep {
	return []model.WorkflowStep{
		{
			Name:              model.StepExtractAudio,
			Enabled:           config.ExtractAudio,
			RequiredInputKind: model.InputVideo,
			Settings: map[string]any{
				"format":  config.AudioFormat,
				"quality": config.AudioQuality,
			},
			Run: func(settings map[string]any) (model.StageResult, error) {
				return runExtractAudio(ctx, token, config, state, caps, settings)
			},
		},
		{
			Name:    model.StepProcessAudio,
			Enabled: config.ProcessAudio,
			Settings: map[string]any{
				"increase_volume": config.IncreaseVolume,
				"volume_gain_db":  config.VolumeGainDB,
				"normalize_audio": config.NormalizeAudio,
				"output_formats":  config.OutputFormats,
			},
			Run: func(settings map[string]any) (model.StageResult, error) {
				return runProcessAudio(ctx, token, state, caps, settings)
			},
		},
		{
			Name:    model.StepTranscribe,
			Enabled: config.Transcribe,
			Settings: map[string]any{
				"model":    config.TranscribeModel,
				"language": config.Language,
			},
			Run: func(settings map[string]any) (model.StageResult, error) {
				return runTranscribe(ctx, token, config, state, caps, settings)
			},
		},
		{
			Name:    model.StepSummarize,
			Enabled: config.Summarize,
			Settings: map[string]any{
				"template":    config.SummaryTemplate,
				"provider":    config.Provider,
				"model":       config.Model,
				"auto_detect": config.AutoDetectTemplate,
			},
			Run: func(settings map[string]any) (model.StageResult, error) {
				return runSummarize(ctx, token, config, state, caps, settings)
			},
		},
	}
}

// FilterExecutableSteps keeps steps whose CanExecute(kind) is true.
func FilterExecutableSteps(steps []model.WorkflowStep, kind model.InputKind) []model.WorkflowStep {
	var out []model.WorkflowStep
	for _, s := range steps {
		if s.CanExecute(kind) {
			out = append(out, s)
		}
	}
	return out
}

func runExtractAudio(ctx context.Context, token *cancel.Token, config *model.WorkflowConfig, state *runState, caps Capabilities, settings map[string]any) (model.StageResult, error) {
	if state.fileType != model.InputVideo {
		return model.Skip("Not a video file"), nil
	}
	if err := token.Check(); err != nil {
		return model.StageResult{}, err
	}

	format := settings["format"].(string)
	quality := settings["quality"].(string)
	targetDir := filepath.Dir(config.InputFile)
	if caps.Layout != nil {
		targetDir = filepath.Dir(caps.Layout.GetAudioPath(stemOf(config.InputFile), format))
	}

	output, err := caps.Extractor.Extract(ctx, token, config.InputFile, targetDir, format, quality, true)
	if err != nil {
		return model.StageResult{}, err
	}
	if caps.Shutdown != nil {
		caps.Shutdown.RegisterTempPath(output)
		defer caps.Shutdown.UnregisterTempPath(output)
	}

	state.currentAudioFile = output
	return model.StageResult{
		InputFile:  config.InputFile,
		OutputFile: output,
		Format:     format,
		Quality:    quality,
	}, nil
}

func runProcessAudio(ctx context.Context, token *cancel.Token, state *runState, caps Capabilities, settings map[string]any) (model.StageResult, error) {
	if state.fileType == model.InputTranscript {
		return model.Skip("No audio processing for transcript input"), nil
	}
	if state.currentAudioFile == "" {
		return model.StageResult{}, pkgerrors.NewAudioProcessingError("No audio file available for processing", nil, 0, "", nil)
	}

	var processed []model.ProcessedFile
	var tempPaths []string
	current := state.currentAudioFile

	registerTemp := func(p string) {
		if caps.Shutdown != nil {
			caps.Shutdown.RegisterTempPath(p)
			tempPaths = append(tempPaths, p)
		}
	}
	// unregisterTemp is called only on the stage's successful return, not
	// on an early error return, so a shutdown after a failed stage still
	// cleans up the intermediate files it left behind.
	unregisterTemp := func() {
		if caps.Shutdown == nil {
			return
		}
		for _, p := range tempPaths {
			caps.Shutdown.UnregisterTempPath(p)
		}
	}

	if increase, _ := settings["increase_volume"].(bool); increase {
		if err := token.Check(); err != nil {
			return model.StageResult{}, err
		}
		gain, _ := settings["volume_gain_db"].(float64)
		out, err := caps.Conditioner.AdjustVolume(ctx, token, current, volumeOutputPath(current), gain)
		if err != nil {
			return model.StageResult{}, err
		}
		registerTemp(out)
		processed = append(processed, model.ProcessedFile{Type: "volume_adjustment", File: out, Meta: map[string]any{"gain_db": gain}})
		current = out
	}

	if normalize, _ := settings["normalize_audio"].(bool); normalize {
		if err := token.Check(); err != nil {
			return model.StageResult{}, err
		}
		out, err := caps.Conditioner.NormalizeLoudness(ctx, token, current, normalizedOutputPath(current))
		if err != nil {
			return model.StageResult{}, err
		}
		registerTemp(out)
		processed = append(processed, model.ProcessedFile{Type: "normalization", File: out})
		current = out
	}

	formats, _ := settings["output_formats"].([]string)
	currentExt := filepath.Ext(current)
	for _, format := range formats {
		if "."+format == currentExt {
			continue
		}
		if err := token.Check(); err != nil {
			return model.StageResult{}, err
		}
		out, err := caps.Conditioner.Convert(ctx, token, current, convertedOutputPath(current, format), format, "high")
		if err != nil {
			return model.StageResult{}, err
		}
		registerTemp(out)
		processed = append(processed, model.ProcessedFile{Type: "format_conversion", File: out, Meta: map[string]any{"format": format}})
		current = out
	}

	if meta, err := caps.Conditioner.Probe(ctx, token, current); err == nil {
		processed = append(processed, model.ProcessedFile{Type: "probe", File: current, Meta: meta})
	}

	state.currentAudioFile = current
	unregisterTemp()
	return model.StageResult{ProcessedFiles: processed}, nil
}

func runTranscribe(ctx context.Context, token *cancel.Token, config *model.WorkflowConfig, state *runState, caps Capabilities, settings map[string]any) (model.StageResult, error) {
	if state.fileType == model.InputTranscript {
		return model.Skip("Input is already a transcript"), nil
	}
	if state.currentAudioFile == "" {
		return model.StageResult{}, pkgerrors.NewTranscriptionError(settings["model"].(string), "No audio file available for processing", nil)
	}

	if err := token.Check(); err != nil {
		return model.StageResult{}, err
	}
	normalized, err := caps.Conditioner.EnsureWAV16kMono(ctx, token, state.currentAudioFile)
	if err != nil {
		return model.StageResult{}, err
	}

	if err := token.Check(); err != nil {
		return model.StageResult{}, err
	}
	modelName, _ := settings["model"].(string)
	language, _ := settings["language"].(string)
	outputDir := caps.Layout.GetTranscriptSubdir(stemOf(config.InputFile))
	transcriptPath, err := caps.Transcriber.Transcribe(ctx, token, normalized, modelName, language, outputDir)
	if err != nil {
		return model.StageResult{}, err
	}

	state.currentTranscript = &model.Transcript{OutputFile: transcriptPath}
	return model.StageResult{
		AudioFile:      normalized,
		Model:          modelName,
		Language:       language,
		TranscriptFile: transcriptPath,
	}, nil
}

func runSummarize(ctx context.Context, token *cancel.Token, config *model.WorkflowConfig, state *runState, caps Capabilities, settings map[string]any) (model.StageResult, error) {
	if state.currentTranscript == nil || state.currentTranscript.OutputFile == "" {
		return model.StageResult{}, pkgerrors.NewValidationError("transcript", "", "No transcript available for summarization")
	}
	if err := token.Check(); err != nil {
		return model.StageResult{}, err
	}

	template, _ := settings["template"].(string)
	provider, _ := settings["provider"].(string)
	modelName, _ := settings["model"].(string)
	autoDetect, _ := settings["auto_detect"].(bool)
	outputDir := caps.Layout.GetSummarySubdir(stemOf(config.InputFile), template)

	summaryPath, _, err := caps.Summarizer.Summarize(ctx, token, state.currentTranscript.OutputFile, provider, modelName, template, autoDetect, outputDir)
	if err != nil {
		return model.StageResult{}, err
	}

	return model.StageResult{
		TranscriptFileUsed: state.currentTranscript.OutputFile,
		Provider:           provider,
		ModelUsed:          modelName,
		Template:           template,
		SummaryFile:        summaryPath,
	}, nil
}

func volumeOutputPath(input string) string {
	return withSuffix(input, "_volume")
}

func normalizedOutputPath(input string) string {
	return withSuffix(input, "_normalized")
}

func convertedOutputPath(input, format string) string {
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + "." + format
}

func withSuffix(input, suffix string) string {
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + suffix + ext
}
