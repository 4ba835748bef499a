package workflow

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/summeets/engine/domain/model"
)

// Preset is a named bundle of step/provider defaults, loaded from a TOML
// file the way hyprvoice loads its config.toml, letting a caller pick a
// canned configuration ("quick-audio-only", "full-video-pipeline"...)
// by name instead of setting every WorkflowConfig field by hand.
type Preset struct {
	ExtractAudio       *bool    `toml:"extract_audio"`
	ProcessAudio       *bool    `toml:"process_audio"`
	Transcribe         *bool    `toml:"transcribe"`
	Summarize          *bool    `toml:"summarize"`
	AudioFormat        string   `toml:"audio_format"`
	AudioQuality       string   `toml:"audio_quality"`
	NormalizeAudio     *bool    `toml:"normalize_audio"`
	IncreaseVolume     *bool    `toml:"increase_volume"`
	VolumeGainDB       *float64 `toml:"volume_gain_db"`
	OutputFormats      []string `toml:"output_formats"`
	TranscribeModel    string   `toml:"transcribe_model"`
	Language           string   `toml:"language"`
	SummaryTemplate    string   `toml:"summary_template"`
	Provider           string   `toml:"provider"`
	Model              string   `toml:"model"`
	AutoDetectTemplate *bool    `toml:"auto_detect_template"`
}

type presetFile struct {
	Presets map[string]Preset `toml:"preset"`
}

// LoadPreset reads name's table out of a `[preset.name]`-shaped TOML
// file at path and returns it.
func LoadPreset(path, name string) (*Preset, error) {
	var file presetFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decoding preset file %s: %w", path, err)
	}
	preset, ok := file.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found in %s", name, path)
	}
	return &preset, nil
}

// Apply overlays p's non-zero fields onto config, leaving fields the
// preset doesn't mention untouched.
func (p *Preset) Apply(config *model.WorkflowConfig) {
	if p.ExtractAudio != nil {
		config.ExtractAudio = *p.ExtractAudio
	}
	if p.ProcessAudio != nil {
		config.ProcessAudio = *p.ProcessAudio
	}
	if p.Transcribe != nil {
		config.Transcribe = *p.Transcribe
	}
	if p.Summarize != nil {
		config.Summarize = *p.Summarize
	}
	if p.AudioFormat != "" {
		config.AudioFormat = p.AudioFormat
	}
	if p.AudioQuality != "" {
		config.AudioQuality = p.AudioQuality
	}
	if p.NormalizeAudio != nil {
		config.NormalizeAudio = *p.NormalizeAudio
	}
	if p.IncreaseVolume != nil {
		config.IncreaseVolume = *p.IncreaseVolume
	}
	if p.VolumeGainDB != nil {
		config.VolumeGainDB = *p.VolumeGainDB
	}
	if len(p.OutputFormats) > 0 {
		config.OutputFormats = p.OutputFormats
	}
	if p.TranscribeModel != "" {
		config.TranscribeModel = p.TranscribeModel
	}
	if p.Language != "" {
		config.Language = p.Language
	}
	if p.SummaryTemplate != "" {
		config.SummaryTemplate = p.SummaryTemplate
	}
	if p.Provider != "" {
		config.Provider = p.Provider
	}
	if p.Model != "" {
		config.Model = p.Model
	}
	if p.AutoDetectTemplate != nil {
		config.AutoDetectTemplate = *p.AutoDetectTemplate
	}
}
