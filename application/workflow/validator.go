// Package workflow implements the four components that turn a
// WorkflowConfig into a sequence of executed stages: the validator, the
// step factory, the sequential executor, and the orchestrating engine.
package workflow

import (
	"github.com/summeets/engine/application/classify"
	"github.com/summeets/engine/domain/model"
)

// Validator canonicalizes and safety-checks a WorkflowConfig's input
// path, classifies it, enforces the size cap, and creates the output
// directory. It is the engine's first orchestration step.
type Validator struct {
	AllowedRoot string
	MaxUploadMB int
}

// NewValidator builds a Validator. An empty allowedRoot disables the
// root-containment check; maxUploadMB <= 0 uses the default cap.
func NewValidator(allowedRoot string, maxUploadMB int) *Validator {
	return &Validator{AllowedRoot: allowedRoot, MaxUploadMB: maxUploadMB}
}

// Validate canonicalizes config.InputFile, classifies it, enforces the
// size cap for video/audio, and creates config.OutputDir (with
// parents). Returns the canonical input path and detected kind.
func (v *Validator) Validate(config *model.WorkflowConfig) (string, model.InputKind, error) {
	canonical, kind, err := classify.ValidateWorkflowInput(config.InputFile, v.AllowedRoot, v.MaxUploadMB)
	if err != nil {
		return "", "", err
	}

	if _, err := classify.ValidateOutputDirectory(config.OutputDir); err != nil {
		return "", "", err
	}

	return canonical, kind, nil
}
