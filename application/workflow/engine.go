package workflow

import (
	"context"

	"github.com/summeets/engine/domain/model"
	"github.com/summeets/engine/pkg/cancel"
	"github.com/summeets/engine/pkg/logger"
)

// Engine orchestrates one end-to-end run: validate input, seed the
// run's state by input kind, build and filter the step list, and
// delegate to the executor. Validator, Executor, and Capabilities are
// exported fields so tests can substitute their own instances; only the
// Capabilities ports accept fakes.
type Engine struct {
	Validator *Validator
	Executor  *Executor
	Caps      Capabilities
	Log       *logger.Logger
}

// NewEngine builds a production Engine wired to caps.
func NewEngine(validator *Validator, caps Capabilities, log *logger.Logger) *Engine {
	if log == nil {
		log, _ = logger.New(false)
	}
	return &Engine{Validator: validator, Executor: NewExecutor(), Caps: caps, Log: log}
}

// Execute runs config to completion (or failure/cancellation), invoking
// progress at each stage boundary. The returned map is the final
// results-by-step-name snapshot, populated even on a mid-run failure.
func (e *Engine) Execute(ctx context.Context, token *cancel.Token, config *model.WorkflowConfig, progress model.ProgressFunc) (map[model.StepName]model.StageResult, error) {
	if token == nil {
		token = cancel.New(ctx)
	}

	canonicalPath, kind, err := e.Validator.Validate(config)
	if err != nil {
		return nil, err
	}
	config.InputFile = canonicalPath

	state := &runState{fileType: kind}
	switch kind {
	case model.InputAudio:
		state.currentAudioFile = config.InputFile
	case model.InputTranscript:
		transcript, err := LoadTranscript(config.InputFile)
		if err != nil {
			return nil, err
		}
		state.currentTranscript = &transcript
	case model.InputVideo:
		// Neither slot is seeded; extract_audio must produce audio.
	}

	steps := BuildSteps(ctx, token, config, state, e.Caps)
	executable := FilterExecutableSteps(steps, kind)

	return e.Executor.Run(token, executable, progress)
}
