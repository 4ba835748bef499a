package main

import (
	"fmt"

	"github.com/summeets/engine/application/jobs"
	"github.com/summeets/engine/application/workflow"
	"github.com/summeets/engine/infrastructure/audio"
	"github.com/summeets/engine/infrastructure/credentials"
	"github.com/summeets/engine/infrastructure/ffmpeg"
	"github.com/summeets/engine/infrastructure/storage"
	"github.com/summeets/engine/infrastructure/summarize"
	"github.com/summeets/engine/infrastructure/transcribe"
	pkgconfig "github.com/summeets/engine/pkg/config"
	"github.com/summeets/engine/pkg/logger"
	"github.com/summeets/engine/pkg/shutdown"
)

// app bundles every dependency a subcommand needs, built once per
// invocation from process configuration.
type app struct {
	cfg      *pkgconfig.Config
	log      *logger.Logger
	layout   *storage.LocalLayout
	engine   *workflow.Engine
	history  *jobs.HistoryStore
	state    *jobs.StateManager
	shutdown *shutdown.Manager
}

func newApp(configPath, dataDir string) (*app, error) {
	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Environment == "development")
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	sm := shutdown.New(log)
	sm.InstallSignalHandlers()

	layout := storage.NewLocalLayout(dataDir)
	if err := layout.EnsureTree(); err != nil {
		return nil, fmt.Errorf("preparing data directory: %w", err)
	}

	history, err := jobs.NewHistoryStore(layout.JobsDir(), log)
	if err != nil {
		return nil, fmt.Errorf("opening job history: %w", err)
	}
	state, err := jobs.NewStateManager(layout.JobsDir(), sm, log)
	if err != nil {
		return nil, fmt.Errorf("opening job state: %w", err)
	}

	exec, err := ffmpeg.NewExecutor(ffmpeg.ExecutorConfig{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("locating ffmpeg: %w", err)
	}
	audioAdapter := audio.New(exec)
	credStore := credentials.New(cfg)

	validator := workflow.NewValidator("", cfg.MaxUploadMB)
	caps := workflow.Capabilities{
		Extractor:   audioAdapter,
		Conditioner: audioAdapter,
		Transcriber: transcribe.NewRouterWithLogger(credStore, log),
		Summarizer:  summarize.NewWithConfig(credStore, log, cfg.SummaryChunkSeconds, cfg.SummaryCoDPasses),
		Layout:      layout,
		Shutdown:    sm,
	}
	engine := workflow.NewEngine(validator, caps, log)

	return &app{
		cfg:      cfg,
		log:      log,
		layout:   layout,
		engine:   engine,
		history:  history,
		state:    state,
		shutdown: sm,
	}, nil
}

func (a *app) Close() error {
	return a.shutdown.Close()
}
