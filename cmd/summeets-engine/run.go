package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/summeets/engine/application/workflow"
	"github.com/summeets/engine/domain/model"
	"github.com/summeets/engine/pkg/cancel"
	"github.com/summeets/engine/pkg/progress"
)

func runCmd() *cobra.Command {
	var (
		configPath  string
		dataDir     string
		extract     bool
		process     bool
		transcribe  bool
		summarize   bool
		audioFormat string
		quality     string
		normalize   bool
		provider    string
		modelName   string
		template    string
		language    string
		presetFile  string
		presetName  string
	)

	cmd := &cobra.Command{
		Use:   "run <input-file>",
		Short: "Run the workflow engine end to end on one input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, dataDir)
			if err != nil {
				return err
			}
			defer a.Close()

			inputFile := args[0]
			config := model.DefaultWorkflowConfig(inputFile, a.layout.VideoDir())
			if presetFile != "" {
				preset, err := workflow.LoadPreset(presetFile, presetName)
				if err != nil {
					return err
				}
				preset.Apply(config)
			}
			if cmd.Flags().Changed("extract") {
				config.ExtractAudio = extract
			}
			if cmd.Flags().Changed("process") {
				config.ProcessAudio = process
			}
			if cmd.Flags().Changed("transcribe") {
				config.Transcribe = transcribe
			}
			if cmd.Flags().Changed("summarize") {
				config.Summarize = summarize
			}
			if audioFormat != "" {
				config.AudioFormat = audioFormat
			}
			if quality != "" {
				config.AudioQuality = quality
			}
			if cmd.Flags().Changed("normalize") {
				config.NormalizeAudio = normalize
			}
			if provider != "" {
				config.Provider = provider
			}
			if modelName != "" {
				config.Model = modelName
			}
			if template != "" {
				config.SummaryTemplate = template
			}
			if language != "" {
				config.Language = language
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			token := cancel.New(ctx)

			jobID := uuid.NewString()
			a.state.StartJob(jobID, map[string]any{"input_file": inputFile})
			a.history.SaveJob(model.JobRecord{
				JobID:     jobID,
				JobType:   "workflow",
				Status:    model.JobStarted,
				InputFile: inputFile,
			})

			progressFunc := model.ProgressFunc(progress.ToFunc(jobID, progress.NewChannelReporter(consoleChannel())))

			results, err := a.engine.Execute(ctx, token, config, progressFunc)
			if err != nil {
				a.state.FailJob(err.Error())
				a.history.UpdateJob(jobID, func(r *model.JobRecord) {
					r.Status = model.JobFailed
					r.ErrorMessage = err.Error()
				})
				return fmt.Errorf("workflow failed: %w", err)
			}

			a.state.CompleteJob(map[string]any{"steps": len(results)})
			a.history.UpdateJob(jobID, func(r *model.JobRecord) {
				r.Status = model.JobCompleted
				r.Outputs = map[string]any{"steps": len(results)}
			})

			for name, result := range results {
				if result.Skipped {
					fmt.Printf("%-14s skipped: %s\n", name, result.Reason)
					continue
				}
				fmt.Printf("%-14s done\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "root of the persisted data tree")
	cmd.Flags().BoolVar(&extract, "extract", true, "extract audio from video input")
	cmd.Flags().BoolVar(&process, "process", true, "apply audio conditioning")
	cmd.Flags().BoolVar(&transcribe, "transcribe", true, "run speech-to-text")
	cmd.Flags().BoolVar(&summarize, "summarize", true, "run LLM summarization")
	cmd.Flags().StringVar(&audioFormat, "audio-format", "", "output audio format (m4a|mp3|wav|flac)")
	cmd.Flags().StringVar(&quality, "quality", "", "audio quality (low|medium|high)")
	cmd.Flags().BoolVar(&normalize, "normalize", true, "apply loudness normalization")
	cmd.Flags().StringVar(&provider, "provider", "", "summarization provider (openai|anthropic)")
	cmd.Flags().StringVar(&modelName, "model", "", "summarization model")
	cmd.Flags().StringVar(&template, "template", "", "summary template")
	cmd.Flags().StringVar(&language, "language", "", "transcription language (BCP-47 or auto)")
	cmd.Flags().StringVar(&presetFile, "preset-file", "", "TOML file of named [preset.NAME] defaults")
	cmd.Flags().StringVar(&presetName, "preset", "", "preset name to apply before flag overrides")

	return cmd
}

// consoleChannel returns a buffered channel with a background drain
// that prints each progress update; a real front-end would consume it
// directly instead.
func consoleChannel() chan progress.Update {
	ch := make(chan progress.Update, 32)
	go func() {
		for upd := range ch {
			fmt.Printf("[%s] %-14s %3.0f%%  %s\n", upd.JobID[:8], upd.Stage, upd.Percent, upd.Message)
		}
	}()
	return ch
}
