package transcribe

import (
	"context"
	"strings"

	"github.com/summeets/engine/domain/ports"
	"github.com/summeets/engine/pkg/cancel"
	"github.com/summeets/engine/pkg/logger"
	"go.uber.org/zap"
)

// Router implements ports.Transcriber, dispatching to the Replicate or
// OpenAI Whisper adapter based on the shape of the requested model:
// Replicate model ids are always "owner/model" (e.g.
// "thomasmol/whisper-diarization", the engine's diarizing default);
// anything without a slash (e.g. "whisper-1") is an OpenAI model name.
type Router struct {
	Replicate *ReplicateTranscriber
	OpenAI    *OpenAIWhisperTranscriber
	log       *logger.Logger
}

// NewRouter builds a Router resolving its two providers' credentials
// from creds.
func NewRouter(creds ports.CredentialStore) *Router {
	return NewRouterWithLogger(creds, nil)
}

// NewRouterWithLogger builds a Router logging through log instead of a
// fresh default logger.
func NewRouterWithLogger(creds ports.CredentialStore, log *logger.Logger) *Router {
	if log == nil {
		log, _ = logger.New(false)
	}
	replicateToken, _ := creds.Get(ports.CredentialSTT)
	openaiKey, _ := creds.Get(ports.CredentialOpenAI)
	return &Router{
		Replicate: NewReplicateTranscriber(replicateToken),
		OpenAI:    NewOpenAIWhisperTranscriber(openaiKey),
		log:       log,
	}
}

func (r *Router) Transcribe(ctx context.Context, token *cancel.Token, audioPath, modelName, language, outputDir string) (string, error) {
	var (
		path string
		err  error
	)
	if strings.Contains(modelName, "/") {
		path, err = r.Replicate.Transcribe(ctx, token, audioPath, modelName, language, outputDir)
	} else {
		path, err = r.OpenAI.Transcribe(ctx, token, audioPath, modelName, language, outputDir)
	}
	if err != nil {
		log := r.log
		if log == nil {
			log, _ = logger.New(false)
		}
		log.Warn("transcription failed",
			zap.String("model", modelName),
			zap.String("error", logger.Sanitize(err.Error())),
		)
	}
	return path, err
}
