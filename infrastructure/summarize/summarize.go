package summarize

import (
	"context"

	"github.com/summeets/engine/domain/ports"
	"github.com/summeets/engine/pkg/cancel"
	pkgerrors "github.com/summeets/engine/pkg/errors"
	"github.com/summeets/engine/pkg/logger"
	"go.uber.org/zap"
)

// defaultChunkSeconds and defaultCoDPasses mirror pkg/config.Defaults,
// used when a Router is built without an explicit configuration (e.g.
// in tests that only exercise the dispatch/credential paths).
const (
	defaultChunkSeconds = 1800
	defaultCoDPasses    = 2
)

// Router implements ports.Summarizer, dispatching each call to the
// OpenAI or Anthropic backend named by the provider argument and
// resolving its API key from creds on demand. ChunkSeconds and
// CodPasses are echoed into each summary's metadata per spec §6.3/§6.4;
// the chunk-and-condense pipeline they describe is not implemented.
type Router struct {
	creds        ports.CredentialStore
	log          *logger.Logger
	chunkSeconds int
	codPasses    int
}

// New builds a Router resolving provider credentials from creds.
func New(creds ports.CredentialStore) *Router {
	return NewWithLogger(creds, nil)
}

// NewWithLogger builds a Router logging through log instead of a fresh
// default logger.
func NewWithLogger(creds ports.CredentialStore, log *logger.Logger) *Router {
	return NewWithConfig(creds, log, defaultChunkSeconds, defaultCoDPasses)
}

// NewWithConfig builds a Router that echoes chunkSeconds/codPasses
// (SUMMARY_CHUNK_SECONDS/SUMMARY_COD_PASSES) into each summary's
// metadata. log may be nil, in which case a production logger is
// created lazily.
func NewWithConfig(creds ports.CredentialStore, log *logger.Logger, chunkSeconds, codPasses int) *Router {
	if log == nil {
		log, _ = logger.New(false)
	}
	return &Router{creds: creds, log: log, chunkSeconds: chunkSeconds, codPasses: codPasses}
}

// Summarize implements ports.Summarizer.
func (r *Router) Summarize(ctx context.Context, token *cancel.Token, transcriptPath, provider, model, template string, autoDetect bool, outputDir string) (string, map[string]any, error) {
	path, meta, err := r.summarize(ctx, token, transcriptPath, provider, model, template, autoDetect, outputDir)
	if err != nil {
		r.log.Warn("summarization failed",
			zap.String("provider", provider),
			zap.String("error", logger.Sanitize(err.Error())),
		)
	}
	return path, meta, err
}

func (r *Router) summarize(ctx context.Context, token *cancel.Token, transcriptPath, provider, model, template string, autoDetect bool, outputDir string) (string, map[string]any, error) {
	switch provider {
	case "openai":
		apiKey, ok := r.creds.Get(ports.CredentialOpenAI)
		if !ok {
			return "", nil, pkgerrors.NewConfigurationError(ports.CredentialOpenAI, "OpenAI credential is not configured", nil)
		}
		return summarizeOpenAI(ctx, token, apiKey, transcriptPath, model, template, autoDetect, outputDir, r.chunkSeconds, r.codPasses)
	case "anthropic":
		apiKey, ok := r.creds.Get(ports.CredentialAnthropic)
		if !ok {
			return "", nil, pkgerrors.NewConfigurationError(ports.CredentialAnthropic, "Anthropic credential is not configured", nil)
		}
		return summarizeAnthropic(token, apiKey, transcriptPath, model, template, autoDetect, outputDir, r.chunkSeconds, r.codPasses)
	default:
		return "", nil, pkgerrors.NewValidationError("provider", provider, "unknown summarization provider")
	}
}
