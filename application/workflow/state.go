package workflow

import (
	"path/filepath"
	"strings"

	"github.com/summeets/engine/domain/model"
	"github.com/summeets/engine/domain/ports"
	"github.com/summeets/engine/pkg/shutdown"
)

// runState is the mutable context threaded through one engine run. It
// holds the slots the source carried on its workflow object:
// current_audio_file and current_transcript.
type runState struct {
	fileType          model.InputKind
	currentAudioFile  string
	currentTranscript *model.Transcript
}

// Capabilities bundles the external collaborators one engine run
// invokes. Nil fields are valid as long as no selected step needs them.
// Shutdown is optional: when set, each file a capability call returns is
// registered as a temp path after that call returns and unregistered once
// the stage succeeds, so files left by a stage that fails later are still
// removed by Close. A file from an interrupted capability call is not
// tracked.
type Capabilities struct {
	Extractor   ports.AudioExtractor
	Conditioner ports.AudioConditioner
	Transcriber ports.Transcriber
	Summarizer  ports.Summarizer
	Layout      ports.DataLayout
	Shutdown    *shutdown.Manager
}

// stemOf derives the artifact stem the data/ tree keys on: the input
// basename with its extension and known processing suffixes stripped,
// per the persisted-state layout's {stem} convention.
func stemOf(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, suffix := range []string{"_extracted", "_volume", "_normalized"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return base
}
