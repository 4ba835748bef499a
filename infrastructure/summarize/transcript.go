package summarize

import (
	"encoding/json"
	"os"
	"strings"

	pkgerrors "github.com/summeets/engine/pkg/errors"
)

type transcriptSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

// readTranscriptText loads transcriptPath and flattens it into plain
// text for the prompt. JSON transcripts (bare array or {segments:[...]}
// wrapper) are joined speaker-prefixed per line; anything else is used
// verbatim, matching the permissive shapes spec.md §6.3 allows.
func readTranscriptText(transcriptPath string) (string, error) {
	raw, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", pkgerrors.NewFileNotFoundError(transcriptPath, err)
	}

	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil && len(segments) > 0 {
		return joinSegments(segments), nil
	}

	var wrapped struct {
		Segments []transcriptSegment `json:"segments"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Segments) > 0 {
		return joinSegments(wrapped.Segments), nil
	}

	return string(raw), nil
}

func joinSegments(segments []transcriptSegment) string {
	var sb strings.Builder
	for _, s := range segments {
		if s.Speaker != "" {
			sb.WriteString("[" + s.Speaker + "] ")
		}
		sb.WriteString(s.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
