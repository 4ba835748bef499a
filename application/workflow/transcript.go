package workflow

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/summeets/engine/domain/model"
	pkgerrors "github.com/summeets/engine/pkg/errors"
)

// LoadTranscript reads path and parses it into a Transcript according to
// its extension: JSON accepts both a bare segment array and a
// {"segments": [...]} wrapper; TXT is wrapped as a single segment
// holding the whole trimmed text, with zero start and end times and no
// speaker; SRT/WebVTT are parsed into timecoded
// segments.
func LoadTranscript(path string) (model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Transcript{}, pkgerrors.NewFileNotFoundError(path, err)
	}

	ext := strings.ToLower(strings.TrimPrefix(extOf(path), "."))
	switch ext {
	case "json":
		segments, err := parseJSONSegments(data)
		if err != nil {
			return model.Transcript{}, err
		}
		return model.Transcript{Segments: segments, Duration: durationOf(segments), OutputFile: path}, nil
	case "srt", "vtt":
		segments := parseSRT(string(data))
		return model.Transcript{Segments: segments, Duration: durationOf(segments), OutputFile: path}, nil
	default:
		text := strings.TrimSpace(string(data))
		segments := []model.Segment{{Start: 0, End: 0, Text: text}}
		return model.Transcript{Segments: segments, Duration: 0, OutputFile: path}, nil
	}
}

func extOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

func durationOf(segments []model.Segment) time.Duration {
	var max float64
	for _, s := range segments {
		if s.End > max {
			max = s.End
		}
	}
	return time.Duration(max * float64(time.Second))
}

type jsonSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
	Words   []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"words,omitempty"`
}

func parseJSONSegments(data []byte) ([]model.Segment, error) {
	var asArray []jsonSegment
	if err := json.Unmarshal(data, &asArray); err == nil {
		return toModelSegments(asArray), nil
	}

	var wrapped struct {
		Segments []jsonSegment `json:"segments"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, pkgerrors.NewValidationError("transcript", "", "JSON transcript must be a list or an object with a segments field")
	}
	return toModelSegments(wrapped.Segments), nil
}

func toModelSegments(in []jsonSegment) []model.Segment {
	out := make([]model.Segment, len(in))
	for i, s := range in {
		words := make([]model.Word, len(s.Words))
		for j, w := range s.Words {
			words[j] = model.Word{Start: w.Start, End: w.End, Text: w.Text}
		}
		out[i] = model.Segment{Start: s.Start, End: s.End, Text: s.Text, Speaker: s.Speaker, Words: words}
	}
	return out
}

var srtTimecodeLine = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// parseSRT parses SubRip/WebVTT-shaped blocks: an optional index line, a
// timecode line, and one or more text lines, separated by blank lines.
func parseSRT(content string) []model.Segment {
	var segments []model.Segment
	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")

	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 {
			continue
		}

		var timecodeIdx = -1
		for i, line := range lines {
			if srtTimecodeLine.MatchString(line) {
				timecodeIdx = i
				break
			}
		}
		if timecodeIdx < 0 {
			continue
		}

		m := srtTimecodeLine.FindStringSubmatch(lines[timecodeIdx])
		start := srtSeconds(m[1], m[2], m[3], m[4])
		end := srtSeconds(m[5], m[6], m[7], m[8])

		text := strings.TrimSpace(strings.Join(lines[timecodeIdx+1:], "\n"))
		speaker := ""
		if strings.HasPrefix(text, "[") {
			if close := strings.IndexByte(text, ']'); close > 0 {
				speaker = text[1:close]
				text = strings.TrimSpace(text[close+1:])
			}
		}

		segments = append(segments, model.Segment{Start: start, End: end, Text: text, Speaker: speaker})
	}

	return segments
}

func srtSeconds(h, m, s, ms string) float64 {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	millis, _ := strconv.Atoi(ms)
	return float64(hh*3600+mm*60+ss) + float64(millis)/1000.0
}

// FormatSRT renders segments as SubRip text, with a bracketed speaker
// prefix when present.
func FormatSRT(segments []model.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(srtTimecode(seg.Start))
		b.WriteString(" --> ")
		b.WriteString(srtTimecode(seg.End))
		b.WriteByte('\n')
		if seg.Speaker != "" {
			b.WriteString("[" + seg.Speaker + "] ")
		}
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

func srtTimecode(seconds float64) string {
	total := int64(seconds * 1000)
	ms := total % 1000
	total /= 1000
	s := total % 60
	total /= 60
	m := total % 60
	total /= 60
	h := total
	return pad(h, 2) + ":" + pad(m, 2) + ":" + pad(s, 2) + "," + pad(ms, 3)
}

func pad(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
