// Package summarize implements ports.Summarizer against OpenAI and
// Anthropic chat completion APIs. The prompt/template catalog itself is
// out of scope for this engine (the engine only sees the Summarizer
// capability); this package carries just enough of a template table to
// exercise the provider/template/auto_detect parameters spec.md names.
package summarize

import "strings"

// templatePrompt maps a summary_template tag to its system prompt.
// auto_detect_template, when set, overrides the caller's chosen
// template by a coarse keyword sniff of the transcript body.
var templatePrompt = map[string]string{
	"default":      "Summarize this meeting transcript, covering the main topics discussed, decisions reached, and action items.",
	"sop":          "Extract a standard operating procedure from this transcript: numbered steps, inputs, outputs, and owners.",
	"decision":     "Extract every decision made in this transcript, who made it, and what alternatives were considered.",
	"brainstorm":   "Summarize this brainstorming session as a list of ideas grouped by theme, noting which were favored.",
	"requirements": "Extract functional and non-functional requirements discussed in this transcript, as a numbered list.",
}

func promptFor(template string) string {
	if p, ok := templatePrompt[template]; ok {
		return p
	}
	return templatePrompt["default"]
}

// detectTemplate sniffs transcript text for keywords strongly
// associated with one of the non-default templates.
func detectTemplate(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "step 1") || strings.Contains(lower, "procedure"):
		return "sop"
	case strings.Contains(lower, "we decided") || strings.Contains(lower, "decision"):
		return "decision"
	case strings.Contains(lower, "what if we") || strings.Contains(lower, "brainstorm"):
		return "brainstorm"
	case strings.Contains(lower, "must support") || strings.Contains(lower, "requirement"):
		return "requirements"
	default:
		return "default"
	}
}

func templateName(tag string) string {
	switch tag {
	case "sop":
		return "Standard Operating Procedure"
	case "decision":
		return "Decision Log"
	case "brainstorm":
		return "Brainstorm Digest"
	case "requirements":
		return "Requirements Extract"
	default:
		return "Meeting Summary"
	}
}
