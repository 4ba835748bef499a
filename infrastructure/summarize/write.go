package summarize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/summeets/engine/pkg/errors"
)

type summaryDocument struct {
	Transcript      string `json:"transcript"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	ChunkSeconds    int    `json:"chunk_seconds"`
	CodPasses       int    `json:"cod_passes"`
	Template        string `json:"template"`
	TemplateName    string `json:"template_name"`
	AutoDetected    bool   `json:"auto_detected"`
	Timestamp       string `json:"timestamp"`
	Summary         string `json:"summary"`
}

// writeSummary persists both the JSON and Markdown summary artifacts
// under outputDir/{stem}.summary.{json,md} and returns the JSON path
// plus a metadata map mirroring its fields, per spec.md §6.3.
func writeSummary(outputDir, transcriptPath, provider, model, template string, autoDetected bool, body string, timestamp time.Time, chunkSeconds, codPasses int) (string, map[string]any, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, pkgerrors.NewFileOperationError("mkdir", outputDir, err)
	}

	stem := trimExt(filepath.Base(transcriptPath))
	doc := summaryDocument{
		Transcript:   transcriptPath,
		Provider:     provider,
		Model:        model,
		ChunkSeconds: chunkSeconds,
		CodPasses:    codPasses,
		Template:     template,
		TemplateName: templateName(template),
		AutoDetected: autoDetected,
		Timestamp:    timestamp.UTC().Format(time.RFC3339),
		Summary:      body,
	}

	jsonPath := filepath.Join(outputDir, stem+".summary.json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", nil, pkgerrors.NewFileOperationError("marshal", jsonPath, err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", nil, pkgerrors.NewFileOperationError("write", jsonPath, err)
	}

	mdPath := filepath.Join(outputDir, stem+".summary.md")
	md := renderMarkdown(doc)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return "", nil, pkgerrors.NewFileOperationError("write", mdPath, err)
	}

	metadata := map[string]any{
		"transcript":    doc.Transcript,
		"provider":      doc.Provider,
		"model":         doc.Model,
		"chunk_seconds": doc.ChunkSeconds,
		"cod_passes":    doc.CodPasses,
		"template":      doc.Template,
		"template_name": doc.TemplateName,
		"auto_detected": doc.AutoDetected,
		"timestamp":     doc.Timestamp,
		"markdown_file": mdPath,
	}
	return jsonPath, metadata, nil
}

func renderMarkdown(doc summaryDocument) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.TemplateName)
	fmt.Fprintf(&sb, "- Transcript: %s\n", doc.Transcript)
	fmt.Fprintf(&sb, "- Provider: %s (%s)\n", doc.Provider, doc.Model)
	fmt.Fprintf(&sb, "- Generated: %s\n\n", doc.Timestamp)
	sb.WriteString(doc.Summary)
	sb.WriteString("\n")
	return sb.String()
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext)
}
