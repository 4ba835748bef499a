package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/summeets/engine/domain/model"
)

func TestClassify(t *testing.T) {
	cases := map[string]model.InputKind{
		"meeting.mp4":      model.InputVideo,
		"meeting.MKV":      model.InputVideo,
		"audio.m4a":        model.InputAudio,
		"audio.wav":        model.InputAudio,
		"transcript.json":  model.InputTranscript,
		"transcript.srt":   model.InputTranscript,
		"unknown.pdf":      model.InputUnknown,
		"no-extension":     model.InputUnknown,
	}
	for path, want := range cases {
		if got := Classify(path); got != want {
			t.Errorf("Classify(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	cases := []string{
		"../etc/passwd",
		"a/../../b",
		"..\\..\\windows",
		"..%2f..%2fetc",
	}
	for _, p := range cases {
		if _, err := ValidatePath(p, ""); err == nil {
			t.Errorf("ValidatePath(%q) = nil error, want rejection", p)
		}
	}
}

func TestValidatePathRejectsReservedNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"con", "COM1", "nul.txt"} {
		p := filepath.Join(dir, name)
		if _, err := ValidatePath(p, ""); err == nil {
			t.Errorf("ValidatePath(%q) = nil error, want rejection of reserved name", p)
		}
	}
}

func TestValidatePathAcceptsOrdinaryFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "meeting.mp4")
	resolved, err := ValidatePath(p, "")
	if err != nil {
		t.Fatalf("ValidatePath(%q) error = %v", p, err)
	}
	if !filepath.IsAbs(resolved) {
		t.Errorf("ValidatePath(%q) = %q, want absolute path", p, resolved)
	}
}

func TestValidatePathEnforcesRoot(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "video.mp4")
	outside := filepath.Join(t.TempDir(), "video.mp4")

	if _, err := ValidatePath(inside, root); err != nil {
		t.Errorf("ValidatePath(inside root) error = %v, want nil", err)
	}
	if _, err := ValidatePath(outside, root); err == nil {
		t.Errorf("ValidatePath(outside root) = nil error, want rejection")
	}
}

func TestValidateFileSizeSkipsTranscripts(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "big.json")
	if err := os.WriteFile(p, make([]byte, 10*1024*1024), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := ValidateFileSize(p, model.InputTranscript, 1); err != nil {
		t.Errorf("ValidateFileSize(transcript) error = %v, want nil (never size-gated)", err)
	}
}

func TestValidateFileSizeRejectsOversizedAudio(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "big.wav")
	if err := os.WriteFile(p, make([]byte, 2*1024*1024), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := ValidateFileSize(p, model.InputAudio, 1); err == nil {
		t.Errorf("ValidateFileSize(2MB, cap=1MB) = nil error, want rejection")
	}
}

func TestValidateWorkflowInputComposesChecks(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "meeting.m4a")
	if err := os.WriteFile(p, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	resolved, kind, err := ValidateWorkflowInput(p, "", 0)
	if err != nil {
		t.Fatalf("ValidateWorkflowInput error = %v", err)
	}
	if kind != model.InputAudio {
		t.Errorf("kind = %v, want InputAudio", kind)
	}
	if !strings.HasSuffix(resolved, "meeting.m4a") {
		t.Errorf("resolved = %q, want suffix meeting.m4a", resolved)
	}
}

func TestValidateWorkflowInputRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "notes.pdf")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := ValidateWorkflowInput(p, "", 0); err == nil {
		t.Errorf("ValidateWorkflowInput(.pdf) = nil error, want rejection")
	}
}

func TestValidateOutputDirectoryCreatesMissing(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "nested", "output")

	resolved, err := ValidateOutputDirectory(target)
	if err != nil {
		t.Fatalf("ValidateOutputDirectory error = %v", err)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		t.Errorf("ValidateOutputDirectory did not create a directory at %q", resolved)
	}
}
