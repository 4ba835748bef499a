// Package classify implements input classification and the path/size
// validators that gate which workflow steps run: extension-based
// InputKind detection, path-traversal and reserved-name rejection, and
// the 500 MB default size cap for video/audio inputs.
package classify

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/summeets/engine/domain/model"
	pkgerrors "github.com/summeets/engine/pkg/errors"
)

const (
	// MaxPathLength mirrors the Windows MAX_PATH limit, enforced on all
	// platforms for consistent behavior.
	MaxPathLength = 260
	// MaxFilenameLength bounds a single path component.
	MaxFilenameLength = 255
	// DefaultMaxUploadMB is the default size cap for video/audio inputs.
	DefaultMaxUploadMB = 500
)

var (
	videoExtensions = map[string]bool{
		".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
		".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	}
	audioExtensions = map[string]bool{
		".m4a": true, ".mka": true, ".ogg": true, ".mp3": true,
		".wav": true, ".webm": true, ".flac": true,
	}
	transcriptExtensions = map[string]bool{
		".json": true, ".txt": true, ".srt": true,
	}

	// reservedBasenames are Windows device names, rejected regardless of
	// extension or case.
	reservedBasenames = map[string]bool{
		"con": true, "prn": true, "aux": true, "nul": true,
		"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
		"com6": true, "com7": true, "com8": true, "com9": true,
		"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
		"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
	}

	// traversalPattern catches literal, URL-encoded and double
	// URL-encoded ../ sequences, forward or backward slash.
	traversalPattern = regexp.MustCompile(`(?i)\.\.[\\/]|[\\/]\.\.[\\/]|[\\/]\.\.$|\.\.%2f|\.\.%5c|%2e%2e%2f|%252e%252e%252f`)
	// invalidCharPattern matches characters illegal in filenames on
	// common filesystems plus control characters.
	invalidCharPattern = regexp.MustCompile(`[<>"|*?\x00-\x1f\x7f-\x9f]`)
)

// Classify detects an InputKind from path's extension alone.
func Classify(path string) model.InputKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return model.InputVideo
	case audioExtensions[ext]:
		return model.InputAudio
	case transcriptExtensions[ext]:
		return model.InputTranscript
	default:
		return model.InputUnknown
	}
}

// ValidatePath rejects traversal tokens, invalid/control characters,
// Windows-reserved basenames, and overlong paths, then resolves path to
// an absolute, symlink-free form. If root is non-empty, the resolved
// path must fall under it.
func ValidatePath(path string, root string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", pkgerrors.NewValidationError("path", path, "path cannot be empty")
	}

	cleaned := strings.Trim(strings.TrimSpace(path), `"'`)
	if cleaned == "" {
		return "", pkgerrors.NewValidationError("path", path, "path cannot be empty after cleaning")
	}
	if len(cleaned) > MaxPathLength {
		return "", pkgerrors.NewValidationError("path", path, "path too long (max 260 characters)")
	}
	if traversalPattern.MatchString(cleaned) {
		return "", pkgerrors.NewValidationError("path", path, "path contains directory traversal patterns")
	}
	if invalidCharPattern.MatchString(cleaned) {
		return "", pkgerrors.NewValidationError("path", path, "path contains invalid characters")
	}

	base := filepath.Base(cleaned)
	if len(base) > MaxFilenameLength {
		return "", pkgerrors.NewValidationError("path", path, "file name too long (max 255 characters)")
	}
	name := strings.ToLower(strings.SplitN(base, ".", 2)[0])
	if reservedBasenames[name] {
		return "", pkgerrors.NewValidationError("path", path, "path uses a reserved device name")
	}

	resolved, err := filepath.Abs(cleaned)
	if err != nil {
		return "", pkgerrors.NewValidationError("path", path, "failed to resolve path: "+err.Error())
	}
	if real, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = real
	}

	if root != "" {
		rootResolved, err := filepath.Abs(root)
		if err == nil {
			if real, err := filepath.EvalSymlinks(rootResolved); err == nil {
				rootResolved = real
			}
		}
		rel, err := filepath.Rel(rootResolved, resolved)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", pkgerrors.NewValidationError("path", path, "path is outside the allowed root: "+rootResolved)
		}
	}

	return resolved, nil
}

// ValidateFileSize enforces maxMB for video/audio inputs. kind ==
// model.InputTranscript is never size-gated. maxMB <= 0 uses
// DefaultMaxUploadMB.
func ValidateFileSize(path string, kind model.InputKind, maxMB int) error {
	if kind == model.InputTranscript {
		return nil
	}
	if maxMB <= 0 {
		maxMB = DefaultMaxUploadMB
	}

	info, err := os.Stat(path)
	if err != nil {
		return pkgerrors.NewFileNotFoundError(path, err)
	}

	maxBytes := int64(maxMB) * 1024 * 1024
	if info.Size() > maxBytes {
		return pkgerrors.NewValidationError(
			"file_size",
			strconv.FormatInt(info.Size(), 10),
			"file exceeds the "+strconv.Itoa(maxMB)+" MB size cap",
		)
	}
	return nil
}

// ValidateWorkflowInput composes ValidatePath, Classify, and
// ValidateFileSize, and confirms path names an existing regular file.
// It is the single entry point the workflow engine's setup stage calls
// before any step runs.
func ValidateWorkflowInput(path string, root string, maxMB int) (string, model.InputKind, error) {
	resolved, err := ValidatePath(path, root)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", "", pkgerrors.NewFileNotFoundError(resolved, err)
	}
	if info.IsDir() {
		return "", "", pkgerrors.NewValidationError("path", resolved, "input path is a directory, not a file")
	}

	kind := Classify(resolved)
	if kind == model.InputUnknown {
		return "", "", pkgerrors.NewValidationError("path", resolved, "unsupported file format: "+filepath.Ext(resolved))
	}

	if err := ValidateFileSize(resolved, kind, maxMB); err != nil {
		return "", "", err
	}

	return resolved, kind, nil
}

// ValidateOutputDirectory resolves path, creates it (with parents) if
// absent, and confirms it is a directory. Write permission is not checked.
func ValidateOutputDirectory(path string) (string, error) {
	resolved, err := ValidatePath(path, "")
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	switch {
	case err == nil && !info.IsDir():
		return "", pkgerrors.NewValidationError("path", resolved, "output path exists but is not a directory")
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(resolved, 0o755); mkErr != nil {
			return "", pkgerrors.NewFileOperationError("mkdir", resolved, mkErr)
		}
	case err != nil:
		return "", pkgerrors.NewFileOperationError("stat", resolved, err)
	}

	return resolved, nil
}
