// Package storage implements ports.DataLayout against the local
// filesystem's persisted data/ tree (spec §6.2): video/, audio/{stem}/,
// transcript/{stem}/, summary/{stem}/{template}/, temp/, jobs/.
package storage

import (
	"context"
	"os"
	"path/filepath"
)

// LocalLayout implements ports.DataLayout rooted at baseDir.
type LocalLayout struct {
	baseDir string
}

// NewLocalLayout roots a layout at baseDir (default "data" if empty).
func NewLocalLayout(baseDir string) *LocalLayout {
	if baseDir == "" {
		baseDir = "data"
	}
	return &LocalLayout{baseDir: baseDir}
}

// VideoDir returns data/video.
func (l *LocalLayout) VideoDir() string {
	return filepath.Join(l.baseDir, "video")
}

// GetAudioPath returns data/audio/{stem}/{stem}.{format}.
func (l *LocalLayout) GetAudioPath(stem, format string) string {
	return filepath.Join(l.baseDir, "audio", stem, stem+"."+format)
}

// GetTranscriptSubdir returns data/transcript/{stem}.
func (l *LocalLayout) GetTranscriptSubdir(stem string) string {
	return filepath.Join(l.baseDir, "transcript", stem)
}

// GetSummarySubdir returns data/summary/{stem}/{template}.
func (l *LocalLayout) GetSummarySubdir(stem, template string) string {
	return filepath.Join(l.baseDir, "summary", stem, template)
}

// JobsDir returns data/jobs.
func (l *LocalLayout) JobsDir() string {
	return filepath.Join(l.baseDir, "jobs")
}

// TempDir returns data/temp.
func (l *LocalLayout) TempDir() string {
	return filepath.Join(l.baseDir, "temp")
}

// EnsureTree creates every directory in the layout, parents included.
func (l *LocalLayout) EnsureTree() error {
	for _, dir := range []string{l.VideoDir(), l.JobsDir(), l.TempDir(),
		filepath.Join(l.baseDir, "audio"), filepath.Join(l.baseDir, "transcript"), filepath.Join(l.baseDir, "summary")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Exists checks if a file exists.
func (l *LocalLayout) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Size returns file size in bytes.
func (l *LocalLayout) Size(_ context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes a file.
func (l *LocalLayout) Remove(_ context.Context, path string) error {
	return os.Remove(path)
}

// TempFile creates a temp file under data/temp (or dir, if given) and
// returns its absolute path.
func (l *LocalLayout) TempFile(_ context.Context, dir, pattern string) (string, error) {
	if dir == "" {
		dir = l.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return filepath.Abs(f.Name())
}
