// Package jobs implements the two durable job stores the engine depends
// on: HistoryStore (one JSON file per job, replaced on each save) and
// StateManager (one live checkpoint file per running job, marked
// interrupted on shutdown).
package jobs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/summeets/engine/domain/model"
	pkgerrors "github.com/summeets/engine/pkg/errors"
	"github.com/summeets/engine/pkg/logger"
	"go.uber.org/zap"
)

// HistoryStore persists JobRecords as one JSON file per job under dir.
// Listing is best-effort ordered by mtime; there is no in-memory locking,
// so racing UpdateJob calls on the same id can lose the earlier patch —
// file-per-job isolation provides concurrency safety between distinct
// jobs, not within one.
type HistoryStore struct {
	dir string
	log *logger.Logger
}

// NewHistoryStore creates a store rooted at dir, creating it if absent.
func NewHistoryStore(dir string, log *logger.Logger) (*HistoryStore, error) {
	if log == nil {
		log, _ = logger.New(false)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.NewFileOperationError("mkdir", dir, err)
	}
	return &HistoryStore{dir: dir, log: log}, nil
}

func (s *HistoryStore) path(jobID string) string {
	return filepath.Join(s.dir, jobID+".json")
}

// SaveJob requires record.JobID, stamps SavedAt, and atomically replaces
// any prior file via temp-file-rename.
func (s *HistoryStore) SaveJob(record model.JobRecord) error {
	if record.JobID == "" {
		return pkgerrors.NewValidationError("job_id", record.JobID, "job_id is required")
	}
	record.SavedAt = time.Now()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return pkgerrors.NewFileOperationError("marshal", s.path(record.JobID), err)
	}
	if err := renameio.WriteFile(s.path(record.JobID), data, 0o644); err != nil {
		return pkgerrors.NewFileOperationError("write", s.path(record.JobID), err)
	}
	return nil
}

// GetJob returns the record, or (zero, false) if absent or malformed.
func (s *HistoryStore) GetJob(jobID string) (model.JobRecord, bool) {
	data, err := os.ReadFile(s.path(jobID))
	if err != nil {
		return model.JobRecord{}, false
	}
	var record model.JobRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.Warn("malformed job record", zap.String("job_id", jobID), zap.Error(err))
		return model.JobRecord{}, false
	}
	return record, true
}

// UpdateJob is a read-modify-write merge: patch overrides fields on the
// existing record, UpdatedAt is stamped, and true is returned iff the job
// existed. No cross-process locking is applied (see the store's doc
// comment) — an explicit, accepted tradeoff carried over unchanged.
func (s *HistoryStore) UpdateJob(jobID string, patch func(*model.JobRecord)) (bool, error) {
	record, ok := s.GetJob(jobID)
	if !ok {
		return false, nil
	}
	patch(&record)
	record.UpdatedAt = time.Now()
	if err := s.SaveJob(record); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteJob removes the job's file. Idempotent.
func (s *HistoryStore) DeleteJob(jobID string) error {
	err := os.Remove(s.path(jobID))
	if err != nil && !os.IsNotExist(err) {
		return pkgerrors.NewFileOperationError("remove", s.path(jobID), err)
	}
	return nil
}

// ListFilter narrows ListJobs.
type ListFilter struct {
	Status *model.JobStatus
	Since  *time.Time
}

// ListJobs scans dir sorted by file mtime descending, applying filters
// while reading, and returns at most limit records.
func (s *HistoryStore) ListJobs(limit int, filter ListFilter) ([]model.JobRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, pkgerrors.NewFileOperationError("readdir", s.dir, err)
	}

	type scored struct {
		mtime time.Time
		rec   model.JobRecord
	}
	var all []scored
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasSuffix(e.Name(), ".state.json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		jobID := strings.TrimSuffix(e.Name(), ".json")
		rec, ok := s.GetJob(jobID)
		if !ok {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		if filter.Since != nil && rec.StartedAt.Before(*filter.Since) {
			continue
		}
		all = append(all, scored{mtime: info.ModTime(), rec: rec})
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].mtime.After(all[j].mtime)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]model.JobRecord, len(all))
	for i, s := range all {
		out[i] = s.rec
	}
	return out, nil
}

// CleanupOldJobs deletes files whose mtime is older than days*24h and
// returns the count removed.
func (s *HistoryStore) CleanupOldJobs(days int) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, pkgerrors.NewFileOperationError("readdir", s.dir, err)
	}

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
				count++
			}
		}
	}
	return count, nil
}

// Stats returns counts by status and the oldest/newest records by
// StartedAt.
func (s *HistoryStore) Stats() (model.JobStats, error) {
	records, err := s.ListJobs(0, ListFilter{})
	if err != nil {
		return model.JobStats{}, err
	}

	stats := model.JobStats{CountByStatus: make(map[model.JobStatus]int)}
	for i := range records {
		r := records[i]
		stats.CountByStatus[r.Status]++
		if stats.Oldest == nil || r.StartedAt.Before(stats.Oldest.StartedAt) {
			stats.Oldest = &records[i]
		}
		if stats.Newest == nil || r.StartedAt.After(stats.Newest.StartedAt) {
			stats.Newest = &records[i]
		}
	}
	return stats, nil
}
