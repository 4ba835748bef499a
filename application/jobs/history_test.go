package jobs

import (
	"testing"
	"time"

	"github.com/summeets/engine/domain/model"
)

func TestSaveAndGetJob(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}

	record := model.JobRecord{
		JobID:     "job-1",
		JobType:   "workflow",
		Status:    model.JobRunning,
		InputFile: "meeting.m4a",
		StartedAt: time.Now(),
	}
	if err := store.SaveJob(record); err != nil {
		t.Fatalf("SaveJob error = %v", err)
	}

	got, ok := store.GetJob("job-1")
	if !ok {
		t.Fatalf("GetJob(job-1) not found")
	}
	if got.Status != model.JobRunning || got.InputFile != "meeting.m4a" {
		t.Errorf("GetJob = %+v, want matching saved record", got)
	}
	if got.SavedAt.IsZero() {
		t.Errorf("SavedAt not stamped")
	}
}

func TestSaveJobRequiresJobID(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}
	if err := store.SaveJob(model.JobRecord{}); err == nil {
		t.Errorf("SaveJob(no job id) = nil error, want rejection")
	}
}

func TestGetJobMissingReturnsFalse(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}
	if _, ok := store.GetJob("missing"); ok {
		t.Errorf("GetJob(missing) ok = true, want false")
	}
}

func TestUpdateJobMergesAndStampsUpdatedAt(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}
	if err := store.SaveJob(model.JobRecord{JobID: "job-2", Status: model.JobRunning, StartedAt: time.Now()}); err != nil {
		t.Fatalf("SaveJob error = %v", err)
	}

	updated, err := store.UpdateJob("job-2", func(r *model.JobRecord) {
		r.Status = model.JobCompleted
	})
	if err != nil {
		t.Fatalf("UpdateJob error = %v", err)
	}
	if !updated {
		t.Fatalf("UpdateJob(existing) = false, want true")
	}

	got, _ := store.GetJob("job-2")
	if got.Status != model.JobCompleted {
		t.Errorf("Status after update = %v, want completed", got.Status)
	}
	if got.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt not stamped after update")
	}
}

func TestUpdateJobMissingReturnsFalse(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}
	updated, err := store.UpdateJob("missing", func(r *model.JobRecord) {})
	if err != nil {
		t.Fatalf("UpdateJob error = %v", err)
	}
	if updated {
		t.Errorf("UpdateJob(missing) = true, want false")
	}
}

func TestDeleteJobIsIdempotent(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}
	if err := store.SaveJob(model.JobRecord{JobID: "job-3", StartedAt: time.Now()}); err != nil {
		t.Fatalf("SaveJob error = %v", err)
	}
	if err := store.DeleteJob("job-3"); err != nil {
		t.Fatalf("DeleteJob error = %v", err)
	}
	if err := store.DeleteJob("job-3"); err != nil {
		t.Errorf("DeleteJob(already deleted) error = %v, want nil (idempotent)", err)
	}
	if _, ok := store.GetJob("job-3"); ok {
		t.Errorf("GetJob after delete still found")
	}
}

func TestListJobsFiltersByStatusAndLimit(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i, status := range []model.JobStatus{model.JobCompleted, model.JobFailed, model.JobCompleted} {
		rec := model.JobRecord{
			JobID:     "job-" + string(rune('a'+i)),
			Status:    status,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveJob(rec); err != nil {
			t.Fatalf("SaveJob error = %v", err)
		}
	}

	completed := model.JobCompleted
	results, err := store.ListJobs(0, ListFilter{Status: &completed})
	if err != nil {
		t.Fatalf("ListJobs error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 completed jobs", len(results))
	}

	limited, err := store.ListJobs(1, ListFilter{})
	if err != nil {
		t.Fatalf("ListJobs error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(limited) = %d, want 1", len(limited))
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewHistoryStore error = %v", err)
	}
	now := time.Now()
	if err := store.SaveJob(model.JobRecord{JobID: "j1", Status: model.JobCompleted, StartedAt: now.Add(-2 * time.Hour)}); err != nil {
		t.Fatalf("SaveJob error = %v", err)
	}
	if err := store.SaveJob(model.JobRecord{JobID: "j2", Status: model.JobFailed, StartedAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("SaveJob error = %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats error = %v", err)
	}
	if stats.CountByStatus[model.JobCompleted] != 1 || stats.CountByStatus[model.JobFailed] != 1 {
		t.Errorf("CountByStatus = %+v, want 1 completed and 1 failed", stats.CountByStatus)
	}
	if stats.Oldest == nil || stats.Oldest.JobID != "j1" {
		t.Errorf("Oldest = %+v, want j1", stats.Oldest)
	}
	if stats.Newest == nil || stats.Newest.JobID != "j2" {
		t.Errorf("Newest = %+v, want j2", stats.Newest)
	}
}
