// Package pool implements the bounded worker pool the workflow engine runs
// inside: each task waits for a worker slot in its own goroutine, so the
// start order of waiting tasks is not guaranteed to match submission
// order; no priority, no work stealing, per-task status
// tracking, and an on_complete callback whose panics are swallowed.
// Generalized from the teacher's semaphore-plus-WaitGroup batch runner to
// arbitrary named, cancellable tasks.
package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/summeets/engine/domain/model"
	"github.com/summeets/engine/pkg/cancel"
	"github.com/summeets/engine/pkg/logger"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned by Submit after Shutdown.
type ErrPoolClosed struct{}

func (ErrPoolClosed) Error() string { return "worker pool is closed" }

// TaskFunc is the unit of work a task runs. It receives the token the pool
// assigned (caller-supplied or pool-generated) so it can check/honor
// cancellation at its own suspension points.
type TaskFunc func(ctx context.Context, token *cancel.Token) (any, error)

// OnComplete fires once a task settles. Panics inside it are swallowed —
// one misbehaving callback must not break the pool.
type OnComplete func(result model.TaskResult)

// Pool is a bounded pool of N parallel workers.
type Pool struct {
	workers int
	log     *logger.Logger

	mu       sync.Mutex
	sem      chan struct{}
	wg       sync.WaitGroup
	tasks    map[string]*taskEntry
	order    []string // FIFO submission order, for wait_all determinism
	closed   bool
}

type taskEntry struct {
	task       model.ManagedTask
	token      *cancel.Token
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// New creates a pool with the given worker width (default 4 if <= 0).
func New(workers int, log *logger.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log, _ = logger.New(false)
	}
	return &Pool{
		workers: workers,
		log:     log,
		sem:     make(chan struct{}, workers),
		tasks:   make(map[string]*taskEntry),
	}
}

// Submit schedules fn for execution and returns its task id. If id is
// empty, a uuid is generated. token, if nil, is created fresh from ctx.
func (p *Pool) Submit(ctx context.Context, fn TaskFunc, name, id string, token *cancel.Token, onComplete OnComplete) (string, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", ErrPoolClosed{}
	}
	if id == "" {
		id = uuid.NewString()
	}
	if token == nil {
		token = cancel.New(ctx)
	}

	entry := &taskEntry{
		task: model.ManagedTask{
			ID:     id,
			Name:   name,
			Status: model.TaskPending,
		},
		token: token,
		done:  make(chan struct{}),
	}
	p.tasks[id] = entry
	p.order = append(p.order, id)
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx, entry, fn, onComplete)

	return id, nil
}

func (p *Pool) run(ctx context.Context, entry *taskEntry, fn TaskFunc, onComplete OnComplete) {
	defer p.wg.Done()
	defer close(entry.done)

	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		p.settle(entry, model.TaskCancelled, nil, ctx.Err(), 0)
		p.fireOnComplete(onComplete, entry)
		return
	}

	p.mu.Lock()
	entry.task.Status = model.TaskRunning
	now := time.Now()
	entry.task.StartTime = &now
	p.mu.Unlock()

	start := time.Now()
	result, err := runSafely(ctx, entry.token, fn)
	elapsed := time.Since(start).Seconds()

	status := model.TaskCompleted
	if err != nil {
		if entry.token.IsCancelled() {
			status = model.TaskCancelled
		} else {
			status = model.TaskFailed
		}
	}
	p.settle(entry, status, result, err, elapsed)
	p.fireOnComplete(onComplete, entry)
}

func runSafely(ctx context.Context, token *cancel.Token, fn TaskFunc) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx, token)
}

func (p *Pool) settle(entry *taskEntry, status model.TaskStatus, result any, err error, elapsed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry.task.Status = status
	entry.task.Result = result
	entry.task.Err = err
	now := time.Now()
	entry.task.EndTime = &now
	_ = elapsed
}

func (p *Pool) fireOnComplete(onComplete OnComplete, entry *taskEntry) {
	if onComplete == nil {
		return
	}
	defer func() { _ = recover() }()

	p.mu.Lock()
	task := entry.task
	var elapsed float64
	if task.StartTime != nil && task.EndTime != nil {
		elapsed = task.EndTime.Sub(*task.StartTime).Seconds()
	}
	p.mu.Unlock()

	onComplete(model.TaskResult{
		TaskID:         task.ID,
		Status:         task.Status,
		Result:         task.Result,
		Err:            task.Err,
		ElapsedSeconds: elapsed,
	})
}

// Cancel marks the task's token cancelled; the running task exits at its
// next token check. Returns false if the task id is unknown.
func (p *Pool) Cancel(taskID string) bool {
	p.mu.Lock()
	entry, ok := p.tasks[taskID]
	p.mu.Unlock()
	if !ok {
		return false
	}
	entry.token.Cancel("cancelled by caller")
	return true
}

// CancelAll cancels every tracked task's token and returns the count
// cancelled.
func (p *Pool) CancelAll() int {
	p.mu.Lock()
	entries := make([]*taskEntry, 0, len(p.tasks))
	for _, e := range p.tasks {
		entries = append(entries, e)
	}
	p.mu.Unlock()

	count := 0
	for _, e := range entries {
		if !e.token.IsCancelled() {
			e.token.Cancel("cancel_all")
			count++
		}
	}
	return count
}

// GetStatus returns the task's current status.
func (p *Pool) GetStatus(taskID string) (model.TaskStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.tasks[taskID]
	if !ok {
		return "", false
	}
	return entry.task.Status, true
}

// GetResult blocks until the task settles or timeout elapses (0 = no
// timeout), returning its TaskResult.
func (p *Pool) GetResult(taskID string, timeout time.Duration) (model.TaskResult, error) {
	p.mu.Lock()
	entry, ok := p.tasks[taskID]
	p.mu.Unlock()
	if !ok {
		return model.TaskResult{}, fmt.Errorf("unknown task id %q", taskID)
	}

	if timeout > 0 {
		select {
		case <-entry.done:
		case <-time.After(timeout):
			return model.TaskResult{}, fmt.Errorf("timed out waiting for task %q", taskID)
		}
	} else {
		<-entry.done
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	task := entry.task
	var elapsed float64
	if task.StartTime != nil && task.EndTime != nil {
		elapsed = task.EndTime.Sub(*task.StartTime).Seconds()
	}
	return model.TaskResult{
		TaskID:         task.ID,
		Status:         task.Status,
		Result:         task.Result,
		Err:            task.Err,
		ElapsedSeconds: elapsed,
	}, nil
}

// WaitAll waits on each submitted task in submission order, up to timeout
// per task, and returns a map of id to TaskResult. Tasks whose wait times
// out are left out of the map.
func (p *Pool) WaitAll(timeout time.Duration) map[string]model.TaskResult {
	p.mu.Lock()
	order := append([]string{}, p.order...)
	p.mu.Unlock()

	out := make(map[string]model.TaskResult, len(order))
	for _, id := range order {
		res, err := p.GetResult(id, timeout)
		if err != nil {
			continue
		}
		out[id] = res
	}
	return out
}

// CleanupCompleted drops bookkeeping for tasks that have settled and
// returns the count removed.
func (p *Pool) CleanupCompleted() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	remaining := p.order[:0]
	for _, id := range p.order {
		entry := p.tasks[id]
		switch entry.task.Status {
		case model.TaskCompleted, model.TaskFailed, model.TaskCancelled:
			delete(p.tasks, id)
			count++
		default:
			remaining = append(remaining, id)
		}
	}
	p.order = remaining
	return count
}

// Shutdown stops accepting new submissions. If wait is true it blocks
// (optionally up to timeout) for in-flight tasks to finish.
func (p *Pool) Shutdown(wait bool, timeout time.Duration) {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	if !wait {
		return
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	if timeout <= 0 {
		<-done
		return
	}
	select {
	case <-done:
	case <-time.After(timeout):
		p.log.Warn("pool shutdown timed out waiting for in-flight tasks")
	}
}
