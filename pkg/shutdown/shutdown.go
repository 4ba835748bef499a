// Package shutdown implements the process-lifecycle struct the source's
// module-level shutdown globals were re-architected into: a shutdown
// latch, an ordered list of cleanup handlers run LIFO, and a set of
// tracked temporary paths. Front-ends construct one Manager at startup and
// pass it into everything that needs graceful-shutdown awareness; tests
// construct their own for isolation.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	pkgerrors "github.com/summeets/engine/pkg/errors"
	"github.com/summeets/engine/pkg/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Manager tracks shutdown state for one process. The signal handler only
// flips the latch; cleanup runs exactly once, from Close, never inline
// inside the handler — running cleanup inside a signal handler risks
// deadlock against locks held by the interrupted thread and double
// execution if Close also runs from a deferred call.
type Manager struct {
	requested atomic.Bool

	mu        sync.Mutex
	handlers  []*handler
	tempPaths map[string]bool
	nextID    uint64
	closed    bool

	log *logger.Logger

	sigCh  chan os.Signal
	stopCh chan struct{}
}

type handler struct {
	id uint64
	fn func()
}

// New creates a Manager. log may be nil, in which case a production logger
// is created lazily.
func New(log *logger.Logger) *Manager {
	if log == nil {
		log, _ = logger.New(false)
	}
	return &Manager{
		tempPaths: make(map[string]bool),
		log:       log,
	}
}

// IsShutdownRequested reports whether shutdown has been requested.
func (m *Manager) IsShutdownRequested() bool {
	return m.requested.Load()
}

// RequestShutdown flips the latch. Safe to call from a signal handler.
func (m *Manager) RequestShutdown() {
	m.requested.Store(true)
}

// ResetShutdown clears the latch. Intended for tests.
func (m *Manager) ResetShutdown() {
	m.requested.Store(false)
}

// CheckShutdown raises Interrupted if shutdown was requested.
func (m *Manager) CheckShutdown() error {
	if m.IsShutdownRequested() {
		return pkgerrors.NewInterrupted("shutdown requested")
	}
	return nil
}

// CleanupToken lets a caller unregister the handler it registered without
// needing to compare function values (Go funcs aren't comparable).
type CleanupToken struct {
	id uint64
}

// RegisterCleanupHandler adds fn to the cleanup list and returns a token
// for RemoveCleanupHandler. Handlers run in reverse registration order.
func (m *Manager) RegisterCleanupHandler(fn func()) *CleanupToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.handlers = append(m.handlers, &handler{id: id, fn: fn})
	return &CleanupToken{id: id}
}

// UnregisterCleanupHandler removes a previously registered handler.
func (m *Manager) UnregisterCleanupHandler(tok *CleanupToken) {
	if tok == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.handlers {
		if h.id == tok.id {
			m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
			return
		}
	}
}

// RegisterTempPath tracks p for cleanup at shutdown.
func (m *Manager) RegisterTempPath(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempPaths[p] = true
}

// UnregisterTempPath stops tracking p, e.g. after a stage's output becomes
// a durable artifact that should survive exit.
func (m *Manager) UnregisterTempPath(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempPaths, p)
}

// InstallSignalHandlers wires SIGINT/SIGTERM to RequestShutdown only.
// Safe to call multiple times; only the first call installs. With no
// signals given, defaults to SIGINT/SIGTERM rather than relaying every
// catchable signal — an argless signal.Notify would also catch the
// runtime's SIGURG (async preemption), tripping shutdown within
// milliseconds of every run.
func (m *Manager) InstallSignalHandlers(signals ...os.Signal) {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	m.mu.Lock()
	if m.sigCh != nil {
		m.mu.Unlock()
		return
	}
	m.sigCh = make(chan os.Signal, 1)
	m.stopCh = make(chan struct{})
	sigCh, stopCh := m.sigCh, m.stopCh
	m.mu.Unlock()

	signal.Notify(sigCh, signals...)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				m.log.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
				m.RequestShutdown()
			case <-stopCh:
				return
			}
		}
	}()
}

// RestoreSignalHandlers stops the signal-watching goroutine and releases
// the signal channel.
func (m *Manager) RestoreSignalHandlers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sigCh == nil {
		return
	}
	signal.Stop(m.sigCh)
	close(m.stopCh)
	m.sigCh = nil
	m.stopCh = nil
}

// Close runs cleanup exactly once: cleanup handlers in reverse
// registration order (a handler's panic is recovered and logged, never
// aborting the others, and is not returned), then removes
// tracked temp paths. Intended to be called from a defer at the top of
// main, mirroring the source's atexit-registered _atexit_cleanup.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	handlers := append([]*handler{}, m.handlers...)
	paths := make([]string, 0, len(m.tempPaths))
	for p := range m.tempPaths {
		paths = append(paths, p)
	}
	m.mu.Unlock()

	var errs error
	for i := len(handlers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, runHandler(handlers[i].fn, m.log))
	}

	for _, p := range paths {
		if err := removePath(p); err != nil {
			m.log.Warn("failed to clean up temp path", zap.String("path", p), zap.Error(err))
		}
		m.mu.Lock()
		delete(m.tempPaths, p)
		m.mu.Unlock()
	}

	return errs
}

// GracefulOperation wraps an operation with start/end logging under label
// and notes if shutdown was requested during its run. It does not itself
// abort the operation — callers check CheckShutdown at their own
// suspension points.
func (m *Manager) GracefulOperation(label string, fn func() error) error {
	m.log.Debug("starting operation", zap.String("operation", label))
	err := fn()
	if m.IsShutdownRequested() {
		m.log.Info("shutdown requested during operation", zap.String("operation", label))
	}
	return err
}

func runHandler(fn func(), log *logger.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("cleanup handler panicked", zap.Any("recovered", r))
		}
	}()
	fn()
	return nil
}

func removePath(p string) error {
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(p)
	}
	return os.Remove(p)
}
