package shutdown

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRequestAndCheckShutdown(t *testing.T) {
	m := New(nil)
	if m.IsShutdownRequested() {
		t.Fatalf("new manager reports shutdown requested")
	}
	if err := m.CheckShutdown(); err != nil {
		t.Errorf("CheckShutdown() = %v, want nil before request", err)
	}

	m.RequestShutdown()
	if !m.IsShutdownRequested() {
		t.Errorf("IsShutdownRequested() = false after RequestShutdown")
	}
	if err := m.CheckShutdown(); err == nil {
		t.Errorf("CheckShutdown() = nil after RequestShutdown, want Interrupted")
	}

	m.ResetShutdown()
	if m.IsShutdownRequested() {
		t.Errorf("IsShutdownRequested() = true after ResetShutdown")
	}
}

func TestCleanupHandlersRunInReverseOrder(t *testing.T) {
	m := New(nil)
	var order []int

	m.RegisterCleanupHandler(func() { order = append(order, 1) })
	m.RegisterCleanupHandler(func() { order = append(order, 2) })
	m.RegisterCleanupHandler(func() { order = append(order, 3) })

	if err := m.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestUnregisterCleanupHandlerSkipsIt(t *testing.T) {
	m := New(nil)
	fired := false
	tok := m.RegisterCleanupHandler(func() { fired = true })
	m.UnregisterCleanupHandler(tok)

	if err := m.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if fired {
		t.Errorf("unregistered handler fired")
	}
}

func TestCleanupHandlerPanicIsSwallowed(t *testing.T) {
	m := New(nil)
	secondFired := false
	m.RegisterCleanupHandler(func() { panic("boom") })
	m.RegisterCleanupHandler(func() { secondFired = true })

	if err := m.Close(); err != nil {
		t.Fatalf("Close error = %v, want nil (panics are swallowed)", err)
	}
	if !secondFired {
		t.Errorf("second handler did not fire after first panicked")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	m := New(nil)
	calls := 0
	m.RegisterCleanupHandler(func() { calls++ })

	if err := m.Close(); err != nil {
		t.Fatalf("first Close error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close error = %v", err)
	}
	if calls != 1 {
		t.Errorf("cleanup handler ran %d times, want exactly 1", calls)
	}
}

func TestRegisterTempPathRemovedOnClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scratch.tmp")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := New(nil)
	m.RegisterTempPath(path)
	if err := m.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp path still exists after Close: err = %v", err)
	}
}

func TestUnregisterTempPathSkipsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.tmp")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := New(nil)
	m.RegisterTempPath(path)
	m.UnregisterTempPath(path)
	if err := m.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("unregistered temp path was removed: %v", err)
	}
}
