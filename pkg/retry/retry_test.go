package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond, Multiplier: 2}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond, Multiplier: 2, MaxDelay: time.Second}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoReturnsLastErrorAfterExhaustingAttempts(t *testing.T) {
	wantErr := errors.New("persistent")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 2, Delay: time.Millisecond, Multiplier: 2}, func() error {
		calls++
		return wantErr
	})
	if err != wantErr {
		t.Errorf("Do error = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (MaxAttempts)", calls)
	}
}

func TestDoStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, DefaultConfig(), func() error {
		calls++
		return errors.New("should not run")
	})
	if err == nil {
		t.Errorf("Do with cancelled context = nil error, want context error")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 (context already cancelled before first attempt)", calls)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxAttempts != 3 || cfg.Multiplier != 2.0 {
		t.Errorf("DefaultConfig() = %+v, want MaxAttempts=3 Multiplier=2.0", cfg)
	}
}
