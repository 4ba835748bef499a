package cancel

import (
	"context"
	"testing"
	"time"
)

func TestTokenCancelTripsContext(t *testing.T) {
	token := New(context.Background())
	if token.IsCancelled() {
		t.Fatalf("new token reports cancelled")
	}
	token.Cancel("stop")

	if !token.IsCancelled() {
		t.Errorf("IsCancelled() = false after Cancel")
	}
	if err := token.Check(); err == nil {
		t.Errorf("Check() = nil after Cancel, want CancelledError")
	}
	select {
	case <-token.Context().Done():
	case <-time.After(time.Second):
		t.Errorf("Context() not done after Cancel")
	}
}

func TestTokenCancelIsIdempotent(t *testing.T) {
	token := New(context.Background())
	token.Cancel("first")
	token.Cancel("second")

	err := token.Check()
	cancelled, ok := err.(*CancelledError)
	if !ok {
		t.Fatalf("Check() error type = %T, want *CancelledError", err)
	}
	if cancelled.Reason != "first" {
		t.Errorf("Reason = %q, want %q (first Cancel wins)", cancelled.Reason, "first")
	}
}

func TestTokenParentCancellationTripsToken(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	token := New(parent)
	parentCancel()

	deadline := time.After(time.Second)
	for !token.IsCancelled() {
		select {
		case <-deadline:
			t.Fatalf("token never tripped after parent context cancellation")
		default:
		}
	}
}

func TestTokenRegisterCallbackFiresOnCancel(t *testing.T) {
	token := New(context.Background())
	fired := make(chan struct{}, 1)
	token.RegisterCallback(func() { fired <- struct{}{} })

	token.Cancel("go")

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Errorf("callback did not fire after Cancel")
	}
}

func TestTokenRegisterCallbackAfterCancelFiresImmediately(t *testing.T) {
	token := New(context.Background())
	token.Cancel("already done")

	fired := make(chan struct{}, 1)
	token.RegisterCallback(func() { fired <- struct{}{} })

	select {
	case <-fired:
	default:
		t.Errorf("late-registered callback did not fire synchronously")
	}
}

func TestTokenWaitReturnsContextErrWhenCallerContextDone(t *testing.T) {
	token := New(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := token.Wait(ctx)
	if err != context.Canceled {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestTokenResetClearsState(t *testing.T) {
	token := New(context.Background())
	token.Cancel("done")
	if !token.IsCancelled() {
		t.Fatalf("setup: token should be cancelled")
	}

	token.Reset(context.Background())
	if token.IsCancelled() {
		t.Errorf("IsCancelled() = true after Reset")
	}
	if err := token.Check(); err != nil {
		t.Errorf("Check() = %v after Reset, want nil", err)
	}
}
