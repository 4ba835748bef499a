package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorFormatsFieldAndValue(t *testing.T) {
	err := NewValidationError("provider", "cohere", "unknown provider")
	msg := err.Error()
	if !contains(msg, "field=provider") || !contains(msg, "value=cohere") || !contains(msg, "unknown provider") {
		t.Errorf("Error() = %q, want field/value/message", msg)
	}
}

func TestFileOperationErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewFileOperationError("write", "/tmp/out.json", cause)
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !contains(err.Error(), "disk full") {
		t.Errorf("Error() = %q, want to mention cause", err.Error())
	}
}

func TestCancelledErrorEmptyReason(t *testing.T) {
	err := NewCancelledError("")
	if err.Error() != "[CANCELLED_ERROR] cancelled" {
		t.Errorf("Error() = %q, want default cancelled message", err.Error())
	}
}

func TestInterruptedErrorWithReason(t *testing.T) {
	err := NewInterrupted("sigterm received")
	want := "[INTERRUPTED] shutdown requested: sigterm received"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAsMatchesConcreteType(t *testing.T) {
	var err error = NewWorkflowError("transcribe", errors.New("boom"))

	wf, ok := As[*WorkflowError](err)
	if !ok {
		t.Fatalf("As[*WorkflowError] ok = false, want true")
	}
	if wf.Step != "transcribe" {
		t.Errorf("Step = %q, want transcribe", wf.Step)
	}

	if _, ok := As[*CancelledError](err); ok {
		t.Errorf("As[*CancelledError] ok = true, want false for a WorkflowError")
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	inner := NewConfigurationError("OPENAI_API_KEY", "missing", nil)
	wrapped := fmt.Errorf("summarize failed: %w", inner)

	cfg, ok := As[*ConfigurationError](wrapped)
	if !ok {
		t.Fatalf("As[*ConfigurationError] ok = false, want true through fmt.Errorf wrapping")
	}
	if cfg.Key != "OPENAI_API_KEY" {
		t.Errorf("Key = %q, want OPENAI_API_KEY", cfg.Key)
	}
}

func TestLLMProviderErrorCarriesClassification(t *testing.T) {
	err := NewLLMProviderError("openai", LLMClassRateLimit, "rate limited", errors.New("429"))
	if err.Classification != LLMClassRateLimit {
		t.Errorf("Classification = %q, want rate_limit", err.Classification)
	}
	if !contains(err.Error(), "class=rate_limit") {
		t.Errorf("Error() = %q, want class=rate_limit", err.Error())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q, want unchanged", got)
	}
	if got := truncate("this is a long string", 7); got != "this is..." {
		t.Errorf("truncate(long, 7) = %q, want \"this is...\"", got)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
