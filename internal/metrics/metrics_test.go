package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeModelLabel_KeepsVendorPath(t *testing.T) {
	if got := sanitizeModelLabel("Qwen/Qwen2.5-7B-Instruct"); got != "Qwen/Qwen2.5-7B-Instruct" {
		t.Fatalf("sanitizeModelLabel = %q", got)
	}
}

func TestSanitizeModelLabel_ReplacesInvalidChars(t *testing.T) {
	got := sanitizeModelLabel("glm-4-plus\n\t🚨")
	if strings.ContainsAny(got, "\n\t") {
		t.Fatalf("sanitizeModelLabel contains whitespace: %q", got)
	}
	if got != "glm-4-plus" {
		t.Fatalf("sanitizeModelLabel = %q", got)
	}
}

func TestSanitizeModelLabel_CapsLength(t *testing.T) {
	got := sanitizeModelLabel(strings.Repeat("a", maxModelLabelLen+50))
	if len(got) != maxModelLabelLen {
		t.Fatalf("sanitizeModelLabel len=%d, want %d", len(got), maxModelLabelLen)
	}
}

func TestSanitizeModelLabel_EmptyFallback(t *testing.T) {
	if got := sanitizeModelLabel("   "); got != "unknown" {
		t.Fatalf("sanitizeModelLabel = %q, want %q", got, "unknown")
	}
}

func TestRecordAttempt(t *testing.T) {
	before := testutil.ToFloat64(AttemptsTotal.WithLabelValues("moonshot", "moonshot-v1-32k", OutcomeRetriable))
	RecordAttempt("moonshot", "moonshot-v1-32k", OutcomeRetriable, 150*time.Millisecond)
	after := testutil.ToFloat64(AttemptsTotal.WithLabelValues("moonshot", "moonshot-v1-32k", OutcomeRetriable))
	if after-before != 1 {
		t.Fatalf("attempt counter delta = %v, want 1", after-before)
	}
}

func TestRecordExhausted(t *testing.T) {
	before := testutil.ToFloat64(ExhaustedTotal.WithLabelValues("router", "LLM_ALL_PROVIDERS_FAILED"))
	RecordExhausted("router", "LLM_ALL_PROVIDERS_FAILED")
	if got := testutil.ToFloat64(ExhaustedTotal.WithLabelValues("router", "LLM_ALL_PROVIDERS_FAILED")); got-before != 1 {
		t.Fatalf("exhausted delta = %v", got-before)
	}
}

func TestRecordProbe(t *testing.T) {
	RecordProbe("gemini", false)
	if got := testutil.ToFloat64(ProbeUp.WithLabelValues("gemini")); got != 0 {
		t.Fatalf("probe gauge = %v, want 0", got)
	}
	RecordProbe("gemini", true)
	if got := testutil.ToFloat64(ProbeUp.WithLabelValues("gemini")); got != 1 {
		t.Fatalf("probe gauge = %v, want 1", got)
	}
}
