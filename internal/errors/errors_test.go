package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) { r.reported = append(r.reported, ee) }
func (r *recordingReporter) IsEnabled() bool               { return true }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}
	if ee.GetComponent() != ComponentUnknown {
		t.Errorf("Expected component 'unknown' in fast path, got '%s'", ee.GetComponent())
	}
	if ee.Category != CategoryGeneric {
		t.Errorf("Expected category 'generic' in fast path, got '%s'", ee.Category)
	}
}

func TestExplicitCategoryAndContext(t *testing.T) {
	t.Parallel()

	ee := Newf("fetch category %s", "sofas").
		Component("catalog").
		Category(CategoryCatalogAPI).
		Context("status", 503).
		Timing("fetch_products", 150*time.Millisecond).
		Build()

	if !IsCategory(ee, CategoryCatalogAPI) {
		t.Fatalf("expected catalog-api category, got %s", ee.Category)
	}
	ctx := ee.GetContext()
	if ctx["status"] != 503 {
		t.Errorf("expected status context 503, got %v", ctx["status"])
	}
	if ctx["operation"] != "fetch_products" {
		t.Errorf("expected operation context, got %v", ctx["operation"])
	}
	if ctx["duration_ms"] != int64(150) {
		t.Errorf("expected duration_ms 150, got %v", ctx["duration_ms"])
	}
}

func TestWrappedErrorsMatch(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("boom")
	ee := New(fmt.Errorf("wrapped: %w", sentinel)).Category(CategoryStorage).Build()

	if !Is(ee, sentinel) {
		t.Error("expected wrapped sentinel to match")
	}
	if IsNotFound(ee) {
		t.Error("storage error must not be reported as not-found")
	}
	if !IsNotFound(NotFoundError("provider", "7")) {
		t.Error("NotFoundError should be not-found")
	}
}

func TestDetectCategoryFromMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg       string
		component string
		want      ErrorCategory
	}{
		{"context deadline exceeded", "", CategoryTimeout},
		{"dial tcp: connection refused", "", CategoryNetwork},
		{"invalid category id", "", CategoryValidation},
		{"status 500", "catalog", CategoryCatalogAPI},
		{"object has no token", "imageprovider", CategoryImageResolve},
		{"something odd", "", CategoryGeneric},
	}

	for _, tt := range tests {
		if got := detectCategory(NewStd(tt.msg), tt.component); got != tt.want {
			t.Errorf("detectCategory(%q, %q) = %s, want %s", tt.msg, tt.component, got, tt.want)
		}
	}
}

func TestReporterReceivesBuiltErrors(t *testing.T) {
	rep := &recordingReporter{}
	SetTelemetryReporter(rep)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	New(NewStd("storage down")).Component("imageprovider").Category(CategoryStorage).Build()

	if len(rep.reported) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(rep.reported))
	}
	if rep.reported[0].GetComponent() != "imageprovider" {
		t.Errorf("unexpected component %s", rep.reported[0].GetComponent())
	}
}

func TestPriority(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		PriorityLow:      PriorityLow,
		PriorityCritical: PriorityCritical,
		"urgent":         PriorityMedium,
		"":               "",
	}
	for in, want := range tests {
		ee := New(NewStd("x")).Category(CategoryStorage).Priority(in).Build()
		if ee.Priority != want {
			t.Errorf("Priority(%q) = %q, want %q", in, ee.Priority, want)
		}
	}
}

func TestScrubMessage(t *testing.T) {
	t.Parallel()

	msg := "GET https://firebasestorage.googleapis.com/v0/b/app/o/logo.png?alt=media&token=abc failed"
	scrubbed := ScrubMessage(msg)
	if strings.Contains(scrubbed, "token=abc") {
		t.Errorf("token still present: %s", scrubbed)
	}
	if !strings.Contains(scrubbed, "?[REDACTED]") {
		t.Errorf("expected redacted query, got %s", scrubbed)
	}

	scrubbed = ScrubMessage("auth failed with api_key=secret123")
	if strings.Contains(scrubbed, "secret123") {
		t.Errorf("api key still present: %s", scrubbed)
	}
}

func TestErrorTitle(t *testing.T) {
	t.Parallel()

	ee := New(NewStd("x")).Component("imageprovider").Category(CategoryImageResolve).Build()
	if got := errorTitle(ee); got != "Imageprovider Image Resolve" {
		t.Errorf("unexpected title %q", got)
	}
}
