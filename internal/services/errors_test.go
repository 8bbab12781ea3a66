package services_test

import (
	"errors"
	"strings"
	"testing"

	"castpipe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "audio", "synthesize", "chunk 3 failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "synthesize", "chunk 3 failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "upload", "sync", "request timed out", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker for nil marker, got %v", err)
	}
}

func TestIsSetupFailure(t *testing.T) {
	validation := services.Wrap(services.ErrValidation, "audio", "prepare", "wrong status", nil)
	if !services.IsSetupFailure(validation) {
		t.Fatalf("expected validation error to classify as setup failure")
	}
	tool := services.Wrap(services.ErrExternalTool, "streaming", "segment", "ffmpeg exited 1", nil)
	if services.IsSetupFailure(tool) {
		t.Fatalf("expected external tool error to classify as per-language failure")
	}
}
