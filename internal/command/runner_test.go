package command_test

import (
	"context"
	"strings"
	"testing"

	"castpipe/internal/command"
)

func TestRunCapturesStdout(t *testing.T) {
	res := command.New().Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"})
	if !res.Success {
		t.Fatalf("expected success, got %#v", res)
	}
	if strings.TrimSpace(res.Output) != "out" {
		t.Fatalf("stdout not captured: %q", res.Output)
	}
	if strings.TrimSpace(res.Error) != "err" {
		t.Fatalf("stderr not captured separately: %q", res.Error)
	}
}

func TestRunReportsExitCode(t *testing.T) {
	res := command.New().Run(context.Background(), "sh", []string{"-c", "exit 3"})
	if res.Success {
		t.Fatal("expected failure for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
}

func TestRunMissingBinaryResolves(t *testing.T) {
	res := command.New().Run(context.Background(), "definitely-not-a-binary-xyz", nil)
	if res.Success {
		t.Fatal("expected failure for missing binary")
	}
	if res.ExitCode != -1 {
		t.Fatalf("expected sentinel exit code -1, got %d", res.ExitCode)
	}
	if res.FailureDetail() == "" {
		t.Fatal("expected a failure detail")
	}
}
