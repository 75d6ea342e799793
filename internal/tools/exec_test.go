package tools

import (
	"context"
	"strings"
	"testing"
)

func TestExecBashCapturesOutput(t *testing.T) {
	tc := testContext(t)
	result, err := execBash(context.Background(), tc, map[string]any{
		"command": "echo out; echo err 1>&2",
	})
	if err != nil {
		t.Fatalf("execBash: %v", err)
	}
	if result["exit_code"] != 0 {
		t.Errorf("exit_code = %v", result["exit_code"])
	}
	if got := result["stdout"].(string); strings.TrimSpace(got) != "out" {
		t.Errorf("stdout = %q", got)
	}
	if got := result["stderr"].(string); strings.TrimSpace(got) != "err" {
		t.Errorf("stderr = %q", got)
	}
}

func TestExecBashNonzeroExit(t *testing.T) {
	tc := testContext(t)
	result, err := execBash(context.Background(), tc, map[string]any{"command": "exit 3"})
	if err != nil {
		t.Fatalf("execBash: %v", err)
	}
	if result["exit_code"] != 3 {
		t.Errorf("exit_code = %v", result["exit_code"])
	}
}

func TestExecBashTimeout(t *testing.T) {
	tc := testContext(t)
	_, err := execBash(context.Background(), tc, map[string]any{
		"command": "sleep 5",
		"timeout": float64(50),
	})
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestExecBashMissingCommand(t *testing.T) {
	tc := testContext(t)
	if _, err := execBash(context.Background(), tc, map[string]any{}); err == nil {
		t.Error("expected missing command error")
	}
}

func TestExecBashWorkdirSandboxed(t *testing.T) {
	tc := testContext(t)
	_, err := execBash(context.Background(), tc, map[string]any{
		"command": "pwd",
		"workdir": "../..",
	})
	if err == nil {
		t.Error("expected sandbox error for workdir outside root")
	}
}

func TestExecBashTruncatesOutput(t *testing.T) {
	tc := testContext(t)
	tc.ToolOutputMaxBytes = 10
	result, err := execBash(context.Background(), tc, map[string]any{
		"command": "printf 'aaaaaaaaaaaaaaaaaaaa'",
	})
	if err != nil {
		t.Fatalf("execBash: %v", err)
	}
	if got := result["stdout"].(string); len(got) != 10 {
		t.Errorf("stdout length = %d, want 10", len(got))
	}
}

func TestTruncateUTF8(t *testing.T) {
	if got := truncateUTF8("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := truncateUTF8("hello", 3); got != "hel" {
		t.Errorf("got %q", got)
	}
	// Multibyte rune must not be split.
	s := "aé" // 'é' is 2 bytes
	if got := truncateUTF8(s, 2); got != "a" {
		t.Errorf("got %q", got)
	}
}
