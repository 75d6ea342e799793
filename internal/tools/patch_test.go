package tools

import (
	"context"
	"testing"
)

func TestApplyPatchReplacesLine(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "a.txt", "old\n")

	patch := "*** Begin Patch\n*** Update File: a.txt\n@@\n-old\n+new\n*** End Patch"
	result, err := execPatch(context.Background(), tc, map[string]any{"patch": patch})
	if err != nil {
		t.Fatalf("execPatch: %v", err)
	}
	if got := readWorkspaceFile(t, tc, "a.txt"); got != "new\n" {
		t.Errorf("got %q, want %q", got, "new\n")
	}
	results, ok := result["results"].([]map[string]any)
	if !ok || len(results) != 1 {
		t.Fatalf("unexpected results: %v", result["results"])
	}
	if results[0]["file"] != "a.txt" || results[0]["ok"] != true {
		t.Errorf("unexpected result entry: %v", results[0])
	}
}

func TestApplyPatchKeepsContextAndTail(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "a.txt", "keep\nold\ntail\n")

	patch := "*** Begin Patch\n*** Update File: a.txt\n@@\nkeep\n-old\n+new\n*** End Patch"
	if _, err := execPatch(context.Background(), tc, map[string]any{"patch": patch}); err != nil {
		t.Fatalf("execPatch: %v", err)
	}
	if got := readWorkspaceFile(t, tc, "a.txt"); got != "keep\nnew\ntail\n" {
		t.Errorf("got %q", got)
	}
}

func TestApplyPatchMultipleFiles(t *testing.T) {
	tc := testContext(t)
	writeWorkspaceFile(t, tc, "a.txt", "one\n")
	writeWorkspaceFile(t, tc, "b.txt", "two\n")

	patch := "*** Begin Patch\n" +
		"*** Update File: a.txt\n@@\n-one\n+1\n" +
		"*** Update File: b.txt\n@@\n-two\n+2\n" +
		"*** End Patch"
	result, err := execPatch(context.Background(), tc, map[string]any{"patch": patch})
	if err != nil {
		t.Fatalf("execPatch: %v", err)
	}
	if got := readWorkspaceFile(t, tc, "a.txt"); got != "1\n" {
		t.Errorf("a.txt = %q", got)
	}
	if got := readWorkspaceFile(t, tc, "b.txt"); got != "2\n" {
		t.Errorf("b.txt = %q", got)
	}
	results := result["results"].([]map[string]any)
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestApplyPatchRejectsBadHeader(t *testing.T) {
	tc := testContext(t)
	_, err := execPatch(context.Background(), tc, map[string]any{"patch": "not a patch"})
	if err == nil {
		t.Error("expected invalid header error")
	}
}

func TestApplyPatchRejectsEscape(t *testing.T) {
	tc := testContext(t)
	patch := "*** Begin Patch\n*** Update File: ../outside.txt\n@@\n+x\n*** End Patch"
	if _, err := execPatch(context.Background(), tc, map[string]any{"patch": patch}); err == nil {
		t.Error("expected sandbox error")
	}
}

func TestApplyPatchMissingPatch(t *testing.T) {
	tc := testContext(t)
	if _, err := execPatch(context.Background(), tc, map[string]any{}); err == nil {
		t.Error("expected missing patch error")
	}
}
