package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const defaultBashTimeoutMs = 120000

func execBash(ctx context.Context, tc *Context, params map[string]any) (map[string]any, error) {
	command := stringParam(params, "command")
	if command == "" {
		return nil, fmt.Errorf("missing command")
	}
	timeoutMs := intParam(params, "timeout", defaultBashTimeoutMs)
	if timeoutMs <= 0 {
		timeoutMs = defaultBashTimeoutMs
	}

	cwd := ""
	if workdir := stringParam(params, "workdir"); workdir != "" {
		resolved, err := tc.resolver().Resolve(workdir)
		if err != nil {
			return nil, err
		}
		cwd = resolved
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", command)
	cmd.Dir = cwd
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("command timed out after %dms", timeoutMs)
	}

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("run command: %w", err)
		}
	}

	return map[string]any{
		"exit_code": code,
		"stdout":    truncateUTF8(stdout.String(), tc.ToolOutputMaxBytes),
		"stderr":    truncateUTF8(stderr.String(), tc.ToolOutputMaxBytes),
	}, nil
}
