package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes one command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, argv []string) (string, error)
}

// WaitDelay bounds how long Run waits for output pipes to close after the
// command was killed.
const WaitDelay = 500 * time.Millisecond

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts argv[0] with the remaining arguments and waits for it. Standard
// error is only used to enrich the returned error.
func (ExecRunner) Run(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Launcher scripts can leave children holding stdout after the command
	// is killed. Kill the whole group, and stop waiting for the pipes after
	// WaitDelay regardless.
	killProcessGroup(cmd)
	cmd.WaitDelay = WaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.String(), fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%w: %s", err, firstLine(msg))
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, argv []string) (string, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, argv []string) (string, error) {
	return f(ctx, argv)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
