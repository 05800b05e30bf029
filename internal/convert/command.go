package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// maxStderrInError bounds how much converter stderr is carried into error messages.
const maxStderrInError = 2048

// pipeWaitDelay bounds how long Convert waits for output pipes after the tool
// was killed. Descendants that escaped the kill may hold them open.
const pipeWaitDelay = 2 * time.Second

// CommandConverter invokes an external tool as `<Command> [Args...] <path>` and
// captures its standard output.
type CommandConverter struct {
	Command string
	Args    []string
	// Dir is the working directory of the tool; empty means the current directory.
	Dir string
}

// NewCommandConverter creates a subprocess-backed converter.
func NewCommandConverter(command string, args ...string) *CommandConverter {
	return &CommandConverter{Command: command, Args: args}
}

func (c *CommandConverter) Convert(ctx context.Context, path string) ([]byte, error) {
	bin, err := exec.LookPath(c.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommandNotFound, err)
	}

	args := append(slices.Clone(c.Args), path)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = pipeWaitDelay
	killProcessTree(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Invoking converter", slog.String("command", c.Command), logfields.Path(path))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := tail(stderr.String(), maxStderrInError); msg != "" {
				return nil, fmt.Errorf("%w (status %d): %s", ErrCommandFailed, exitErr.ExitCode(), msg)
			}
			return nil, fmt.Errorf("%w (status %d)", ErrCommandFailed, exitErr.ExitCode())
		}
		return nil, fmt.Errorf("start converter: %w", err)
	}

	if errStr := strings.TrimSpace(stderr.String()); errStr != "" {
		slog.Debug("Converter stderr", logfields.Path(path), slog.String("stderr", errStr))
	}
	return stdout.Bytes(), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
