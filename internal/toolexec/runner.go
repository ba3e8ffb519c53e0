// SPDX-License-Identifier: MPL-2.0

package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// ErrToolFailed is the sentinel error wrapped by ToolError.
	ErrToolFailed = errors.New("tool failed")

	// ErrNoCommand is returned when Run is called with an empty argv.
	ErrNoCommand = errors.New("no command given")
)

type (
	// Result holds the outcome of one tool invocation. Output is split into
	// lines with line terminators removed.
	Result struct {
		ExitCode int
		Stdout   []string
		Stderr   []string
	}

	// Runner executes a command line and collects its output.
	Runner interface {
		Run(ctx context.Context, argv []string) (Result, error)
	}

	// ToolError is returned when a tool exits with a non-zero status.
	ToolError struct {
		Tool     string
		ExitCode int
		Stderr   []string
	}

	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ExecRunner runs tools as child processes.
	ExecRunner struct {
		execCommand ExecCommandFunc
		logger      *log.Logger
	}

	// ExecRunnerOption configures an ExecRunner.
	ExecRunnerOption func(*ExecRunner)
)

// Error implements the error interface.
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if len(e.Stderr) > 0 {
		msg += ": " + e.Stderr[len(e.Stderr)-1]
	}
	return msg
}

// Unwrap returns ErrToolFailed for errors.Is compatibility.
func (e *ToolError) Unwrap() error { return ErrToolFailed }

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.execCommand = fn
	}
}

// WithLogger sets the logger that receives tool invocations and output.
func WithLogger(l *log.Logger) ExecRunnerOption {
	return func(r *ExecRunner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{
		execCommand: exec.CommandContext,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes argv[0] with the remaining arguments. A non-zero exit yields
// both the collected Result and a *ToolError. Cancellation of ctx is reported
// as the context's error.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, ErrNoCommand
	}
	tool := filepath.Base(argv[0])

	var stdout, stderr bytes.Buffer
	cmd := r.execCommand(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running tool", "argv", strings.Join(argv, " "))
	runErr := cmd.Run()

	res := Result{
		Stdout: Lines(stdout.String()),
		Stderr: Lines(stderr.String()),
	}
	for _, line := range res.Stdout {
		r.logger.Debug(line, "tool", tool)
	}
	for _, line := range res.Stderr {
		r.logger.Debug(line, "tool", tool, "stream", "stderr")
	}

	if runErr == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("%s: %w", tool, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ToolError{Tool: tool, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	res.ExitCode = -1
	return res, fmt.Errorf("starting %s: %w", tool, runErr)
}

// Lines splits output into lines, removing "\r\n" and "\n" terminators. A
// trailing empty line is dropped.
func Lines(out string) []string {
	if out == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
