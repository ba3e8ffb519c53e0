// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Process exit codes reported by warp4j. The non-zero values follow the
// BSD sysexits numbering so wrapper scripts can tell the fatal preconditions
// apart without parsing log output.
const (
	// ExitOK means the pipeline ran to completion. Individual targets may
	// still have been dropped.
	ExitOK ExitCode = 0
	// ExitFailure is the catch-all for flag and configuration errors.
	ExitFailure ExitCode = 1
	// ExitInterrupted means the run was cancelled by a signal.
	ExitInterrupted ExitCode = 70
	// ExitUnsupportedHost means warp-packer has no build for this machine.
	ExitUnsupportedHost ExitCode = 71
	// ExitNotFound means the application jar or warp-packer could not be found.
	ExitNotFound ExitCode = 72
	// ExitIO covers other filesystem failures before per-target work starts.
	ExitIO ExitCode = 74
	// ExitNoPermission means a file could not be made executable.
	ExitNoPermission ExitCode = 77
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// IsPrecondition reports whether the code belongs to one of the whole-run
// preconditions that abort before any target is processed.
func (c ExitCode) IsPrecondition() bool {
	switch c {
	case ExitUnsupportedHost, ExitNotFound, ExitIO, ExitNoPermission:
		return true
	default:
		return false
	}
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
