// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/warp4j/warp4j/internal/config"
	"github.com/warp4j/warp4j/internal/issue"
	"github.com/warp4j/warp4j/internal/packer"
	"github.com/warp4j/warp4j/internal/pipeline"
	"github.com/warp4j/warp4j/pkg/types"
)

var (
	// errJarNotFound is returned when the --jar pattern matches nothing.
	errJarNotFound = errors.New("application jar not found")
	// errConfigLoad marks failures to load or validate the configuration.
	errConfigLoad = errors.New("configuration error")
)

// displayError prints an ActionableError with its suggestions while keeping
// the chain intact for errors.Is.
type displayError struct {
	err     error
	verbose bool
}

func (d displayError) Error() string { return formatErrorForDisplay(d.err, d.verbose) }

func (d displayError) Unwrap() error { return d.err }

// classifyError maps a run failure to its exit code and issue catalog entry.
// An issue.Id of zero means the catalog has no entry for it. Interruption
// wins over everything; next comes the classification an ActionableError
// was built with, then the package sentinels.
func classifyError(err error) (types.ExitCode, issue.Id) {
	var (
		pathErr *fs.PathError
		ae      *issue.ActionableError
	)

	switch {
	case errors.Is(err, pipeline.ErrInterrupted), errors.Is(err, context.Canceled):
		return types.ExitInterrupted, issue.InterruptedId
	case errors.As(err, &ae) && ae.Classified():
		if ae.Code == types.ExitOK {
			return types.ExitFailure, ae.Issue
		}
		return ae.Code, ae.Issue
	case errors.Is(err, packer.ErrUnsupportedHost):
		return types.ExitUnsupportedHost, issue.HostNotSupportedId
	case errors.Is(err, errJarNotFound):
		return types.ExitNotFound, issue.JarNotFoundId
	case errors.Is(err, packer.ErrUnavailable):
		return types.ExitNotFound, issue.PackerUnavailableId
	case errors.Is(err, packer.ErrNoPermission):
		return types.ExitNoPermission, issue.PermissionDeniedId
	case errors.Is(err, config.ErrInvalidJavaVersion):
		return types.ExitFailure, issue.InvalidJavaVersionId
	case errors.Is(err, errConfigLoad):
		return types.ExitFailure, issue.ConfigLoadFailedId
	case errors.As(err, &pathErr):
		return types.ExitIO, 0
	default:
		return types.ExitFailure, 0
	}
}
