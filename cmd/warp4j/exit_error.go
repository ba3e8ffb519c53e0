// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/warp4j/warp4j/internal/issue"
	"github.com/warp4j/warp4j/pkg/types"
)

// ExitError ends a run that stopped on a fatal precondition. Code is one of
// the sysexits-style values in pkg/types: 70 interrupted, 71 unsupported
// host, 72 jar or warp-packer missing, 74 filesystem, 77 permission, and 1
// for everything else. Dropped targets never produce an ExitError.
type ExitError struct {
	Code types.ExitCode
	// Issue is the catalog entry explaining the failure, or zero.
	Issue issue.Id
	Err   error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("warp4j stopped with exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitError classifies err and, in verbose mode, prints the matching help
// entry from the issue catalog before the error itself.
func (a *App) exitError(err error, verbose bool) error {
	if err == nil {
		return nil
	}

	code, id := classifyError(err)
	if verbose && id != 0 {
		renderIssue(a.stderr, id)
	}
	return &ExitError{Code: code, Issue: id, Err: displayError{err: err, verbose: verbose}}
}
