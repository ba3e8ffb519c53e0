// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrPathTraversal is returned when an archive entry would be written outside the destination.
	ErrPathTraversal = errors.New("archive entry escapes destination")
	// ErrLayoutNotFound is returned when a macOS JDK tarball has no Contents/Home directory.
	ErrLayoutNotFound = errors.New("expected archive layout not found")
	// ErrEntryTooLarge is returned when an entry decompresses beyond maxEntryBytes.
	ErrEntryTooLarge = errors.New("archive entry exceeds size limit")
)

// PathTraversalError reports the offending entry name and destination.
// It wraps ErrPathTraversal for errors.Is compatibility.
type PathTraversalError struct {
	Entry string
	Dest  string
}

// Error implements the error interface.
func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("entry %q resolves outside %s", e.Entry, e.Dest)
}

// Unwrap returns ErrPathTraversal.
func (e *PathTraversalError) Unwrap() error { return ErrPathTraversal }
