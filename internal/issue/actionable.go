// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp4j/warp4j/pkg/types"
)

type (
	// ActionableError is a fatal precondition failure: the run stops before
	// any target is processed. It names what warp4j was doing, the path or
	// pattern involved, hints for the user, and optionally the catalog entry
	// and exit code the failure maps to.
	//
	//	return issue.NewErrorContext("find application jar").
	//		WithResource(pattern).
	//		WithHint("Quote glob patterns").
	//		WithIssue(issue.JarNotFoundId, types.ExitNotFound).
	//		Wrap(errJarNotFound)
	ActionableError struct {
		Operation string
		Resource  string
		Hints     []string
		// Issue is zero when the catalog has no entry for the failure.
		Issue Id
		// Code is zero when the caller classifies the cause itself.
		Code  types.ExitCode
		Cause error
	}

	// ErrorContext accumulates the fields of an ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an ActionableError for operation, a verb phrase
// such as "load configuration".
func NewErrorContext(operation string) *ErrorContext {
	return &ErrorContext{err: ActionableError{Operation: operation}}
}

// Error reads "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by one bulleted line per hint. With
// verbose set, the unwrapped cause chain is appended.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Hints) > 0 {
		msg.WriteString("\n")
		for _, h := range e.Hints {
			msg.WriteString("\n  • ")
			msg.WriteString(h)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return msg.String()
}

// Classified reports whether e carries its own issue or exit code.
func (e *ActionableError) Classified() bool {
	return e.Issue != 0 || e.Code != 0
}

// WithResource sets the path, pattern or platform involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithHint appends a line telling the user how to recover.
func (c *ErrorContext) WithHint(hint string) *ErrorContext {
	c.err.Hints = append(c.err.Hints, hint)
	return c
}

// WithIssue links the failure to a catalog entry and the exit code it ends
// the run with.
func (c *ErrorContext) WithIssue(id Id, code types.ExitCode) *ErrorContext {
	c.err.Issue = id
	c.err.Code = code
	return c
}

// WithExitCode sets the exit code for failures that have no catalog entry.
func (c *ErrorContext) WithExitCode(code types.ExitCode) *ErrorContext {
	c.err.Code = code
	return c
}

// Wrap finishes the error with cause. A nil cause is allowed.
func (c *ErrorContext) Wrap(cause error) error {
	e := c.err
	e.Hints = append([]string(nil), c.err.Hints...)
	e.Cause = cause
	return &e
}
