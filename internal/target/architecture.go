// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// X64 is 64-bit x86 (amd64).
	X64 Architecture = "x64"
	// X32 is 32-bit x86.
	X32 Architecture = "x32"
	// AArch64 is 64-bit ARM.
	AArch64 Architecture = "aarch64"
	// ARM is 32-bit ARM.
	ARM Architecture = "arm"
)

// ErrInvalidArchitecture is the sentinel error wrapped by InvalidArchitectureError.
var ErrInvalidArchitecture = errors.New("invalid architecture")

type (
	// Architecture is a target CPU architecture.
	Architecture string

	// InvalidArchitectureError is returned when an architecture name is not recognized.
	InvalidArchitectureError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidArchitectureError) Error() string {
	return fmt.Sprintf("invalid architecture %q (valid: x64, x32, aarch64, arm)", e.Value)
}

// Unwrap returns ErrInvalidArchitecture for errors.Is compatibility.
func (e *InvalidArchitectureError) Unwrap() error { return ErrInvalidArchitecture }

// Architectures returns every architecture in display order.
func Architectures() []Architecture {
	return []Architecture{X64, AArch64, X32, ARM}
}

// ParseArchitecture accepts the canonical value and the Go/JVM spellings
// (amd64, x86_64, arm64, 386, x86).
func ParseArchitecture(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x64", "amd64", "x86_64":
		return X64, nil
	case "aarch64", "arm64":
		return AArch64, nil
	case "x32", "386", "x86", "i386", "i686":
		return X32, nil
	case "arm", "arm32":
		return ARM, nil
	default:
		return "", &InvalidArchitectureError{Value: s}
	}
}

// String returns the architecture value used in cache directories and output names.
func (a Architecture) String() string { return string(a) }

// Validate returns an error if a is not one of the known architectures.
func (a Architecture) Validate() error {
	switch a {
	case X64, X32, AArch64, ARM:
		return nil
	default:
		return &InvalidArchitectureError{Value: string(a)}
	}
}
