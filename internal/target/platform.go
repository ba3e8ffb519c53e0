// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Linux targets glibc-based Linux distributions.
	Linux Platform = "linux"
	// MacOS targets Apple macOS. The value matches the distributor's "os" query parameter.
	MacOS Platform = "mac"
	// Windows targets Microsoft Windows.
	Windows Platform = "windows"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Platform is a target operating system.
	Platform string

	// InvalidPlatformError is returned when a platform name is not recognized.
	InvalidPlatformError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid: linux, macos, windows)", e.Value)
}

// Unwrap returns ErrInvalidPlatform for errors.Is compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }

// Platforms returns every platform in display order.
func Platforms() []Platform {
	return []Platform{Linux, MacOS, Windows}
}

// ParsePlatform accepts the canonical value as well as the common aliases
// "macos", "darwin" and "win".
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return Linux, nil
	case "mac", "macos", "darwin", "osx":
		return MacOS, nil
	case "windows", "win":
		return Windows, nil
	default:
		return "", &InvalidPlatformError{Value: s}
	}
}

// String returns the platform value used in cache directories and output names.
func (p Platform) String() string { return string(p) }

// Validate returns an error if p is not one of the known platforms.
func (p Platform) Validate() error {
	switch p {
	case Linux, MacOS, Windows:
		return nil
	default:
		return &InvalidPlatformError{Value: string(p)}
	}
}

// PackerName returns the platform name warp-packer expects in its --arch tag.
func (p Platform) PackerName() string {
	if p == MacOS {
		return "macos"
	}
	return string(p)
}

// ExeSuffix returns ".exe" for Windows and "" elsewhere.
func (p Platform) ExeSuffix() string {
	if p == Windows {
		return ".exe"
	}
	return ""
}
