// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid target")

type (
	// Target is one platform/architecture pair. It is comparable and safe to
	// use as a map key.
	Target struct {
		Platform     Platform
		Architecture Architecture
	}

	// InvalidTargetError is returned when a "<platform>-<arch>" string cannot be parsed.
	InvalidTargetError struct {
		Value string
		Err   error
	}
)

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid target %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid target %q (expected <platform>-<arch>)", e.Value)
}

// Unwrap returns ErrInvalidTarget for errors.Is compatibility.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

// New returns the target for p and a.
func New(p Platform, a Architecture) Target {
	return Target{Platform: p, Architecture: a}
}

// ParseTarget parses "<platform>-<arch>", for example "linux-x64" or "macos-aarch64".
func ParseTarget(s string) (Target, error) {
	platformPart, archPart, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || platformPart == "" || archPart == "" {
		return Target{}, &InvalidTargetError{Value: s}
	}
	p, err := ParsePlatform(platformPart)
	if err != nil {
		return Target{}, &InvalidTargetError{Value: s, Err: err}
	}
	a, err := ParseArchitecture(archPart)
	if err != nil {
		return Target{}, &InvalidTargetError{Value: s, Err: err}
	}
	return New(p, a), nil
}

// FromGo maps runtime.GOOS and runtime.GOARCH values to a Target.
func FromGo(goos, goarch string) (Target, error) {
	p, err := ParsePlatform(goos)
	if err != nil {
		return Target{}, err
	}
	a, err := ParseArchitecture(goarch)
	if err != nil {
		return Target{}, err
	}
	return New(p, a), nil
}

// String returns "<platform>-<arch>".
func (t Target) String() string {
	return t.Platform.String() + "-" + t.Architecture.String()
}

// PackerArch returns the tag passed to warp-packer's --arch flag.
func (t Target) PackerArch() string {
	return t.Platform.PackerName() + "-" + t.Architecture.String()
}

// BinaryName returns the output file name for the launcher built from a jar
// whose name without extension is base.
func (t Target) BinaryName(base string) string {
	return base + "-" + t.String() + t.Platform.ExeSuffix()
}

// DistributorSupports reports whether the runtime distributor publishes a JDK for t.
func DistributorSupports(t Target) bool {
	switch t.Architecture {
	case X64, AArch64:
		return t.Platform.Validate() == nil
	case X32:
		return t.Platform == Windows
	case ARM:
		return t.Platform == Linux
	default:
		return false
	}
}

// PackerSupports reports whether warp-packer can produce a binary for t.
func PackerSupports(t Target) bool {
	if t.Platform.Validate() != nil {
		return false
	}
	return t.Architecture == X64 || t.Architecture == AArch64
}

// Buildable reports whether both the distributor and warp-packer accept t.
func Buildable(t Target) bool {
	return DistributorSupports(t) && PackerSupports(t)
}

// All returns every platform/architecture combination.
func All() []Target {
	all := make([]Target, 0, len(Platforms())*len(Architectures()))
	for _, p := range Platforms() {
		for _, a := range Architectures() {
			all = append(all, New(p, a))
		}
	}
	return all
}

// AllBuildable returns the buildable subset of All in the same order.
func AllBuildable() []Target {
	var out []Target
	for _, t := range All() {
		if Buildable(t) {
			out = append(out, t)
		}
	}
	return out
}
