// SPDX-License-Identifier: MPL-2.0

// Package version parses, orders and formats Java runtime version strings.
package version

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoBuild marks a version without build metadata.
const NoBuild = -1

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid version")

// updateForm matches the distributor's Java 8 directory naming, e.g. "8u412-b08".
var updateForm = regexp.MustCompile(`^(\d+)u(\d+)(?:-b(\d+))?$`)

type (
	// Version is a Java runtime version. Build is NoBuild when absent.
	Version struct {
		Major int
		Minor int
		Patch int
		Build int
	}

	// InvalidVersionError is returned when a version string cannot be parsed.
	InvalidVersionError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVersion for errors.Is compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// New returns a version without build metadata.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Build: NoBuild}
}

// Parse accepts the legacy underscore form ("1.8.0_345"), the "+build" form
// ("17.0.13+11"), and plain dotted versions with one to three components.
// A leading "jdk"/"jdk-" and a trailing vendor suffix such as "-LTS" are ignored.
func Parse(s string) (Version, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "jdk")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return Version{}, &InvalidVersionError{Value: raw, Reason: "empty"}
	}

	if m := updateForm.FindStringSubmatch(s); m != nil {
		v := Version{Build: NoBuild}
		v.Major, _ = strconv.Atoi(m[1])
		v.Patch, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			v.Build, _ = strconv.Atoi(m[3])
		}
		return v, nil
	}

	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}

	dotted, build, legacy := s, "", false
	if before, after, ok := strings.Cut(s, "+"); ok {
		dotted, build = before, after
	} else if before, after, ok := strings.Cut(s, "_"); ok {
		dotted, build, legacy = before, after, true
	}

	parts := strings.Split(dotted, ".")
	if len(parts) > 3 {
		return Version{}, &InvalidVersionError{Value: raw, Reason: "too many components"}
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := atoi(p)
		if err != nil {
			return Version{}, &InvalidVersionError{Value: raw, Reason: fmt.Sprintf("component %q is not a number", p)}
		}
		nums[i] = n
	}

	v := Version{Build: NoBuild}
	if legacy && len(nums) >= 2 && nums[0] == 1 {
		// 1.8.0_345: the real major lives in the second component.
		v.Major = nums[1]
		if len(nums) == 3 {
			v.Minor = nums[2]
		}
	} else {
		v.Major = nums[0]
		if len(nums) > 1 {
			v.Minor = nums[1]
		}
		if len(nums) > 2 {
			v.Patch = nums[2]
		}
	}

	if build != "" {
		n, err := atoi(build)
		if err != nil {
			return Version{}, &InvalidVersionError{Value: raw, Reason: fmt.Sprintf("build %q is not a number", build)}
		}
		v.Build = n
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

// Compare returns -1, 0 or +1 ordering a and b by major, minor, patch, build.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Patch, b.Patch); c != 0 {
		return c
	}
	return cmp.Compare(a.Build, b.Build)
}

// Max returns the greatest of vs, or the zero Version when vs is empty.
func Max(vs ...Version) Version {
	var best Version
	for i, v := range vs {
		if i == 0 || Compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

// IsFeatureOnly reports whether v names only a feature release ("17"),
// meaning the latest matching release still has to be looked up.
func (v Version) IsFeatureOnly() bool {
	return v.Minor == 0 && v.Patch == 0
}

// HasBuild reports whether v carries build metadata.
func (v Version) HasBuild() bool { return v.Build != NoBuild }

// String formats v in the style of its era: "8.0.412_8" before Java 9,
// "17.0.13+11" afterwards, and plain "17.0.13" without a build.
func (v Version) String() string {
	switch {
	case v.Major < 9 && v.HasBuild():
		return fmt.Sprintf("%d.%d.%d_%d", v.Major, v.Minor, v.Patch, v.Build)
	case v.HasBuild():
		return fmt.Sprintf("%d.%d.%d+%d", v.Major, v.Minor, v.Patch, v.Build)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}
