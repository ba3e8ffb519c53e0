// SPDX-License-Identifier: MPL-2.0

package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Release is the runtime version chosen for a run. Label carries the
// distributor's own spelling (e.g. "17.0.13+11-LTS") when one is known.
// Exact marks a release the distributor identified by a component Version
// cannot hold, such as the fourth number of "17.0.0.1".
type Release struct {
	Version Version
	Label   string
	Exact   bool
}

// FeatureOnly reports whether the release still names a whole feature
// version whose newest build has to be looked up.
func (r Release) FeatureOnly() bool {
	return !r.Exact && r.Version.IsFeatureOnly()
}

// String returns the label when present and the formatted version otherwise.
func (r Release) String() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Version.String()
}

// CachePrefix returns the text an extracted JDK directory name must start
// with (after "jdk" or "jdk-") to count as this release.
func (r Release) CachePrefix() string {
	v := r.Version
	switch {
	case r.FeatureOnly():
		return strconv.Itoa(v.Major)
	case v.Major <= 8:
		return fmt.Sprintf("%du%d", v.Major, v.Patch)
	}
	if label := strings.TrimSuffix(r.Label, "-LTS"); label != "" {
		return label
	}
	return v.String()
}
