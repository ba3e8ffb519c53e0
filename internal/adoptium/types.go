// SPDX-License-Identifier: MPL-2.0

package adoptium

import (
	"slices"

	"github.com/warp4j/warp4j/internal/version"
)

type (
	// VersionData is the wire format of a version object returned by
	// /v3/version and /v3/info/release_versions.
	VersionData struct {
		Major          int    `json:"major"`
		Minor          int    `json:"minor"`
		Security       int    `json:"security"`
		Patch          int    `json:"patch"`
		Build          *int   `json:"build,omitempty"`
		OpenJDKVersion string `json:"openjdk_version"`
		Semver         string `json:"semver"`
	}

	releaseVersions struct {
		Versions []VersionData `json:"versions"`
	}

	// AvailableReleases is the wire format of /v3/info/available_releases.
	AvailableReleases struct {
		AvailableLTSReleases     []int `json:"available_lts_releases"`
		AvailableReleases        []int `json:"available_releases"`
		MostRecentFeatureRelease int   `json:"most_recent_feature_release"`
		MostRecentFeatureVersion int   `json:"most_recent_feature_version"`
		MostRecentLTS            int   `json:"most_recent_lts"`
		TipVersion               int   `json:"tip_version"`
	}

	assetRelease struct {
		ReleaseName string        `json:"release_name"`
		Binaries    []assetBinary `json:"binaries"`
	}

	assetBinary struct {
		Architecture string       `json:"architecture"`
		OS           string       `json:"os"`
		ImageType    string       `json:"image_type"`
		Package      assetPackage `json:"package"`
	}

	assetPackage struct {
		Name     string `json:"name"`
		Link     string `json:"link"`
		Checksum string `json:"checksum"`
		Size     int64  `json:"size"`
	}
)

// Release converts the wire object into the version model. The distributor's
// security counter becomes the patch component. Its own patch counter has no
// slot in the model and only marks the release as exact.
func (d VersionData) Release() version.Release {
	v := version.Version{
		Major: d.Major,
		Minor: d.Minor,
		Patch: d.Security,
		Build: version.NoBuild,
	}
	if d.Build != nil {
		v.Build = *d.Build
	}
	return version.Release{Version: v, Label: d.OpenJDKVersion, Exact: d.Patch != 0}
}

// All returns every feature version mentioned in the response, sorted,
// without duplicates and without zero values.
func (a AvailableReleases) All() []int {
	all := slices.Concat(a.AvailableLTSReleases, a.AvailableReleases, []int{
		a.MostRecentFeatureRelease,
		a.MostRecentFeatureVersion,
		a.MostRecentLTS,
		a.TipVersion,
	})
	all = slices.DeleteFunc(all, func(v int) bool { return v == 0 })
	slices.Sort(all)
	return slices.Compact(all)
}
