// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/warp4j/warp4j/internal/version"
)

// FindExtractedVersionDir looks in containerDir for subdirectories named
// "jdk<prefix>..." or "jdk-<prefix>..." and returns the one with the highest
// parsed version. Names that do not parse are ignored. Equal versions are
// resolved by the lexically greatest name.
func FindExtractedVersionDir(fsys afero.Fs, containerDir, prefix string) (string, bool) {
	entries, err := afero.ReadDir(fsys, containerDir)
	if err != nil {
		return "", false
	}

	var (
		bestName string
		bestVer  version.Version
		found    bool
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		rest, ok := strings.CutPrefix(name, "jdk-")
		if !ok {
			rest, ok = strings.CutPrefix(name, "jdk")
		}
		if !ok || !strings.HasPrefix(rest, prefix) {
			continue
		}
		v, err := version.Parse(rest)
		if err != nil {
			continue
		}
		c := version.Compare(v, bestVer)
		if !found || c > 0 || (c == 0 && name > bestName) {
			bestName, bestVer, found = name, v, true
		}
	}
	if !found {
		return "", false
	}
	return filepath.Join(containerDir, bestName), true
}
