// SPDX-License-Identifier: MPL-2.0

package optimizer

import (
	"os"
	"path/filepath"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
)

const (
	jdepsTool = "jdeps"
	jlinkTool = "jlink"
)

// ToolPath returns <home>/bin/<name> with the executable suffix of the host.
func ToolPath(home, name string, host target.Platform) string {
	return filepath.Join(cache.JavaHome(home), "bin", name+host.ExeSuffix())
}

// ValidJDK reports whether home contains both jdeps and jlink for the host.
func ValidJDK(home string, host target.Platform) bool {
	if home == "" {
		return false
	}
	for _, tool := range []string{jdepsTool, jlinkTool} {
		fi, err := os.Stat(ToolPath(home, tool, host))
		if err != nil || fi.IsDir() {
			return false
		}
	}
	return true
}
