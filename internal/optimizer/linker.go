// SPDX-License-Identifier: MPL-2.0

package optimizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

// Link runs the jlink from toolHome against the jmods of targetJDK and writes
// the trimmed runtime to the bundle's java directory. It returns the bundle
// directory, the parent of the runtime.
func (o *Optimizer) Link(ctx context.Context, toolHome, targetJDK string, t target.Target, modules string, v version.Version) (string, error) {
	output := o.layout.BundleJavaDir(t)
	if err := os.RemoveAll(output); err != nil {
		return "", fmt.Errorf("clearing %s: %w", output, err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", fmt.Errorf("creating bundle directory: %w", err)
	}

	argv := JlinkArgs(ToolPath(toolHome, jlinkTool, o.host), targetJDK, modules, output, v.Major)
	o.logger.Info("creating minimal runtime", "target", t)
	if _, err := o.runner.Run(ctx, argv); err != nil {
		return "", fmt.Errorf("creating minimal runtime for %s: %w", t, err)
	}
	return filepath.Dir(output), nil
}

// JlinkArgs builds the jlink command line for a runtime holding modules.
func JlinkArgs(jlink, targetJDK, modules, output string, major int) []string {
	strip := "--strip-debug"
	if major >= 13 {
		strip = "--strip-java-debug-attributes"
	}
	return []string{
		jlink,
		"--no-header-files",
		"--no-man-pages",
		strip,
		"--module-path", filepath.Join(cache.JavaHome(targetJDK), "jmods"),
		"--add-modules", modules,
		"--output", output,
	}
}
