// SPDX-License-Identifier: MPL-2.0

package optimizer

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/warp4j/warp4j/internal/archive"
	"github.com/warp4j/warp4j/internal/version"
)

const (
	// AllModulePath is handed to jlink when no module list could be derived.
	AllModulePath = "ALL-MODULE-PATH"

	removedInternalAPI = "JDK removed internal API"
)

// AnalyzeModules returns the comma separated module list for jar, using the
// jdeps found in toolHome. Extra modules are appended to a non-empty
// analysis. When jdeps yields nothing the jar is retried without module
// descriptors, and ALL-MODULE-PATH is the last resort.
func (o *Optimizer) AnalyzeModules(ctx context.Context, toolHome, jar string, v version.Version) string {
	jdeps := ToolPath(toolHome, jdepsTool, o.host)
	cp := o.Classpath(ctx, jar)

	o.logger.Info("analyzing required java modules")
	modules := o.analyze(ctx, jdeps, jar, cp, v)
	if modules == "" {
		modules = o.analyzeWithoutModuleInfo(ctx, jdeps, jar, cp, v)
	}
	if modules == "" {
		o.logger.Warn("no modules found for optimization, falling back to " + AllModulePath)
		return AllModulePath
	}
	o.logger.Info("java modules selected", "modules", modules)
	return modules
}

func (o *Optimizer) analyzeWithoutModuleInfo(ctx context.Context, jdeps, jar string, cp []string, v version.Version) string {
	has, err := archive.JarHasModuleInfo(jar)
	if err != nil || !has {
		return ""
	}

	o.logger.Info("no modules found, retrying without module-info.class")
	cleaned := o.layout.CleanedJar()
	defer func() {
		if err := os.Remove(cleaned); err != nil && !os.IsNotExist(err) {
			o.logger.Warn("could not delete temporary jar, please delete it manually", "path", cleaned, "err", err)
		}
	}()

	if err := archive.StripModuleInfo(jar, cleaned); err != nil {
		o.logger.Warn("could not remove module-info.class", "err", err)
		return ""
	}
	return o.analyze(ctx, jdeps, cleaned, cp, v)
}

// analyze runs jdeps once. Any failure yields "".
func (o *Optimizer) analyze(ctx context.Context, jdeps, jar string, cp []string, v version.Version) string {
	multiRelease, err := archive.IsMultiRelease(jar)
	if err != nil {
		o.logger.Debug("could not read jar manifest", "jar", jar, "err", err)
	}

	res, err := o.runner.Run(ctx, JdepsArgs(jdeps, jar, cp, v.Major, multiRelease))
	if err != nil {
		o.logger.Warn("could not analyze needed java modules, continuing without analysis", "err", err)
		return ""
	}

	modules := ParseModules(res.Stdout)
	if modules != "" && o.extraModules != "" {
		modules += "," + o.extraModules
	}
	return modules
}

// JdepsArgs builds the jdeps command line:
//
//	jdeps --list-deps [--ignore-missing-deps] [--multi-release N] [--class-path CP] JAR
func JdepsArgs(jdeps, jar string, cp []string, major int, multiRelease bool) []string {
	argv := []string{jdeps, "--list-deps"}
	if major >= 11 {
		argv = append(argv, "--ignore-missing-deps")
	}
	if multiRelease {
		argv = append(argv, "--multi-release", strconv.Itoa(major))
	}
	if len(cp) > 0 {
		argv = append(argv, "--class-path", strings.Join(cp, string(os.PathListSeparator)))
	}
	if abs, err := filepath.Abs(jar); err == nil {
		jar = abs
	}
	return append(argv, jar)
}

// ParseModules turns jdeps --list-deps output into a comma separated,
// duplicate free module list in first-seen order.
func ParseModules(lines []string) string {
	seen := make(map[string]bool, len(lines))
	var modules []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ".jar") || strings.Contains(line, removedInternalAPI) {
			continue
		}
		if mod, _, found := strings.Cut(line, "/"); found {
			line = mod
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		modules = append(modules, line)
	}
	return strings.Join(modules, ",")
}
