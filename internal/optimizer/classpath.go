// SPDX-License-Identifier: MPL-2.0

package optimizer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp4j/warp4j/internal/archive"
)

// Classpath collects the class path handed to jdeps. User paths are walked
// for .jar and .class files. In Spring Boot mode the application jar is
// unpacked and its BOOT-INF/lib jars are added. Every failure is logged and
// skipped.
func (o *Optimizer) Classpath(ctx context.Context, jar string) []string {
	var cp []string
	for _, root := range o.classPath {
		found, err := collectClassFiles(root)
		if err != nil {
			o.logger.Warn("could not collect class path entries, continuing without them", "path", root, "err", err)
			continue
		}
		cp = append(cp, found...)
	}

	if o.springBoot {
		cp = append(cp, o.springBootLibraries(ctx, jar)...)
	}
	return cp
}

func (o *Optimizer) springBootLibraries(ctx context.Context, jar string) []string {
	dir := o.layout.ExtractedJar()
	o.logger.Info("extracting jar to collect its class path", "jar", filepath.Base(jar))
	if err := os.RemoveAll(dir); err != nil {
		o.logger.Debug("could not clear previous extraction", "path", dir, "err", err)
	}
	if err := archive.ExtractZip(ctx, jar, dir); err != nil {
		o.logger.Warn("could not extract jar, skipping additional class path", "err", err)
		return nil
	}

	libDir := filepath.Join(dir, "BOOT-INF", "lib")
	entries, err := os.ReadDir(libDir)
	if err != nil {
		o.logger.Warn("jar has no Spring Boot libraries, skipping additional class path", "err", err)
		return nil
	}

	var libs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jar") {
			libs = append(libs, filepath.Join(libDir, e.Name()))
		}
	}
	o.logger.Debug("spring boot libraries added to class path", "count", len(libs))
	return libs
}

// collectClassFiles returns the absolute paths of all .jar and .class files
// below root. root may itself be such a file.
func collectClassFiles(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var found []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".jar") || strings.HasSuffix(name, ".class") {
			found = append(found, p)
		}
		return nil
	})
	return found, err
}
