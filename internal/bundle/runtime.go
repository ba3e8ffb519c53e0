// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

// legacyJREDir holds the runtime inside a Java 8 JDK.
const legacyJREDir = "jre"

type (
	// Bundler copies unoptimized runtimes into bundle directories.
	Bundler struct {
		layout cache.Layout
		logger *log.Logger
	}

	// Option configures a Bundler.
	Option func(*Bundler)
)

// WithLogger sets the bundler's logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bundler) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBundler creates a bundler writing below layout's bundle root.
func NewBundler(layout cache.Layout, opts ...Option) *Bundler {
	b := &Bundler{layout: layout, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RuntimeSource returns the directory of jdkPath that is shipped as the
// bundled runtime: Contents/Home on macOS layouts, and its jre subdirectory
// for Java 8 and older.
func RuntimeSource(jdkPath string, v version.Version) string {
	src := cache.JavaHome(jdkPath)
	if v.Major <= 8 {
		jre := filepath.Join(src, legacyJREDir)
		if fi, err := os.Stat(jre); err == nil && fi.IsDir() {
			return jre
		}
	}
	return src
}

// CopyRuntime replaces the bundle's java directory with a copy of the runtime
// in jdkPath and returns the bundle directory.
func (b *Bundler) CopyRuntime(ctx context.Context, t target.Target, jdkPath string, v version.Version) (string, error) {
	src := RuntimeSource(jdkPath, v)
	dest := b.layout.BundleJavaDir(t)

	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("clearing %s: %w", dest, err)
	}
	b.logger.Info("copying runtime into bundle", "target", t, "source", src)
	if err := CopyDir(ctx, src, dest); err != nil {
		return "", fmt.Errorf("copying runtime for %s: %w", t, err)
	}
	return b.layout.BundleDir(t), nil
}
