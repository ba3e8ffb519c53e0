// SPDX-License-Identifier: MPL-2.0

// Package cache knows where warp4j keeps downloaded and prepared artifacts
// under its application data directory, and inspects that tree to decide
// which pipeline steps can be skipped.
package cache

import (
	"os"
	"path/filepath"

	"github.com/warp4j/warp4j/internal/target"
)

const (
	warpDir        = "warp"
	jdkDir         = "jdk"
	bundleDir      = "bundle"
	javaDir        = "java"
	packerBaseName = "warp-packer"
	cleanedJarName = "cleaned-jar-file.jar"
	extractedJar   = "extracted-jar"
	macHome        = "Contents/Home"
)

// Layout maps artifacts to paths below Root.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// PackerPath is <root>/warp/warp-packer[.exe] for a host running on p.
func (l Layout) PackerPath(p target.Platform) string {
	return filepath.Join(l.Root, warpDir, packerBaseName+p.ExeSuffix())
}

// JDKRoot is <root>/jdk.
func (l Layout) JDKRoot() string {
	return filepath.Join(l.Root, jdkDir)
}

// JDKDir is <root>/jdk/<platform>/<arch>.
func (l Layout) JDKDir(t target.Target) string {
	return filepath.Join(l.JDKRoot(), t.Platform.String(), t.Architecture.String())
}

// CompressedJDK is the downloaded distribution: jdk.zip on Windows, jdk.tar.gz elsewhere.
func (l Layout) CompressedJDK(t target.Target) string {
	name := "jdk.tar.gz"
	if t.Platform == target.Windows {
		name = "jdk.zip"
	}
	return filepath.Join(l.JDKDir(t), name)
}

// BundleRoot is <root>/bundle. It is rebuilt on every run.
func (l Layout) BundleRoot() string {
	return filepath.Join(l.Root, bundleDir)
}

// BundleDir is <root>/bundle/<platform>/<arch>.
func (l Layout) BundleDir(t target.Target) string {
	return filepath.Join(l.BundleRoot(), t.Platform.String(), t.Architecture.String())
}

// BundleJavaDir is the runtime inside a bundle: <root>/bundle/<platform>/<arch>/java.
func (l Layout) BundleJavaDir(t target.Target) string {
	return filepath.Join(l.BundleDir(t), javaDir)
}

// JavaDirName is the runtime directory name inside a bundle, as referenced by launchers.
func (Layout) JavaDirName() string { return javaDir }

// CleanedJar is the scratch copy of the application jar without module descriptors.
func (l Layout) CleanedJar() string {
	return filepath.Join(l.Root, cleanedJarName)
}

// ExtractedJar is where a Spring Boot jar is unpacked to collect its libraries.
func (l Layout) ExtractedJar() string {
	return filepath.Join(l.Root, extractedJar)
}

// JavaHome returns the directory holding bin/ and jmods/ of an extracted
// runtime. macOS distributions nest it under Contents/Home unless extraction
// already stripped that prefix.
func JavaHome(jdkDir string) string {
	nested := filepath.Join(jdkDir, filepath.FromSlash(macHome))
	if fi, err := os.Stat(nested); err == nil && fi.IsDir() {
		return nested
	}
	return jdkDir
}
