// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/platform"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

type (
	// Env provides facts about the machine running warp4j.
	// platform.System is the production implementation.
	Env interface {
		platform.Facts
		Host() (target.Target, error)
	}

	// StateResolver inspects the runtime cache.
	StateResolver interface {
		Resolve(t target.Target, rel version.Release) (cache.Entry, error)
		Locate(t target.Target, rel version.Release) (string, bool)
	}

	// Distributor finds and downloads runtime archives.
	Distributor interface {
		DownloadURL(ctx context.Context, rel version.Release, t target.Target) (string, error)
		Download(ctx context.Context, url, dest string) error
	}

	// Extractor unpacks a downloaded runtime archive.
	Extractor interface {
		Extract(ctx context.Context, src, destDir string, p target.Platform) error
	}

	// Optimizer computes the modules an application needs and links minimal
	// runtimes. toolHome is the JDK providing jdeps and jlink.
	Optimizer interface {
		AnalyzeModules(ctx context.Context, toolHome, jar string, v version.Version) string
		Link(ctx context.Context, toolHome, targetJDK string, t target.Target, modules string, v version.Version) (string, error)
	}

	// Bundler copies a full runtime into the target's bundle and returns the bundle directory.
	Bundler interface {
		CopyRuntime(ctx context.Context, t target.Target, jdkPath string, v version.Version) (string, error)
	}

	// LauncherWriter places the jar and a start script into a bundle and returns the script path.
	LauncherWriter interface {
		Write(t target.Target, bundleDir, jar string) (string, error)
	}

	// Packer fuses a bundle into a single executable.
	Packer interface {
		Pack(ctx context.Context, t target.Target, bundleDir, script, output string) error
	}

	// Compressor archives a packed executable and returns the archive path.
	Compressor interface {
		Compress(ctx context.Context, t target.Target, binary string) (string, error)
	}

	// Dependencies are the collaborators a Pipeline drives.
	Dependencies struct {
		Env         Env
		Layout      cache.Layout
		Resolver    StateResolver
		Distributor Distributor
		Extractor   Extractor
		Optimizer   Optimizer
		Bundler     Bundler
		Launcher    LauncherWriter
		Packer      Packer
		Compressor  Compressor
	}
)
