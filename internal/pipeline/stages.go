// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/warp4j/warp4j/internal/target"
)

// addHostRuntime appends a host-only state when optimization needs a runtime
// for this machine and no selected target provides one.
func (p *Pipeline) addHostRuntime(_ context.Context, r *run) {
	if !r.wantsOptimization() || r.req.JDK != "" {
		return
	}
	host, err := p.deps.Env.Host()
	if err != nil {
		r.logger.Debug("host target unknown", "error", err)
		return
	}
	if _, ok := r.find(host); ok || !target.Buildable(host) {
		return
	}

	res := p.resolveOne(host, r)
	if res.Dropped {
		return
	}
	r.logger.Debug("adding host runtime for optimization", "host", host)
	r.results = append(r.results, kept(res.State.AsHostOnly()))
}

func (p *Pipeline) download(ctx context.Context, r *run) {
	needed := func(s BuildState) bool { return r.req.Pull || s.DownloadNeeded() }
	p.apply(ctx, r, StageDownload, needed, func(ctx context.Context, s BuildState) (BuildState, error) {
		url, err := p.deps.Distributor.DownloadURL(ctx, r.req.Release, s.Target)
		if err != nil {
			return s, fmt.Errorf("finding runtime download: %w", err)
		}
		r.logger.Info("downloading runtime", "target", s.Target, "release", r.req.Release)
		if err := p.deps.Distributor.Download(ctx, url, p.deps.Layout.CompressedJDK(s.Target)); err != nil {
			return s, fmt.Errorf("downloading runtime: %w", err)
		}
		return s.WithDownloaded(), nil
	})
}

func (p *Pipeline) extract(ctx context.Context, r *run) {
	needed := func(s BuildState) bool { return r.req.Pull || s.ExtractedPath == "" }
	p.apply(ctx, r, StageExtract, needed, func(ctx context.Context, s BuildState) (BuildState, error) {
		if s.ExtractedPath != "" {
			if err := p.fs.RemoveAll(s.ExtractedPath); err != nil {
				r.logger.Warn("could not remove stale runtime", "path", s.ExtractedPath, "error", err)
			}
		}

		archive := p.deps.Layout.CompressedJDK(s.Target)
		jdkDir := p.deps.Layout.JDKDir(s.Target)
		r.logger.Info("extracting runtime", "target", s.Target)
		if err := p.extractStaged(ctx, r, archive, jdkDir, s.Target.Platform); err != nil {
			return s, fmt.Errorf("extracting runtime: %w", err)
		}
		path, ok := p.deps.Resolver.Locate(s.Target, r.req.Release)
		if !ok {
			return s, fmt.Errorf("%w for %s in %s", ErrRuntimeNotFound, r.req.Release, jdkDir)
		}
		if err := p.fs.Remove(archive); err != nil {
			r.logger.Debug("compressed runtime kept", "path", archive, "error", err)
		}
		return s.WithExtracted(path), nil
	})
}

// stagingPrefix names the hidden directory an archive is unpacked into.
const stagingPrefix = ".extract-"

// extractStaged unpacks archive into a hidden sibling of jdkDir and moves its
// top-level entries into jdkDir only once extraction has finished, so an
// interrupted run never leaves a partial runtime where the resolver looks.
func (p *Pipeline) extractStaged(ctx context.Context, r *run, archive, jdkDir string, platform target.Platform) error {
	p.removeStaging(r, jdkDir)
	if err := p.fs.MkdirAll(jdkDir, 0o755); err != nil {
		return err
	}
	staging, err := afero.TempDir(p.fs, jdkDir, stagingPrefix)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.fs.RemoveAll(staging); err != nil {
			r.logger.Debug("staging directory kept", "path", staging, "error", err)
		}
	}()

	if err := p.deps.Extractor.Extract(ctx, archive, staging, platform); err != nil {
		return err
	}

	entries, err := afero.ReadDir(p.fs, staging)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, e := range entries {
		dst := filepath.Join(jdkDir, e.Name())
		if err := p.fs.RemoveAll(dst); err != nil {
			return err
		}
		if err := p.fs.Rename(filepath.Join(staging, e.Name()), dst); err != nil {
			return err
		}
	}
	return nil
}

// removeStaging clears staging directories left behind by killed runs.
func (p *Pipeline) removeStaging(r *run, jdkDir string) {
	entries, err := afero.ReadDir(p.fs, jdkDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), stagingPrefix) {
			continue
		}
		path := filepath.Join(jdkDir, e.Name())
		if err := p.fs.RemoveAll(path); err != nil {
			r.logger.Debug("stale staging directory kept", "path", path, "error", err)
		}
	}
}

func (p *Pipeline) optimize(ctx context.Context, r *run) {
	if !r.wantsOptimization() {
		return
	}

	toolHome := r.req.JDK
	if toolHome == "" {
		host, err := p.deps.Env.Host()
		if err != nil {
			r.logger.Warn("host target unknown, skipping optimization", "error", err)
			return
		}
		hostState, ok := r.find(host)
		if !ok || hostState.ExtractedPath == "" {
			r.logger.Warn("no runtime for this machine, skipping optimization", "host", host)
			return
		}
		toolHome = hostState.ExtractedPath
	}

	modules := p.deps.Optimizer.AnalyzeModules(ctx, toolHome, r.req.Jar, r.req.Release.Version)
	r.logger.Info("modules resolved", "modules", modules)

	p.apply(ctx, r, StageOptimize, isTarget, func(ctx context.Context, s BuildState) (BuildState, error) {
		bundle, err := p.deps.Optimizer.Link(ctx, toolHome, s.ExtractedPath, s.Target, modules, r.req.Release.Version)
		if err != nil {
			return s, err
		}
		return s.WithOptimized(bundle), nil
	})
}

func (p *Pipeline) bundle(ctx context.Context, r *run) {
	needed := func(s BuildState) bool { return s.IsTarget && !s.Optimized }
	p.apply(ctx, r, StageBundle, needed, func(ctx context.Context, s BuildState) (BuildState, error) {
		dir, err := p.deps.Bundler.CopyRuntime(ctx, s.Target, s.ExtractedPath, r.req.Release.Version)
		if err != nil {
			return s, err
		}
		return s.WithBundle(dir), nil
	})
}

func (p *Pipeline) writeLaunchers(ctx context.Context, r *run) {
	p.apply(ctx, r, StageLauncher, isTarget, func(_ context.Context, s BuildState) (BuildState, error) {
		script, err := p.deps.Launcher.Write(s.Target, s.BundlePath, r.req.Jar)
		if err != nil {
			return s, fmt.Errorf("writing launcher: %w", err)
		}
		return s.WithScript(script), nil
	})
}

func (p *Pipeline) pack(ctx context.Context, r *run) {
	base := jarBase(r.req.Jar)
	p.apply(ctx, r, StagePack, isTarget, func(ctx context.Context, s BuildState) (BuildState, error) {
		output := filepath.Join(r.req.OutputDir, s.Target.BinaryName(base))
		if err := p.deps.Packer.Pack(ctx, s.Target, s.BundlePath, s.ScriptPath, output); err != nil {
			return s, err
		}
		r.logger.Info("binary packed", "target", s.Target, "binary", output)
		return s.WithBinary(output), nil
	})
}

func (p *Pipeline) compress(ctx context.Context, r *run) {
	p.apply(ctx, r, StageCompress, isTarget, func(ctx context.Context, s BuildState) (BuildState, error) {
		archive, err := p.deps.Compressor.Compress(ctx, s.Target, s.BinaryPath)
		if err != nil {
			return s, err
		}
		return s.WithArchive(archive), nil
	})
}
