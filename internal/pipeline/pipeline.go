// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

// DefaultConcurrency bounds per-stage parallel work.
const DefaultConcurrency = 4

var (
	// ErrInterrupted is returned when the run was cancelled between stages.
	ErrInterrupted = errors.New("run interrupted")

	// ErrRuntimeNotFound is returned when extraction produced no runtime directory matching the release.
	ErrRuntimeNotFound = errors.New("extracted runtime not found")
)

type (
	// Request describes one run.
	Request struct {
		RunID     string
		Jar       string
		Release   version.Release
		Selection target.Selection
		OutputDir string
		Optimize  bool
		// Pull refreshes cached downloads and extractions.
		Pull bool
		// JDK is a validated local JDK providing jdeps and jlink. When set
		// no host runtime is added for the optimizer.
		JDK string
	}

	// Pipeline runs requests against its collaborators.
	Pipeline struct {
		deps        Dependencies
		fs          afero.Fs
		concurrency int
		logger      *log.Logger
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)

	stateFunc func(ctx context.Context, s BuildState) (BuildState, error)

	run struct {
		req     Request
		logger  *log.Logger
		results []Result
	}
)

// WithConcurrency sets the per-stage worker count. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the pipeline's logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFs sets the filesystem used to remove stale artifacts.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// New creates a pipeline.
func New(deps Dependencies, opts ...Option) *Pipeline {
	p := &Pipeline{
		deps:        deps,
		fs:          afero.NewOsFs(),
		concurrency: DefaultConcurrency,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage for req. The returned summary is non-nil even
// when the run was interrupted; it then covers the stages that completed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Summary, error) {
	r := &run{req: req, logger: p.logger.With("run", req.RunID)}
	p.cleanup(r)

	targets := target.Select(req.Selection)
	r.logger.Info("targets selected", "targets", targets, "version", req.Release)
	r.results = p.resolveTargets(targets, r)

	steps := []struct {
		stage Stage
		fn    func(context.Context, *run)
	}{
		{StageResolve, p.addHostRuntime},
		{StageDownload, p.download},
		{StageExtract, p.extract},
		{StageOptimize, p.optimize},
		{StageBundle, p.bundle},
		{StageLauncher, p.writeLaunchers},
		{StagePack, p.pack},
		{StageCompress, p.compress},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return summarize(req.RunID, req.Release.String(), r.results),
				fmt.Errorf("%w before %s stage: %w", ErrInterrupted, step.stage, err)
		}
		step.fn(ctx, r)
	}

	summary := summarize(req.RunID, req.Release.String(), r.results)
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	if len(summary.Produced) == 0 {
		r.logger.Warn("no target was produced", "dropped", len(summary.Dropped))
	}
	return summary, nil
}

// cleanup removes what earlier runs left in the bundle tree and the module
// descriptor scratch jar. Failures are logged.
func (p *Pipeline) cleanup(r *run) {
	for _, path := range []string{p.deps.Layout.BundleRoot(), p.deps.Layout.CleanedJar()} {
		if err := p.fs.RemoveAll(path); err != nil {
			r.logger.Warn("could not remove previous artifacts", "path", path, "error", err)
		}
	}
}

func (p *Pipeline) resolveTargets(targets []target.Target, r *run) []Result {
	return iter.Mapper[target.Target, Result]{MaxGoroutines: p.concurrency}.Map(targets, func(t *target.Target) Result {
		return p.resolveOne(*t, r)
	})
}

func (p *Pipeline) resolveOne(t target.Target, r *run) Result {
	entry, err := p.deps.Resolver.Resolve(t, r.req.Release)
	if err != nil {
		res := dropped(BuildState{Target: t, IsTarget: true}, StageResolve, err)
		p.logDrop(r, res)
		return res
	}
	return kept(NewState(entry))
}

// apply runs fn for every kept state accepted by applies. Other results pass
// through unchanged and the input order is preserved.
func (p *Pipeline) apply(ctx context.Context, r *run, stage Stage, applies func(BuildState) bool, fn stateFunc) {
	r.results = iter.Mapper[Result, Result]{MaxGoroutines: p.concurrency}.Map(r.results, func(res *Result) Result {
		if res.Dropped || !applies(res.State) {
			return *res
		}
		if err := ctx.Err(); err != nil {
			out := dropped(res.State, stage, err)
			p.logDrop(r, out)
			return out
		}
		next, err := fn(ctx, res.State)
		if err != nil {
			out := dropped(res.State, stage, err)
			p.logDrop(r, out)
			return out
		}
		return kept(next)
	})
}

func (p *Pipeline) logDrop(r *run, res Result) {
	r.logger.Warn("target dropped", "target", res.State.Target, "stage", res.Stage, "reason", firstLine(res.Reason))
	r.logger.Debug("target failure", "target", res.State.Target, "stage", res.Stage, "error", res.Err)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (r *run) find(t target.Target) (BuildState, bool) {
	for _, res := range r.results {
		if !res.Dropped && res.State.Target == t {
			return res.State, true
		}
	}
	return BuildState{}, false
}

func (r *run) wantsOptimization() bool {
	return r.req.Optimize && r.req.Release.Version.Major > 8
}

func isTarget(s BuildState) bool { return s.IsTarget }

func jarBase(jar string) string {
	name := filepath.Base(jar)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
