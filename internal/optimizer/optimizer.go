// SPDX-License-Identifier: MPL-2.0

package optimizer

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/toolexec"
)

type (
	// Optimizer runs jdeps and jlink through a toolexec.Runner.
	Optimizer struct {
		runner       toolexec.Runner
		layout       cache.Layout
		host         target.Platform
		classPath    []string
		springBoot   bool
		extraModules string
		logger       *log.Logger
	}

	// Option configures an Optimizer.
	Option func(*Optimizer)
)

// WithHostPlatform sets the platform whose tool binaries are executed.
// Defaults to the platform of the running process.
func WithHostPlatform(p target.Platform) Option {
	return func(o *Optimizer) { o.host = p }
}

// WithClassPath adds user supplied files or directories that are scanned for
// .jar and .class files.
func WithClassPath(paths ...string) Option {
	return func(o *Optimizer) { o.classPath = append(o.classPath, paths...) }
}

// WithSpringBoot makes the optimizer unpack the application jar and add its
// BOOT-INF/lib jars to the analysis class path.
func WithSpringBoot(enabled bool) Option {
	return func(o *Optimizer) { o.springBoot = enabled }
}

// WithExtraModules appends a comma separated module list to every non-empty analysis.
func WithExtraModules(modules string) Option {
	return func(o *Optimizer) { o.extraModules = modules }
}

// WithLogger sets the optimizer's logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an optimizer that keeps its scratch files in layout.
func New(runner toolexec.Runner, layout cache.Layout, opts ...Option) *Optimizer {
	o := &Optimizer{
		runner: runner,
		layout: layout,
		logger: log.New(io.Discard),
	}
	if runtime.GOOS == "windows" {
		o.host = target.Windows
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
