// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/warp4j/warp4j/internal/adoptium"
	"github.com/warp4j/warp4j/internal/archive"
	"github.com/warp4j/warp4j/internal/bundle"
	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/config"
	"github.com/warp4j/warp4j/internal/issue"
	"github.com/warp4j/warp4j/internal/launcher"
	"github.com/warp4j/warp4j/internal/optimizer"
	"github.com/warp4j/warp4j/internal/packer"
	"github.com/warp4j/warp4j/internal/pipeline"
	"github.com/warp4j/warp4j/internal/platform"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/toolexec"
	"github.com/warp4j/warp4j/internal/version"
	"github.com/warp4j/warp4j/pkg/types"
)

// settings are the flag values merged over the loaded configuration.
type settings struct {
	javaVersion config.JavaVersion
	outputDir   string
	concurrency config.Concurrency
	verbose     bool
}

// runPackaging loads configuration, checks the whole-run preconditions and
// drives the pipeline. The summary is printed even when the run was
// interrupted.
func runPackaging(ctx context.Context, app *App, flags *pflag.FlagSet, globals *globalOptions, opts *runOptions) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: globals.configFile})
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}

	s, err := mergeSettings(cfg, flags, globals, opts)
	if err != nil {
		return err
	}

	logger := newLogger(app.stderr, s.verbose)
	runID := uuid.NewString()
	runLogger := logger.With("run", runID)

	sel, err := opts.selection()
	if err != nil {
		return err
	}
	if opts.report != "" {
		if _, err := reportFormat(opts.report); err != nil {
			return err
		}
	}

	jar, err := resolveJar(opts.jar)
	if err != nil {
		return err
	}

	host, err := app.Env.Host()
	if err != nil || !target.PackerSupports(host) {
		return issue.NewErrorContext("check host").
			WithResource(fmt.Sprintf("%s/%s", app.Env.GOOS(), hostArch(host, err))).
			WithHint("Run warp4j on an x64 or aarch64 machine").
			WithIssue(issue.HostNotSupportedId, types.ExitUnsupportedHost).
			Wrap(fmt.Errorf("%w: %s", packer.ErrUnsupportedHost, hostArch(host, err)))
	}

	appData := cfg.AppDataDir
	if appData == "" {
		if appData, err = platform.AppDataDir(app.Env); err != nil {
			return err
		}
	}
	outputDir, err := filepath.Abs(s.outputDir)
	if err != nil {
		return err
	}
	for _, dir := range []string{appData, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return issue.NewErrorContext("create directory").
				WithResource(dir).
				WithHint("Check the permissions of the parent directory").
				WithExitCode(types.ExitIO).
				Wrap(err)
		}
	}

	layout := cache.NewLayout(appData)
	client := newDistributor(app, cfg, logger)

	sources, err := packerSources(cfg.Packer)
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	acquirer := packer.NewAcquirer(layout, client,
		packer.WithSources(sources),
		packer.WithAcquirerLogger(runLogger),
	)

	var (
		packerPath string
		release    version.Release
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		packerPath, err = acquirer.Ensure(gctx, host)
		return err
	})
	g.Go(func() error {
		var err error
		release, err = client.ResolveVersion(gctx, string(s.javaVersion))
		return err
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrInterrupted, ctxErr)
		}
		return err
	}
	runLogger.Info("resolved java version", "release", release, "packer", packerPath)

	runner := toolexec.NewExecRunner(toolexec.WithLogger(logger))
	p := pipeline.New(pipeline.Dependencies{
		Env:         app.Env,
		Layout:      layout,
		Resolver:    cache.NewResolver(layout, cache.WithLogger(logger)),
		Distributor: client,
		Extractor:   archive.Extractor{},
		Optimizer: optimizer.New(runner, layout,
			optimizer.WithHostPlatform(host.Platform),
			optimizer.WithClassPath(opts.classPath...),
			optimizer.WithSpringBoot(opts.springBoot),
			optimizer.WithExtraModules(opts.addModules),
			optimizer.WithLogger(logger),
		),
		Bundler: bundle.NewBundler(layout, bundle.WithLogger(logger)),
		Launcher: launcher.NewWriter(
			launcher.WithJVMOptions(opts.jvmOptions),
			launcher.WithSilent(opts.silent),
			launcher.WithLogger(logger),
		),
		Packer:     packer.New(runner, packerPath, packer.WithPrefix(opts.prefix), packer.WithLogger(logger)),
		Compressor: bundle.NewCompressor(logger),
	}, pipeline.WithConcurrency(int(s.concurrency)), pipeline.WithLogger(logger))

	summary, runErr := p.Run(ctx, pipeline.Request{
		RunID:     runID,
		Jar:       jar,
		Release:   release,
		Selection: sel,
		OutputDir: outputDir,
		Optimize:  opts.optimize,
		Pull:      opts.pull,
		JDK:       localJDK(opts.jdk, host, runLogger),
	})
	if summary != nil {
		printSummary(app.stdout, summary, isTerminal(app.stdout))
		if opts.report != "" {
			if err := writeReport(opts.report, summary); err != nil {
				runLogger.Warn("could not write report", "path", opts.report, "err", err)
			}
		}
	}
	return runErr
}

// mergeSettings applies flags the user set over the configuration and
// validates the result.
func mergeSettings(cfg *config.Config, flags *pflag.FlagSet, globals *globalOptions, opts *runOptions) (settings, error) {
	s := settings{
		javaVersion: cfg.JavaVersion,
		outputDir:   cfg.OutputDir,
		concurrency: cfg.Concurrency,
		verbose:     globals.verbose || cfg.UI.Verbose,
	}
	if flags.Changed("java-version") {
		s.javaVersion = config.JavaVersion(opts.javaVersion)
	}
	if flags.Changed("output") {
		s.outputDir = opts.output
	}
	if flags.Changed("concurrency") {
		s.concurrency = config.Concurrency(opts.concurrency)
	}

	if _, err := s.javaVersion.Parse(); err != nil {
		return settings{}, err
	}
	if ok, errs := s.concurrency.IsValid(); !ok {
		return settings{}, errs[0]
	}
	return s, nil
}

// resolveJar returns the absolute path of the first file matching pattern.
func resolveJar(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid --jar pattern %q: %w", pattern, err)
	}
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			return filepath.Abs(m)
		}
	}
	return "", issue.NewErrorContext("find application jar").
		WithResource(pattern).
		WithHint("Check the path relative to the current directory").
		WithHint("Quote glob patterns so the shell does not expand them").
		WithIssue(issue.JarNotFoundId, types.ExitNotFound).
		Wrap(errJarNotFound)
}

// newDistributor builds the runtime distributor client from configuration.
func newDistributor(app *App, cfg *config.Config, logger *log.Logger) *adoptium.Client {
	return adoptium.NewClient(
		adoptium.WithHTTPClient(app.HTTPClient),
		adoptium.WithBaseURL(string(cfg.Distributor.BaseURL)),
		adoptium.WithImageType(cfg.Distributor.ImageType),
		adoptium.WithCacheSize(cfg.Distributor.CacheSize),
		adoptium.WithTimeout(cfg.Distributor.Timeout),
		adoptium.WithUserAgent(platform.AppName+"/"+Version),
		adoptium.WithLogger(logger),
	)
}

// packerSources merges configured warp-packer URLs and hashes over the
// upstream defaults. A configured URL without a hash drops the default hash.
func packerSources(pc config.PackerConfig) (map[target.Target]packer.Source, error) {
	sources := packer.DefaultSources()

	for _, key := range slices.Sorted(maps.Keys(pc.URLs)) {
		t, err := config.ParsePackerKey(key)
		if err != nil {
			return nil, err
		}
		sources[packer.SourceTarget(t)] = packer.Source{URL: pc.URLs[key]}
	}
	for _, key := range slices.Sorted(maps.Keys(pc.Hashes)) {
		t, err := config.ParsePackerKey(key)
		if err != nil {
			return nil, err
		}
		src := sources[packer.SourceTarget(t)]
		src.SHA256 = pc.Hashes[key]
		sources[packer.SourceTarget(t)] = src
	}
	return sources, nil
}

// localJDK returns dir when it holds jdeps and jlink. An unusable directory
// is ignored with a warning and the optimizer falls back to a downloaded
// host runtime.
func localJDK(dir string, host target.Target, logger *log.Logger) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err == nil && optimizer.ValidJDK(abs, host.Platform) {
		return abs
	}
	logger.Warn("ignoring --jdk: jdeps or jlink not found", "path", dir)
	return ""
}

func hostArch(host target.Target, err error) string {
	if err != nil {
		return err.Error()
	}
	return host.String()
}
