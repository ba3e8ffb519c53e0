// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

var (
	linuxX64   = target.New(target.Linux, target.X64)
	windowsX64 = target.New(target.Windows, target.X64)
	macX64     = target.New(target.MacOS, target.X64)
	testLayout = cache.NewLayout(filepath.FromSlash("/cache"))
	testOutput = filepath.FromSlash("/out")
	testJar    = filepath.FromSlash("/in/app.jar")
	java17     = version.Release{Version: version.New(17, 0, 0)}
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.list() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakeEnv struct {
	host target.Target
	err  error
}

func (fakeEnv) GOOS() string { return "linux" }

func (fakeEnv) HomeDir() (string, error) { return "/home/tester", nil }

func (fakeEnv) Getenv(string) string { return "" }

func (e fakeEnv) Host() (target.Target, error) { return e.host, e.err }

// harness wires fakes that record every collaborator call. Failures are
// keyed by target.
type harness struct {
	calls   *recorder
	env     fakeEnv
	fs      afero.Fs
	entries map[target.Target]cache.Entry
	missing map[target.Target]bool
	fail    map[string]map[target.Target]error

	onDownload func()
	onExtract  func(destDir string) error
	// resolver replaces the fake resolver when set.
	resolver StateResolver
}

func newHarness() *harness {
	return &harness{
		calls:   &recorder{},
		env:     fakeEnv{host: linuxX64},
		fs:      afero.NewMemMapFs(),
		entries: map[target.Target]cache.Entry{},
		missing: map[target.Target]bool{},
		fail:    map[string]map[target.Target]error{},
	}
}

func (h *harness) failOn(op string, t target.Target, err error) {
	if h.fail[op] == nil {
		h.fail[op] = map[target.Target]error{}
	}
	h.fail[op][t] = err
}

func (h *harness) err(op string, t target.Target) error {
	return h.fail[op][t]
}

func (h *harness) pipeline(opts ...Option) *Pipeline {
	var resolver StateResolver = (*fakeResolver)(h)
	if h.resolver != nil {
		resolver = h.resolver
	}
	deps := Dependencies{
		Env:         h.env,
		Layout:      testLayout,
		Resolver:    resolver,
		Distributor: (*fakeDistributor)(h),
		Extractor:   (*fakeExtractor)(h),
		Optimizer:   (*fakeOptimizer)(h),
		Bundler:     (*fakeBundler)(h),
		Launcher:    (*fakeLauncher)(h),
		Packer:      (*fakePacker)(h),
		Compressor:  (*fakeCompressor)(h),
	}
	return New(deps, append([]Option{WithFs(h.fs)}, opts...)...)
}

func jdkPath(t target.Target) string {
	return filepath.Join(testLayout.JDKDir(t), "jdk-17")
}

func request(targets ...target.Target) Request {
	return Request{
		RunID:     "run-1",
		Jar:       testJar,
		Release:   java17,
		Selection: target.Selection{Targets: targets},
		OutputDir: testOutput,
	}
}

type (
	fakeResolver    harness
	fakeDistributor harness
	fakeExtractor   harness
	fakeOptimizer   harness
	fakeBundler     harness
	fakeLauncher    harness
	fakePacker      harness
	fakeCompressor  harness
)

func (f *fakeResolver) Resolve(t target.Target, _ version.Release) (cache.Entry, error) {
	h := (*harness)(f)
	h.calls.add("resolve %s", t)
	if err := h.err("resolve", t); err != nil {
		return cache.Entry{}, err
	}
	if e, ok := h.entries[t]; ok {
		e.Target = t
		return e, nil
	}
	return cache.Entry{Target: t}, nil
}

func (f *fakeResolver) Locate(t target.Target, _ version.Release) (string, bool) {
	if f.missing[t] {
		return "", false
	}
	return jdkPath(t), true
}

func (f *fakeDistributor) DownloadURL(_ context.Context, _ version.Release, t target.Target) (string, error) {
	h := (*harness)(f)
	h.calls.add("url %s", t)
	if err := h.err("url", t); err != nil {
		return "", err
	}
	return "https://dist.test/" + t.String(), nil
}

func (f *fakeDistributor) Download(ctx context.Context, url, _ string) error {
	h := (*harness)(f)
	name := strings.TrimPrefix(url, "https://dist.test/")
	h.calls.add("download %s", name)
	if h.onDownload != nil {
		h.onDownload()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := target.ParseTarget(name)
	if err != nil {
		return err
	}
	return h.err("download", t)
}

// Extract records the target directory the staging directory belongs to.
func (f *fakeExtractor) Extract(_ context.Context, _, destDir string, p target.Platform) error {
	h := (*harness)(f)
	jdkDir := filepath.Dir(destDir)
	rel, _ := filepath.Rel(testLayout.JDKRoot(), jdkDir)
	h.calls.add("extract %s", filepath.ToSlash(rel))
	for t, err := range h.fail["extract"] {
		if t.Platform == p && testLayout.JDKDir(t) == jdkDir {
			return err
		}
	}
	if h.onExtract != nil {
		return h.onExtract(destDir)
	}
	return nil
}

// pinnedFs refuses to remove one path, like a runtime held open by another
// process.
type pinnedFs struct {
	afero.Fs
	pinned string
}

func (f pinnedFs) RemoveAll(path string) error {
	if path == f.pinned {
		return &os.PathError{Op: "removeall", Path: path, Err: os.ErrPermission}
	}
	return f.Fs.RemoveAll(path)
}

func (f *fakeOptimizer) AnalyzeModules(_ context.Context, toolHome, _ string, _ version.Version) string {
	f.calls.add("analyze %s", toolHome)
	return "java.base,java.sql"
}

func (f *fakeOptimizer) Link(_ context.Context, toolHome, targetJDK string, t target.Target, modules string, _ version.Version) (string, error) {
	h := (*harness)(f)
	h.calls.add("link %s %s %s %s", t, toolHome, targetJDK, modules)
	if err := h.err("link", t); err != nil {
		return "", err
	}
	return testLayout.BundleDir(t), nil
}

func (f *fakeBundler) CopyRuntime(_ context.Context, t target.Target, jdk string, _ version.Version) (string, error) {
	h := (*harness)(f)
	h.calls.add("bundle %s %s", t, jdk)
	if err := h.err("bundle", t); err != nil {
		return "", err
	}
	return testLayout.BundleDir(t), nil
}

func (f *fakeLauncher) Write(t target.Target, bundleDir, _ string) (string, error) {
	h := (*harness)(f)
	h.calls.add("launcher %s", t)
	if err := h.err("launcher", t); err != nil {
		return "", err
	}
	return filepath.Join(bundleDir, "app.sh"), nil
}

func (f *fakePacker) Pack(_ context.Context, t target.Target, _, _, output string) error {
	h := (*harness)(f)
	h.calls.add("pack %s %s", t, filepath.Base(output))
	return h.err("pack", t)
}

func (f *fakeCompressor) Compress(_ context.Context, t target.Target, binary string) (string, error) {
	h := (*harness)(f)
	h.calls.add("compress %s", t)
	if err := h.err("compress", t); err != nil {
		return "", err
	}
	return binary + ".tar.gz", nil
}
