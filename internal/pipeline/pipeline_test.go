// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

func TestRun_FullPipeline(t *testing.T) {
	t.Parallel()

	h := newHarness()
	summary, err := h.pipeline().Run(context.Background(), request(linuxX64))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"resolve linux-x64",
		"url linux-x64",
		"download linux-x64",
		"extract linux/x64",
		"bundle linux-x64 " + jdkPath(linuxX64),
		"launcher linux-x64",
		"pack linux-x64 app-linux-x64",
		"compress linux-x64",
	}, h.calls.list())

	binary := filepath.Join(testOutput, "app-linux-x64")
	assert.Equal(t, &Summary{
		RunID:    "run-1",
		Version:  "17.0.0",
		Produced: []Artifact{{Target: "linux-x64", Binary: binary, Archive: binary + ".tar.gz"}},
		Dropped:  []Drop{},
	}, summary)
	assert.Equal(t, []string{binary}, summary.Binaries())
}

func TestRun_CachedTargetSkipsNetworkAndExtraction(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.entries[linuxX64] = cache.Entry{Extracted: true, ExtractedPath: jdkPath(linuxX64)}
	p := h.pipeline()

	first, err := p.Run(context.Background(), request(linuxX64))
	require.NoError(t, err)
	second, err := p.Run(context.Background(), request(linuxX64))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Zero(t, h.calls.count("url"))
	assert.Zero(t, h.calls.count("download"))
	assert.Zero(t, h.calls.count("extract"))
	assert.Equal(t, 2, h.calls.count("pack"))
}

func TestRun_DownloadedOnlyIsExtracted(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.entries[linuxX64] = cache.Entry{Downloaded: true}
	_, err := h.pipeline().Run(context.Background(), request(linuxX64))
	require.NoError(t, err)

	assert.Zero(t, h.calls.count("download"))
	assert.Equal(t, 1, h.calls.count("extract"))
}

func TestRun_PullRefreshesCache(t *testing.T) {
	t.Parallel()

	h := newHarness()
	stale := jdkPath(linuxX64)
	require.NoError(t, afero.WriteFile(h.fs, filepath.Join(stale, "bin", "java"), []byte("old"), 0o755))
	require.NoError(t, afero.WriteFile(h.fs, testLayout.CompressedJDK(linuxX64), []byte("gz"), 0o644))
	h.entries[linuxX64] = cache.Entry{Downloaded: true, Extracted: true, ExtractedPath: stale}

	req := request(linuxX64)
	req.Pull = true
	summary, err := h.pipeline().Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, summary.Produced, 1)

	assert.Equal(t, 1, h.calls.count("download"))
	assert.Equal(t, 1, h.calls.count("extract"))
	exists, err := afero.Exists(h.fs, stale)
	require.NoError(t, err)
	assert.False(t, exists, "stale runtime must be removed before extraction")
	exists, err = afero.Exists(h.fs, testLayout.CompressedJDK(linuxX64))
	require.NoError(t, err)
	assert.False(t, exists, "compressed runtime is removed once extracted")
}

func TestRun_StaleDeletionFailureIsIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.NoError(t, afero.WriteFile(h.fs, filepath.Join(jdkPath(linuxX64), "release"), []byte("x"), 0o644))
	h.fs = pinnedFs{Fs: h.fs, pinned: jdkPath(linuxX64)}
	h.entries[linuxX64] = cache.Entry{Extracted: true, ExtractedPath: jdkPath(linuxX64)}

	req := request(linuxX64)
	req.Pull = true
	summary, err := h.pipeline().Run(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, summary.Produced, 1)
	assert.Equal(t, 1, h.calls.count("extract"))
}

func TestRun_InterruptedExtractionIsRetried(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.resolver = cache.NewResolver(testLayout, cache.WithFs(h.fs))
	interrupted := true
	h.onExtract = func(destDir string) error {
		if err := afero.WriteFile(h.fs, filepath.Join(destDir, "jdk-17", "release"), []byte("JAVA_VERSION=17"), 0o644); err != nil {
			return err
		}
		if interrupted {
			return context.Canceled
		}
		return afero.WriteFile(h.fs, filepath.Join(destDir, "jdk-17", "bin", "java"), []byte("java"), 0o755)
	}

	summary, err := h.pipeline().Run(context.Background(), request(linuxX64))
	require.NoError(t, err)
	require.Len(t, summary.Dropped, 1)
	assert.Equal(t, StageExtract, summary.Dropped[0].Stage)

	exists, err := afero.DirExists(h.fs, jdkPath(linuxX64))
	require.NoError(t, err)
	assert.False(t, exists, "partial runtime must not be left in the cache")
	entries, err := afero.ReadDir(h.fs, testLayout.JDKDir(linuxX64))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), stagingPrefix), "staging directory %s left behind", e.Name())
	}

	interrupted = false
	summary, err = h.pipeline().Run(context.Background(), request(linuxX64))
	require.NoError(t, err)

	require.Len(t, summary.Produced, 1)
	assert.Equal(t, 2, h.calls.count("extract linux/x64"))
	assert.Equal(t, 1, h.calls.count("bundle linux-x64 "+jdkPath(linuxX64)))
	exists, err = afero.Exists(h.fs, filepath.Join(jdkPath(linuxX64), "bin", "java"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRun_StaleStagingIsCleared(t *testing.T) {
	t.Parallel()

	h := newHarness()
	stale := filepath.Join(testLayout.JDKDir(linuxX64), stagingPrefix+"killed", "jdk-17")
	require.NoError(t, afero.WriteFile(h.fs, filepath.Join(stale, "release"), []byte("x"), 0o644))

	summary, err := h.pipeline().Run(context.Background(), request(linuxX64))
	require.NoError(t, err)
	require.Len(t, summary.Produced, 1)

	exists, err := afero.DirExists(h.fs, filepath.Dir(stale))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_FailuresDropOnlyTheirTarget(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.failOn("url", windowsX64, errors.New("no binary published"))
	h.failOn("pack", macX64, errors.New("warp-packer exited with status 1"))

	summary, err := h.pipeline().Run(context.Background(), request(windowsX64, linuxX64, macX64))
	require.NoError(t, err)

	require.Len(t, summary.Produced, 1)
	assert.Equal(t, "linux-x64", summary.Produced[0].Target)

	require.Len(t, summary.Dropped, 2)
	assert.Equal(t, "windows-x64", summary.Dropped[0].Target)
	assert.Equal(t, StageDownload, summary.Dropped[0].Stage)
	assert.Contains(t, summary.Dropped[0].Reason, "no binary published")
	assert.Equal(t, "mac-x64", summary.Dropped[1].Target)
	assert.Equal(t, StagePack, summary.Dropped[1].Stage)

	assert.Zero(t, h.calls.count("extract windows/x64"))
	assert.Zero(t, h.calls.count("compress mac-x64"))
}

func TestRun_DropStages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op    string
		stage Stage
	}{
		{"resolve", StageResolve},
		{"download", StageDownload},
		{"extract", StageExtract},
		{"bundle", StageBundle},
		{"launcher", StageLauncher},
		{"pack", StagePack},
		{"compress", StageCompress},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			t.Parallel()

			h := newHarness()
			h.failOn(tt.op, linuxX64, errors.New(tt.op+" failed"))
			summary, err := h.pipeline().Run(context.Background(), request(linuxX64))
			require.NoError(t, err)

			assert.Empty(t, summary.Produced)
			require.Len(t, summary.Dropped, 1)
			assert.Equal(t, tt.stage, summary.Dropped[0].Stage)
			assert.Contains(t, summary.Dropped[0].Reason, tt.op+" failed")
		})
	}
}

func TestRun_ExtractedRuntimeNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.missing[linuxX64] = true
	summary, err := h.pipeline().Run(context.Background(), request(linuxX64))
	require.NoError(t, err)

	require.Len(t, summary.Dropped, 1)
	assert.Equal(t, StageExtract, summary.Dropped[0].Stage)
	assert.Contains(t, summary.Dropped[0].Reason, ErrRuntimeNotFound.Error())
}

func TestRun_OptimizeAddsHostRuntime(t *testing.T) {
	t.Parallel()

	h := newHarness()
	req := request(windowsX64)
	req.Optimize = true

	summary, err := h.pipeline().Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, h.calls.count("resolve linux-x64"), "host runtime resolved once")
	assert.Equal(t, 1, h.calls.count("download linux-x64"))
	assert.Equal(t, []string{"analyze " + jdkPath(linuxX64)}, filter(h.calls.list(), "analyze"))
	assert.Equal(t,
		[]string{"link windows-x64 " + jdkPath(linuxX64) + " " + jdkPath(windowsX64) + " java.base,java.sql"},
		filter(h.calls.list(), "link"))

	assert.Zero(t, h.calls.count("bundle"), "optimized targets are not copied")
	assert.Zero(t, h.calls.count("launcher linux-x64"))
	assert.Zero(t, h.calls.count("pack linux-x64"))

	require.Len(t, summary.Produced, 1)
	assert.Equal(t, "windows-x64", summary.Produced[0].Target)
	assert.Empty(t, summary.Dropped)
}

func TestRun_OptimizeWithHostSelected(t *testing.T) {
	t.Parallel()

	h := newHarness()
	req := request(linuxX64, windowsX64)
	req.Optimize = true

	summary, err := h.pipeline().Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, h.calls.count("resolve linux-x64"))
	assert.Equal(t, 2, h.calls.count("link"))
	assert.Len(t, summary.Produced, 2)
}

func TestRun_OptimizeSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(h *harness, req *Request)
		resolve int
	}{
		{
			name:  "java 8",
			setup: func(_ *harness, req *Request) { req.Release = version.Release{Version: version.New(8, 0, 422)} },
		},
		{
			name:  "host not buildable",
			setup: func(h *harness, _ *Request) { h.env.host = target.New(target.Linux, target.X32) },
		},
		{
			name:  "host unknown",
			setup: func(h *harness, _ *Request) { h.env.err = errors.New("unsupported GOARCH") },
		},
		{
			name:    "host runtime dropped",
			setup:   func(h *harness, _ *Request) { h.failOn("download", linuxX64, errors.New("offline")) },
			resolve: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness()
			req := request(windowsX64)
			req.Optimize = true
			tt.setup(h, &req)

			summary, err := h.pipeline().Run(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.resolve, h.calls.count("resolve linux-x64"))
			assert.Zero(t, h.calls.count("analyze"))
			assert.Zero(t, h.calls.count("link"))
			assert.Equal(t, 1, h.calls.count("bundle windows-x64"))
			require.Len(t, summary.Produced, 1)
			assert.Empty(t, summary.Dropped, "host-only failures are not reported as dropped targets")
		})
	}
}

func TestRun_OptimizeWithLocalJDK(t *testing.T) {
	t.Parallel()

	h := newHarness()
	req := request(windowsX64)
	req.Optimize = true
	req.JDK = filepath.FromSlash("/opt/jdk-21")

	_, err := h.pipeline().Run(context.Background(), req)
	require.NoError(t, err)

	assert.Zero(t, h.calls.count("resolve linux-x64"))
	assert.Equal(t, []string{"analyze " + req.JDK}, filter(h.calls.list(), "analyze"))
	assert.Equal(t, 1, h.calls.count("link windows-x64 "+req.JDK))
}

func TestRun_LinkFailureDropsTarget(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.failOn("link", windowsX64, errors.New("jlink exited with status 1"))
	req := request(windowsX64, linuxX64)
	req.Optimize = true

	summary, err := h.pipeline().Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, summary.Dropped, 1)
	assert.Equal(t, Drop{Target: "windows-x64", Stage: StageOptimize, Reason: "jlink exited with status 1"}, summary.Dropped[0])
	require.Len(t, summary.Produced, 1)
	assert.Equal(t, "linux-x64", summary.Produced[0].Target)
}

func TestRun_InterruptedDuringStage(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness()
	h.onDownload = cancel

	summary, err := h.pipeline().Run(ctx, request(linuxX64))
	require.ErrorIs(t, err, ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)

	require.NotNil(t, summary)
	require.Len(t, summary.Dropped, 1)
	assert.Equal(t, Drop{Target: "linux-x64", Stage: StageDownload, Reason: ReasonInterrupted}, summary.Dropped[0])
	assert.Zero(t, h.calls.count("extract"))
}

func TestRun_CancelledBeforeStages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness()
	summary, err := h.pipeline().Run(ctx, request(linuxX64))
	require.ErrorIs(t, err, ErrInterrupted)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Produced)
	assert.Zero(t, h.calls.count("download"))
}

func TestRun_NoBuildableTargets(t *testing.T) {
	t.Parallel()

	h := newHarness()
	summary, err := h.pipeline().Run(context.Background(), request(target.New(target.Linux, target.X32)))
	require.NoError(t, err)

	assert.Empty(t, summary.Produced)
	assert.Empty(t, summary.Dropped)
	assert.Empty(t, h.calls.list())
}

func TestRun_RemovesPreviousRunArtifacts(t *testing.T) {
	t.Parallel()

	h := newHarness()
	leftover := filepath.Join(testLayout.BundleDir(windowsX64), "java", "bin", "java.exe")
	require.NoError(t, afero.WriteFile(h.fs, leftover, []byte("x"), 0o755))
	require.NoError(t, afero.WriteFile(h.fs, testLayout.CleanedJar(), []byte("jar"), 0o644))

	_, err := h.pipeline().Run(context.Background(), request(target.New(target.Linux, target.X32)))
	require.NoError(t, err)

	for _, p := range []string{testLayout.BundleRoot(), testLayout.CleanedJar()} {
		exists, err := afero.Exists(h.fs, p)
		require.NoError(t, err)
		assert.False(t, exists, p)
	}
}

func TestRun_KeepsTargetOrderWithConcurrency(t *testing.T) {
	t.Parallel()

	h := newHarness()
	req := request()
	summary, err := h.pipeline(WithConcurrency(2)).Run(context.Background(), req)
	require.NoError(t, err)

	var got []string
	for _, a := range summary.Produced {
		got = append(got, a.Target)
	}
	var want []string
	for _, tgt := range target.AllBuildable() {
		want = append(want, tgt.String())
	}
	assert.Equal(t, want, got)
}

func filter(calls []string, prefix string) []string {
	var out []string
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
