// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp4j/warp4j/internal/testutil"
)

func TestCopyDir(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "src")
	testutil.MustWriteFile(t, filepath.Join(src, "bin", "java"), "#!/bin/sh\n", 0o755)
	testutil.MustWriteFile(t, filepath.Join(src, "lib", "modules"), "modules", 0o644)
	testutil.MustWriteFile(t, filepath.Join(src, "release"), "JAVA_VERSION=\"17\"\n", 0o644)
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink(filepath.Join("lib", "modules"), filepath.Join(src, "modules-link")))
	}

	dst := filepath.Join(t.TempDir(), "nested", "dst")
	require.NoError(t, CopyDir(context.Background(), src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "lib", "modules"))
	require.NoError(t, err)
	assert.Equal(t, "modules", string(data))
	assert.FileExists(t, filepath.Join(dst, "release"))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(filepath.Join(dst, "bin", "java"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), fi.Mode().Perm())

		link, err := os.Readlink(filepath.Join(dst, "modules-link"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("lib", "modules"), link)
	}
}

func TestCopyDir_Errors(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	file := filepath.Join(tmp, "file")
	testutil.MustWriteFile(t, file, "x", 0o644)

	assert.Error(t, CopyDir(context.Background(), filepath.Join(tmp, "missing"), filepath.Join(tmp, "a")))
	assert.Error(t, CopyDir(context.Background(), file, filepath.Join(tmp, "b")))

	src := filepath.Join(tmp, "src")
	testutil.MustWriteFile(t, filepath.Join(src, "one"), "1", 0o644)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, CopyDir(ctx, src, filepath.Join(tmp, "c")), context.Canceled)
}

func TestCopyFile_Overwrites(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	testutil.MustWriteFile(t, src, "new", 0o600)
	testutil.MustWriteFile(t, dst, "old content that is longer", 0o644)

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	if runtime.GOOS != "windows" {
		fi, err := os.Stat(dst)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}
