// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp4j/warp4j/internal/archive"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/testutil"
)

func TestArchivePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target target.Target
		binary string
		want   string
	}{
		{target.New(target.Windows, target.X64), "out/app-windows-x64.exe", "out/app-windows-x64.zip"},
		{target.New(target.Linux, target.AArch64), "out/app-linux-aarch64", "out/app-linux-aarch64.tar.gz"},
		{target.New(target.MacOS, target.X64), "out/app-mac-x64", "out/app-mac-x64.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ArchivePath(tt.target, tt.binary))
		})
	}
}

func TestCompressor_Compress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  target.Target
		binary  string
		archive string
		entry   string
	}{
		{"linux", target.New(target.Linux, target.X64), "app-linux-x64", "app-linux-x64.tar.gz", "app-linux-x64"},
		{"windows", target.New(target.Windows, target.X64), "app-windows-x64.exe", "app-windows-x64.zip", "app-windows-x64.exe"},
		{"mac", target.New(target.MacOS, target.AArch64), "app-mac-aarch64", "app-mac-aarch64.tar.gz", "app-mac-aarch64.app/app-mac-aarch64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := t.TempDir()
			binary := filepath.Join(out, tt.binary)
			testutil.MustWriteFile(t, binary, "binary:"+tt.name, 0o755)
			// A stale archive from an earlier run is replaced.
			testutil.MustWriteFile(t, filepath.Join(out, tt.archive), "stale", 0o644)

			got, err := NewCompressor(nil).Compress(context.Background(), tt.target, binary)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(out, tt.archive), got)

			dest := t.TempDir()
			if tt.target.Platform == target.Windows {
				require.NoError(t, archive.ExtractZip(context.Background(), got, dest))
			} else {
				require.NoError(t, archive.ExtractTarGz(context.Background(), got, dest, target.Linux))
			}
			data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(tt.entry)))
			require.NoError(t, err)
			assert.Equal(t, "binary:"+tt.name, string(data))
		})
	}
}

func TestCompressor_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCompressor(nil).Compress(ctx, target.New(target.Linux, target.X64), filepath.Join(t.TempDir(), "bin"))
	assert.ErrorIs(t, err, context.Canceled)
}
