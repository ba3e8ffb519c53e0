// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/warp4j/warp4j/internal/archive"
	"github.com/warp4j/warp4j/internal/target"
)

const (
	zipExt   = ".zip"
	tarGzExt = ".tar.gz"
	appExt   = ".app"
)

// Compressor wraps produced binaries in the archive format customary for
// their platform.
type Compressor struct {
	logger *log.Logger
}

// NewCompressor creates a compressor. A nil logger discards output.
func NewCompressor(l *log.Logger) *Compressor {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &Compressor{logger: l}
}

// ArchivePath returns where the archive of binary is written: <name>.zip
// without the .exe suffix on Windows, <binary>.tar.gz elsewhere.
func ArchivePath(t target.Target, binary string) string {
	if t.Platform == target.Windows {
		return strings.TrimSuffix(binary, t.Platform.ExeSuffix()) + zipExt
	}
	return binary + tarGzExt
}

// Compress archives binary next to itself and returns the archive path. On
// macOS the binary is first placed in a <binary>.app directory, which is what
// gets archived. An existing archive is replaced.
func (c *Compressor) Compress(ctx context.Context, t target.Target, binary string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := ArchivePath(t, binary)
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("removing previous %s: %w", filepath.Base(dest), err)
	}

	var err error
	switch t.Platform {
	case target.Windows:
		err = archive.CreateZip(binary, dest)
	case target.MacOS:
		err = c.compressApp(binary, dest)
	default:
		err = archive.CreateTarGz(binary, dest)
	}
	if err != nil {
		return "", fmt.Errorf("compressing %s: %w", filepath.Base(binary), err)
	}

	c.logger.Debug("archive written", "target", t, "archive", dest)
	return dest, nil
}

func (c *Compressor) compressApp(binary, dest string) error {
	appDir := binary + appExt
	if err := os.RemoveAll(appDir); err != nil {
		return err
	}
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return err
	}
	if err := CopyFile(binary, filepath.Join(appDir, filepath.Base(binary))); err != nil {
		return err
	}
	return archive.CreateTarGz(appDir, dest)
}
