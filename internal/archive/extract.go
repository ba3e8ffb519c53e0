// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/warp4j/warp4j/internal/target"
)

// macHomeMarker is the directory inside macOS JDK bundles that holds the runtime.
const macHomeMarker = "Contents/Home/"

// maxEntryBytes caps a single decompressed entry. The largest file in a JDK
// (lib/modules) is well under this.
var maxEntryBytes int64 = 2 << 30

// ExtractZip extracts every entry of the zip file src into destDir.
func ExtractZip(ctx context.Context, src, destDir string) (err error) {
	dest, err := openDest(destDir)
	if err != nil {
		return fmt.Errorf("failed to prepare destination %s: %w", destDir, err)
	}
	defer func() { _ = dest.Close() }()

	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open zip %s: %w", src, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := dest.rel(f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := dest.mkdirAll(rel); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", f.Name, err)
			}
			continue
		}

		if err := extractZipEntry(dest, f, rel); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractZipEntry(dest *destRoot, f *zip.File, rel string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return dest.writeFile(rel, rc, fileMode(f.Mode()))
}

// ExtractTarGz extracts the gzip-compressed tarball src into destDir.
//
// For MacOS the tarball must contain a "<root>/.../Contents/Home/" prefix.
// Entries are rewritten from "<prefix><rest>" to "<root>/<rest>" and entries
// outside the prefix are skipped, so destDir/<root> holds the runtime
// directly. Other platforms are extracted unchanged.
func ExtractTarGz(ctx context.Context, src, destDir string, p target.Platform) (err error) {
	dest, err := openDest(destDir)
	if err != nil {
		return fmt.Errorf("failed to prepare destination %s: %w", destDir, err)
	}
	defer func() { _ = dest.Close() }()

	var rewrite func(name string) (string, bool)
	if p == target.MacOS {
		prefix, err := findMacHomePrefix(src)
		if err != nil {
			return err
		}
		root, _, _ := strings.Cut(prefix, "/")
		if err := dest.mkdirAll(root); err != nil {
			return fmt.Errorf("failed to create %s: %w", root, err)
		}
		rewrite = func(name string) (string, bool) {
			rest, ok := strings.CutPrefix(strings.TrimPrefix(name, "./"), prefix)
			if !ok || strings.TrimSpace(rest) == "" {
				return "", false
			}
			return path.Join(root, rest), true
		}
	}

	return walkTarGz(src, func(hdr *tar.Header, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := hdr.Name
		if rewrite != nil {
			var ok bool
			if name, ok = rewrite(name); !ok {
				return nil
			}
		}

		rel, err := dest.rel(name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			return dest.mkdirAll(rel)
		case tar.TypeReg:
			if err := dest.writeFile(rel, r, fileMode(hdr.FileInfo().Mode())); err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
			return nil
		case tar.TypeSymlink:
			if !restoreModes {
				return nil
			}
			return dest.symlink(hdr.Name, rel, hdr.Linkname)
		default:
			return nil
		}
	})
}

// findMacHomePrefix scans the tarball once and returns the entry prefix up to
// and including "Contents/Home/".
func findMacHomePrefix(src string) (string, error) {
	var prefix string
	errFound := errors.New("found")
	err := walkTarGz(src, func(hdr *tar.Header, _ io.Reader) error {
		name := strings.TrimPrefix(hdr.Name, "./")
		if idx := strings.Index(name, macHomeMarker); idx > 0 {
			prefix = name[:idx+len(macHomeMarker)]
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}
	if prefix == "" {
		return "", fmt.Errorf("%w: no %s directory in %s", ErrLayoutNotFound, macHomeMarker, src)
	}
	return prefix, nil
}

// walkTarGz calls fn for every header in the tarball. Returning an error from
// fn stops the walk and is returned as is.
func walkTarGz(src string, fn func(*tar.Header, io.Reader) error) (err error) {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", src, err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry in %s: %w", src, err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}
