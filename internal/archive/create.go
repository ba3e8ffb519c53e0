// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// CreateZip archives src into a new zip file at dest. A directory is stored
// with entry names relative to it; a single file is stored under its base name.
func CreateZip(src, dest string) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	zw := zip.NewWriter(out)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return walkSource(src, func(p, name string, info fs.FileInfo) error {
		if info.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = name
		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyFrom(p, w)
	})
}

// CreateTarGz archives src into a gzip-compressed tarball at dest. A
// directory is stored under "<dirname>/<relative path>"; a single file under
// its base name. Executable files get mode 0755.
func CreateTarGz(src, dest string) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	gz := gzip.NewWriter(out)
	defer func() {
		if closeErr := gz.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	tw := tar.NewWriter(gz)
	defer func() {
		if closeErr := tw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	root := ""
	if info.IsDir() {
		root = filepath.Base(src)
	}

	return walkSource(src, func(p, name string, info fs.FileInfo) error {
		if root != "" {
			name = root + "/" + name
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
			header.Mode = 0o755
			return tw.WriteHeader(header)
		}
		header.Mode = 0o644
		if info.Mode().Perm()&0o111 != 0 {
			header.Mode = 0o755
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		return copyFrom(p, tw)
	})
}

// walkSource visits src. For a directory fn is called for every descendant
// with its slash-separated path relative to src; for a file fn is called
// once with the base name. Symlinks and other special files are skipped.
func walkSource(src string, fn func(path, name string, info fs.FileInfo) error) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fn(src, filepath.Base(src), info)
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}
		return fn(p, filepath.ToSlash(rel), info)
	})
}

func copyFrom(p string, w io.Writer) (err error) {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = io.Copy(w, f)
	return err
}
