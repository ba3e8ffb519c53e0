// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	moduleInfoClass = "module-info.class"
	manifestPath    = "META-INF/MANIFEST.MF"
)

// isModuleInfo matches the root descriptor and versioned or nested copies
// such as META-INF/versions/11/module-info.class.
func isModuleInfo(name string) bool {
	return path.Base(name) == moduleInfoClass
}

// JarHasModuleInfo reports whether the jar contains a module descriptor.
func JarHasModuleInfo(jarPath string) (bool, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return false, fmt.Errorf("failed to open jar %s: %w", jarPath, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if isModuleInfo(f.Name) {
			return true, nil
		}
	}
	return false, nil
}

// IsMultiRelease reports whether the jar manifest declares "Multi-Release: true".
func IsMultiRelease(jarPath string) (bool, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return false, fmt.Errorf("failed to open jar %s: %w", jarPath, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != manifestPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return false, err
		}
		defer rc.Close()

		sc := bufio.NewScanner(rc)
		for sc.Scan() {
			key, value, ok := strings.Cut(sc.Text(), ":")
			if ok && strings.EqualFold(strings.TrimSpace(key), "Multi-Release") {
				return strings.EqualFold(strings.TrimSpace(value), "true"), nil
			}
		}
		return false, sc.Err()
	}
	return false, nil
}

// StripModuleInfo copies the jar at src to dest without any module
// descriptors. The manifest and every other entry are copied unchanged.
func StripModuleInfo(src, dest string) (err error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open jar %s: %w", src, err)
	}
	defer zr.Close()

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

	for _, f := range zr.File {
		if isModuleInfo(f.Name) {
			continue
		}
		if err := copyZipEntry(zw, f); err != nil {
			return fmt.Errorf("failed to copy %s: %w", f.Name, err)
		}
	}
	return nil
}

func copyZipEntry(zw *zip.Writer, f *zip.File) error {
	header := &zip.FileHeader{
		Name:     f.Name,
		Method:   f.Method,
		Modified: f.Modified,
		Comment:  f.Comment,
	}
	header.SetMode(f.Mode())
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	if f.FileInfo().IsDir() {
		return nil
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(w, rc)
	return err
}
