// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/warp4j/warp4j/internal/platform"
)

// restoreModes controls whether POSIX permissions from archive headers are
// applied. Windows has no meaningful mode bits.
var restoreModes = runtime.GOOS != platform.Windows

// destRoot confines every extraction write to one directory. Writes go
// through an os.Root, so symlinks created by earlier entries cannot redirect
// later entries outside dir.
type destRoot struct {
	root *os.Root
	// dir is the absolute destination with symlinks resolved.
	dir string
}

// openDest creates dest and opens it as a root.
func openDest(dest string) (*destRoot, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	dir, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	return &destRoot{root: root, dir: dir}, nil
}

func (d *destRoot) Close() error { return d.root.Close() }

// rel resolves an entry name to a path relative to the destination and
// rejects names that climb out of it.
func (d *destRoot) rel(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimLeft(name, `/\`)))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", &PathTraversalError{Entry: name, Dest: d.dir}
	}
	return cleaned, nil
}

func (d *destRoot) mkdirAll(rel string) error {
	if rel == "." {
		return nil
	}
	return d.root.MkdirAll(rel, 0o755)
}

// writeFile copies at most maxEntryBytes from r into a new file at rel.
func (d *destRoot) writeFile(rel string, r io.Reader, mode os.FileMode) (err error) {
	if err := d.mkdirAll(filepath.Dir(rel)); err != nil {
		return err
	}
	out, err := d.root.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	n, err := io.Copy(out, io.LimitReader(r, maxEntryBytes+1))
	if err != nil {
		return err
	}
	if n > maxEntryBytes {
		return ErrEntryTooLarge
	}
	if restoreModes {
		// OpenFile honours the umask; apply the archived bits explicitly.
		return d.root.Chmod(rel, mode)
	}
	return nil
}

// symlink creates rel pointing at target. The target is resolved from the
// real location of rel's parent, after any symlinks extracted earlier, and
// must stay inside the destination.
func (d *destRoot) symlink(entry, rel, target string) error {
	parent := filepath.Dir(rel)
	if _, err := d.root.Stat(parent); err != nil {
		if err := d.mkdirAll(parent); err != nil {
			return err
		}
	}
	realParent, err := filepath.EvalSymlinks(filepath.Join(d.dir, parent))
	if err != nil {
		return err
	}
	resolved := filepath.FromSlash(target)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(realParent, resolved)
	}
	if !within(d.dir, resolved) || !within(d.dir, realParent) {
		return &PathTraversalError{Entry: entry, Dest: d.dir}
	}
	_ = d.root.Remove(rel)
	return d.root.Symlink(target, rel)
}

// within reports whether p is dir or below it.
func within(dir, p string) bool {
	r, err := filepath.Rel(dir, p)
	return err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) && !filepath.IsAbs(r)
}

// fileMode picks the permission bits for an extracted regular file.
func fileMode(m os.FileMode) os.FileMode {
	if !restoreModes || m.Perm() == 0 {
		return 0o644
	}
	return m.Perm()
}
