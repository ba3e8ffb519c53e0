// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/warp4j/warp4j/internal/bundle"
	"github.com/warp4j/warp4j/internal/platform"
	"github.com/warp4j/warp4j/internal/target"
)

const (
	// DefaultJavaDir is the runtime directory name inside a bundle.
	DefaultJavaDir = "java"

	posixScriptMode os.FileMode = 0o751
	batchScriptMode os.FileMode = 0o644
)

// ErrReservedName is returned when the jar base name cannot name a Windows file.
var ErrReservedName = fmt.Errorf("%w: reserved Windows file name", ErrUnsafeValue)

type (
	// Writer places the application jar and a launcher script into bundles.
	Writer struct {
		jvmOptions string
		silent     bool
		javaDir    string
		logger     *log.Logger
	}

	// Option configures a Writer.
	Option func(*Writer)
)

// WithJVMOptions sets the options passed to java before -jar.
func WithJVMOptions(opts string) Option {
	return func(w *Writer) { w.jvmOptions = strings.TrimSpace(opts) }
}

// WithSilent makes Windows launchers start javaw without a console.
func WithSilent(silent bool) Option {
	return func(w *Writer) { w.silent = silent }
}

// WithJavaDir overrides the runtime directory name the launcher points at.
func WithJavaDir(dir string) Option {
	return func(w *Writer) {
		if dir != "" {
			w.javaDir = dir
		}
	}
}

// WithLogger sets the writer's logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWriter creates a launcher writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		javaDir: DefaultJavaDir,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write copies jar into bundleDir and writes <jar base>.bat for Windows
// targets or <jar base>.sh otherwise. It returns the script path.
func (w *Writer) Write(t target.Target, bundleDir, jar string) (string, error) {
	jarName := filepath.Base(jar)
	base := strings.TrimSuffix(jarName, filepath.Ext(jarName))
	params := Params{JavaDir: w.javaDir, Jar: jarName, JVMOptions: w.jvmOptions}

	var (
		script, name string
		mode         os.FileMode
		err          error
	)
	if t.Platform == target.Windows {
		if platform.IsWindowsReservedName(base) {
			return "", fmt.Errorf("%w: %q", ErrReservedName, base)
		}
		script, err = RenderWindows(params, w.silent)
		name, mode = base+".bat", batchScriptMode
	} else {
		script, err = RenderPOSIX(params)
		name, mode = base+".sh", posixScriptMode
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return "", fmt.Errorf("creating bundle directory: %w", err)
	}
	if err := bundle.CopyFile(jar, filepath.Join(bundleDir, jarName)); err != nil {
		return "", fmt.Errorf("copying %s into bundle: %w", jarName, err)
	}

	path := filepath.Join(bundleDir, name)
	if err := os.WriteFile(path, []byte(script), mode); err != nil {
		return "", fmt.Errorf("writing launcher: %w", err)
	}
	// WriteFile honours the umask and leaves existing files untouched.
	if err := os.Chmod(path, mode); err != nil {
		return "", fmt.Errorf("setting launcher permissions: %w", err)
	}
	w.logger.Debug("launcher written", "target", t, "path", path)
	return path, nil
}
