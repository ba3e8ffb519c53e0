// SPDX-License-Identifier: MPL-2.0

package packer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/warp4j/warp4j/internal/archive"
	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
)

var (
	// ErrUnsupportedHost is returned when warp-packer does not run on the host.
	ErrUnsupportedHost = errors.New("host not supported by warp-packer")

	// ErrUnavailable is returned when warp-packer is missing and cannot be downloaded.
	ErrUnavailable = errors.New("warp-packer unavailable")

	// ErrNoPermission is returned when the downloaded tool cannot be made executable.
	ErrNoPermission = errors.New("warp-packer cannot be made executable")
)

type (
	// Source says where the tool for one host comes from. With an empty
	// SHA256 the digest of the first download is recorded and checked on
	// later runs instead.
	Source struct {
		URL    string
		SHA256 string
	}

	// Downloader fetches url into dest atomically.
	Downloader interface {
		Download(ctx context.Context, url, dest string) error
	}

	// Acquirer makes sure the warp-packer binary for the host is present.
	Acquirer struct {
		layout     cache.Layout
		sources    map[target.Target]Source
		downloader Downloader
		chmod      func(name string, mode os.FileMode) error
		logger     *log.Logger
	}

	// AcquirerOption configures an Acquirer.
	AcquirerOption func(*Acquirer)
)

// DefaultSources returns the upstream release binaries. There is no upstream
// build for linux-aarch64; its URL has to be configured. The release publishes
// no checksums, so these sources rely on the recorded digest.
func DefaultSources() map[target.Target]Source {
	const release = "https://github.com/dgiagio/warp/releases/download/v0.3.0/"
	return map[target.Target]Source{
		target.New(target.Linux, target.X64):   {URL: release + "linux-x64.warp-packer"},
		target.New(target.MacOS, target.X64):   {URL: release + "macos-x64.warp-packer"},
		target.New(target.Windows, target.X64): {URL: release + "windows-x64.warp-packer.exe"},
	}
}

// SourceTarget maps a host to the key its tool is published under. macOS
// aarch64 hosts run the x64 binary.
func SourceTarget(host target.Target) target.Target {
	if host.Platform == target.MacOS {
		return target.New(target.MacOS, target.X64)
	}
	return host
}

// WithSources replaces the default per-host sources.
func WithSources(sources map[target.Target]Source) AcquirerOption {
	return func(a *Acquirer) {
		a.sources = sources
	}
}

// WithChmod sets the function used to mark the tool executable, for tests.
func WithChmod(fn func(name string, mode os.FileMode) error) AcquirerOption {
	return func(a *Acquirer) {
		a.chmod = fn
	}
}

// WithAcquirerLogger sets the acquirer's logger.
func WithAcquirerLogger(l *log.Logger) AcquirerOption {
	return func(a *Acquirer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAcquirer creates an acquirer storing the tool in layout.
func NewAcquirer(layout cache.Layout, downloader Downloader, opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		layout:     layout,
		sources:    DefaultSources(),
		downloader: downloader,
		chmod:      os.Chmod,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ensure returns the path of a usable warp-packer for host, downloading it
// when it is missing or its checksum does not match.
func (a *Acquirer) Ensure(ctx context.Context, host target.Target) (string, error) {
	if !target.PackerSupports(host) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedHost, host)
	}

	path := a.layout.PackerPath(host.Platform)
	src := a.sources[SourceTarget(host)]
	want := src.SHA256
	if want == "" {
		want = readDigest(path)
	}

	a.logger.Info("checking whether warp-packer needs to be downloaded")
	if a.upToDate(path, want) {
		a.logger.Info("warp-packer already exists and is up to date", "path", path)
		if want == "" {
			a.recordDigest(path)
		}
		return path, a.makeExecutable(path, host)
	}

	if src.URL == "" && src.SHA256 == "" && a.upToDate(path, "") {
		// A hand-placed tool has nothing to be fetched again from.
		a.logger.Warn("warp-packer changed since its checksum was recorded", "path", path)
		a.recordDigest(path)
		return path, a.makeExecutable(path, host)
	}
	if src.URL == "" {
		return "", fmt.Errorf("%w: no download URL configured for %s", ErrUnavailable, SourceTarget(host))
	}

	a.logger.Info("downloading warp-packer", "url", src.URL)
	if err := a.downloader.Download(ctx, src.URL, path); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if src.SHA256 != "" && !a.upToDate(path, src.SHA256) {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: checksum of %s does not match", ErrUnavailable, src.URL)
	}
	a.recordDigest(path)

	return path, a.makeExecutable(path, host)
}

// DigestPath is where the SHA-256 of the tool at path is recorded.
func DigestPath(path string) string {
	return path + ".sha256"
}

func readDigest(path string) string {
	b, err := os.ReadFile(DigestPath(path))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// recordDigest stores the digest of the tool so a later run notices when the
// file was replaced or truncated.
func (a *Acquirer) recordDigest(path string) {
	sum, err := archive.ComputeHash(path)
	if err == nil {
		err = os.WriteFile(DigestPath(path), []byte(sum+"\n"), 0o644)
	}
	if err != nil {
		a.logger.Debug("warp-packer checksum not recorded", "path", path, "err", err)
	}
}

func (a *Acquirer) upToDate(path, want string) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false
	}
	if want == "" {
		return true
	}
	got, err := archive.ComputeHash(path)
	if err != nil {
		a.logger.Debug("could not hash warp-packer", "err", err)
		return false
	}
	a.logger.Debug("warp-packer checksum", "current", got, "expected", want)
	return got == want
}

func (a *Acquirer) makeExecutable(path string, host target.Target) error {
	if host.Platform == target.Windows {
		return nil
	}
	if err := a.chmod(path, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrNoPermission, err)
	}
	return nil
}
