// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/warp4j/warp4j/internal/archive"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

type (
	// Entry describes what the cache already holds for one target.
	Entry struct {
		Target        target.Target
		Downloaded    bool
		Extracted     bool
		ExtractedPath string
	}

	// Resolver inspects the cache tree.
	Resolver struct {
		fs     afero.Fs
		layout Layout
		logger *log.Logger
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*Resolver)
)

// WithFs sets the filesystem the resolver inspects. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) ResolverOption {
	return func(r *Resolver) { r.fs = fs }
}

// WithLogger sets the resolver's logger.
func WithLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver for layout.
func NewResolver(layout Layout, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fs:     afero.NewOsFs(),
		layout: layout,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout returns the layout the resolver inspects.
func (r *Resolver) Layout() Layout { return r.layout }

// Resolve creates the target's cache directory if needed and reports whether
// the compressed distribution and an extracted runtime matching rel exist.
// An error means the directory could not be prepared; callers drop the target.
func (r *Resolver) Resolve(t target.Target, rel version.Release) (Entry, error) {
	dir := r.layout.JDKDir(t)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	entry := Entry{Target: t}
	if ok, err := afero.Exists(r.fs, r.layout.CompressedJDK(t)); err == nil && ok {
		entry.Downloaded = true
	}
	if p, ok := r.Locate(t, rel); ok {
		entry.Extracted = true
		entry.ExtractedPath = p
	}

	r.logger.Debug("cache inspected", "target", t, "downloaded", entry.Downloaded, "extracted", entry.ExtractedPath)
	return entry, nil
}

// Locate returns the extracted runtime directory for t matching rel.
func (r *Resolver) Locate(t target.Target, rel version.Release) (string, bool) {
	return archive.FindExtractedVersionDir(r.fs, r.layout.JDKDir(t), rel.CachePrefix())
}
