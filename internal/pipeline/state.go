// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"github.com/warp4j/warp4j/internal/cache"
	"github.com/warp4j/warp4j/internal/target"
)

// BuildState is the progress of one target through a run. It is a value:
// the With helpers return modified copies and never change the receiver.
type BuildState struct {
	Target target.Target

	// IsTarget is false for the host runtime that only serves the optimizer.
	IsTarget   bool
	Downloaded bool
	Extracted  bool
	Optimized  bool
	// CleanedUp holds when neither the compressed runtime nor an extracted
	// tree existed for the target.
	CleanedUp bool
	Success   bool

	ExtractedPath string
	BundlePath    string
	ScriptPath    string
	BinaryPath    string
	ArchivePath   string
}

// NewState turns a cache entry into the initial state of a target.
func NewState(e cache.Entry) BuildState {
	return BuildState{
		Target:        e.Target,
		IsTarget:      true,
		Downloaded:    e.Downloaded,
		Extracted:     e.Extracted,
		CleanedUp:     !e.Downloaded && !e.Extracted,
		ExtractedPath: e.ExtractedPath,
	}
}

// DownloadNeeded reports whether nothing usable for the target is cached.
func (s BuildState) DownloadNeeded() bool {
	return s.ExtractedPath == "" && !s.Downloaded && !s.Extracted
}

func (s BuildState) WithDownloaded() BuildState {
	s.Downloaded = true
	s.CleanedUp = false
	return s
}

func (s BuildState) WithExtracted(path string) BuildState {
	s.Extracted = true
	s.CleanedUp = false
	s.ExtractedPath = path
	return s
}

// WithOptimized records a linked runtime in bundle.
func (s BuildState) WithOptimized(bundle string) BuildState {
	s.Optimized = true
	s.BundlePath = bundle
	return s
}

func (s BuildState) WithBundle(path string) BuildState {
	s.BundlePath = path
	return s
}

func (s BuildState) WithScript(path string) BuildState {
	s.ScriptPath = path
	return s
}

// WithBinary records the packed binary and marks the target successful.
func (s BuildState) WithBinary(path string) BuildState {
	s.Success = true
	s.BinaryPath = path
	return s
}

func (s BuildState) WithArchive(path string) BuildState {
	s.ArchivePath = path
	return s
}

// AsHostOnly marks the state as the optimizer's host runtime.
func (s BuildState) AsHostOnly() BuildState {
	s.IsTarget = false
	return s
}
