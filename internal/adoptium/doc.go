// SPDX-License-Identifier: MPL-2.0

// Package adoptium talks to the Adoptium v3 API: it resolves a requested Java
// version to a concrete release, finds the download link of a runtime archive
// for a target and downloads it.
//
// The package is organized into three concerns:
//   - client.go: HTTP plumbing, response caching and archive downloads
//   - types.go: JSON wire formats
//   - resolve.go: version resolution and download URL lookup
package adoptium
