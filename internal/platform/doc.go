// SPDX-License-Identifier: MPL-2.0

// Package platform answers questions about the machine warp4j runs on: its
// operating system and CPU, its home directory, environment lookups and the
// per-OS application data directory that holds the warp4j cache.
package platform
