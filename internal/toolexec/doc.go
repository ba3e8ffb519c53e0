// SPDX-License-Identifier: MPL-2.0

// Package toolexec runs external JDK and packaging tools (jdeps, jlink,
// warp-packer) behind a narrow interface so callers can be tested without
// spawning processes.
package toolexec
