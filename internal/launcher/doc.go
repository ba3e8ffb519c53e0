// SPDX-License-Identifier: MPL-2.0

// Package launcher writes the start script warp-packer executes after
// unpacking a bundle: a POSIX shell script for Linux and macOS, a batch file
// for Windows. The jar is copied next to the script.
package launcher
