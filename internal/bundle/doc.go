// SPDX-License-Identifier: MPL-2.0

// Package bundle assembles the directory warp-packer turns into a binary and
// compresses the produced binaries for distribution.
package bundle
