// SPDX-License-Identifier: MPL-2.0

// Package packer obtains the warp-packer tool for the host and invokes it to
// turn a bundle directory into a single self-extracting binary.
package packer
