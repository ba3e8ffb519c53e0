// SPDX-License-Identifier: MPL-2.0

// Package target models the operating-system/CPU-architecture pairs warp4j
// can build launchers for.
//
// Two independent support matrices decide whether a pair is usable: the
// runtime distributor must publish a JDK for it and warp-packer must be able
// to produce a binary for it. Only pairs accepted by both are buildable.
package target
