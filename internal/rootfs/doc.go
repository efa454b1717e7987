// SPDX-License-Identifier: MPL-2.0

// Package rootfs implements the filesystem side of an install transaction:
// staging-root preparation, path snapshots, the hardlink merge into the shared
// orchestra root and manifest-driven removal.
//
// Every operation works on an afero.Fs so tests can substitute an in-memory or
// temporary-directory backed filesystem for the real install prefix.
package rootfs
