// SPDX-License-Identifier: MPL-2.0

// Package postprocess rewrites a freshly staged install so it can be relocated
// into the orchestra root: hard links become symlinks, runtime search paths
// become $ORIGIN-relative, and NDEBUG guards in public headers are pinned.
//
// Every pass only touches files below the staging prefix it is given.
package postprocess
