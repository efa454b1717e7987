// SPDX-License-Identifier: MPL-2.0

// Package coreutils provides Go implementations of the POSIX utilities
// install scripts use most (mkdir, ln, rm, touch, cp). The virtual script
// runner executes them in-process through an mvdan/sh exec handler; every
// other command still runs as a host process.
package coreutils
