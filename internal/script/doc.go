// SPDX-License-Identifier: MPL-2.0

// Package script runs build-supplied shell text as an opaque external command.
//
// Two Runner implementations are available:
//   - native: executes scripts with the host shell (bash, falling back to sh)
//   - virtual: executes scripts with the embedded mvdan/sh interpreter
//
// Both render the same program: the ordered Env exported as a prelude, then
// `set -e`, then the script body. Only the exit status and output matter to
// callers; scripts are never parsed for meaning.
package script
