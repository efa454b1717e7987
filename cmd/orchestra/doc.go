// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the orchestra command line: cobra commands wired to
// the configuration, the component index and the executor through App.
package cmd
