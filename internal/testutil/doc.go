// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by tests across the module.
//
// The Must* helpers fail the test immediately on error so test bodies stay
// focused on behavior. ELF64 assembles minimal ELF objects for the code paths
// that inspect and patch binaries.
package testutil
