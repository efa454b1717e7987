// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles CUE documents against embedded schemas and turns
// CUE errors into messages that point at the offending field.
package cueutil
