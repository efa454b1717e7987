// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors with remediation steps and a
// catalog of markdown help entries the CLI renders with glamour.
package issue
