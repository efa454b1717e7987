// SPDX-License-Identifier: MPL-2.0

// Package config loads the orchestra configuration.
//
// The file format is CUE, validated against an embedded schema
// (config_schema.cue). Paths and options are layered through Viper: built-in
// defaults derived from the XDG base directories, then the file, then
// ORCHESTRA_<SECTION>_<KEY> environment variables. Remotes, the global
// environment and the component model are decoded straight from CUE so their
// declaration order is preserved.
package config
