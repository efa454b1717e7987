// SPDX-License-Identifier: MPL-2.0

// Package actions implements the four Action kinds of the model: clone,
// configure, install and install-any, plus the manifest-driven uninstall
// procedure shared by install and the uninstall command.
//
// An install run is a filesystem transaction over two roots. The staging root
// (TMP_ROOT) is wiped at the start of every run; the shared orchestra root is
// only ever mutated by Merge and Uninstall. The manifest is written last, so a
// failed run leaves the component in its previous state as far as
// satisfaction is concerned.
package actions
