// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"orchestra-cli/internal/manifest"
	"orchestra-cli/internal/rootfs"

	"github.com/spf13/afero"
)

// ErrNotInstalled is the sentinel error wrapped by NotInstalledError.
var ErrNotInstalled = errors.New("component is not installed")

// NotInstalledError reports an uninstall of a component without a manifest.
type NotInstalledError struct {
	Component string
}

// Error implements the error interface.
func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("component %s is not installed", e.Component)
}

// Unwrap returns ErrNotInstalled so callers can use errors.Is for programmatic detection.
func (e *NotInstalledError) Unwrap() error { return ErrNotInstalled }

// Uninstall removes everything the manifest of component lists from root,
// then deletes the manifest itself. Directories still holding content owned
// by other components are kept.
func Uninstall(fsys afero.Fs, store *manifest.Store, root, component string) error {
	m, err := store.Read(component)
	if errors.Is(err, fs.ErrNotExist) {
		return &NotInstalledError{Component: component}
	}
	if err != nil {
		return err
	}

	slog.Info("uninstalling", "build", m.QualifiedName, "paths", len(m.Paths))
	if err := rootfs.RemoveListed(fsys, root, m.Paths); err != nil {
		return fmt.Errorf("failed to uninstall %s: %w", m.QualifiedName, err)
	}
	return store.Remove(component)
}
