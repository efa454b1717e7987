// SPDX-License-Identifier: MPL-2.0

package rootfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Skeleton lists the directories every staging prefix starts with. Configure
// and install scripts rely on them existing. "lib" is created as a symlink to
// "lib64" before the entries below it are created.
var Skeleton = []string{
	"include",
	"lib64",
	"bin",
	"libexec",
	"share/info",
	"share/doc",
	"share/man",
	"usr/lib",
	"usr/include",
	"lib/include",
	"lib/pkgconfig",
}

// ErrSymlinkUnsupported is returned when the filesystem cannot create symbolic links.
var ErrSymlinkUnsupported = errors.New("filesystem does not support symbolic links")

// StagingPrefix returns the path the orchestra root maps to inside tmpRoot.
func StagingPrefix(tmpRoot, orchestraRoot string) string {
	return filepath.Join(tmpRoot, orchestraRoot)
}

// PrepareStaging deletes and recreates tmpRoot, then materializes the directory
// skeleton below prefix (which must lie inside tmpRoot). The staging root never
// carries state from one run to the next.
func PrepareStaging(fsys afero.Fs, tmpRoot, prefix string) error {
	if err := fsys.RemoveAll(tmpRoot); err != nil {
		return fmt.Errorf("failed to remove staging root %s: %w", tmpRoot, err)
	}
	if err := fsys.MkdirAll(tmpRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create staging root %s: %w", tmpRoot, err)
	}

	for _, dir := range Skeleton {
		if err := fsys.MkdirAll(filepath.Join(prefix, filepath.FromSlash(dir)), 0o755); err != nil {
			return fmt.Errorf("failed to create %s in staging root: %w", dir, err)
		}
		if dir == "lib64" {
			if err := ensureSymlink(fsys, "lib64", filepath.Join(prefix, "lib")); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureSymlink(fsys afero.Fs, target, name string) error {
	if info, err := lstat(fsys, name); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%s exists and is not a symbolic link", name)
		}
		return nil
	}
	linker, ok := fsys.(afero.Linker)
	if !ok {
		return ErrSymlinkUnsupported
	}
	if err := linker.SymlinkIfPossible(target, name); err != nil {
		return fmt.Errorf("failed to link %s -> %s: %w", name, target, err)
	}
	return nil
}
