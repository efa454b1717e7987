// SPDX-License-Identifier: MPL-2.0

package rootfs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// RemoveListed deletes the root-relative paths from root. Paths are visited in
// reverse lexicographic order so entries below a directory are handled before
// the directory itself. Files and symlinks are always removed; directories are
// removed only once empty, since another component may still own content below
// them. Paths that no longer exist are skipped.
func RemoveListed(fsys afero.Fs, root string, paths []string) error {
	ordered := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimLeft(p, "/")
		if p == "" {
			continue
		}
		ordered = append(ordered, p)
	}
	slices.Sort(ordered)
	slices.Reverse(ordered)

	for _, rel := range ordered {
		full := filepath.Join(root, filepath.FromSlash(rel))
		info, err := lstat(fsys, full)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", full, err)
		}

		if !info.IsDir() {
			if err := fsys.Remove(full); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove %s: %w", full, err)
			}
			continue
		}

		empty, err := afero.IsEmpty(fsys, full)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", full, err)
		}
		if !empty {
			slog.Debug("keeping non-empty directory", "path", full)
			continue
		}
		if err := fsys.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove directory %s: %w", full, err)
		}
	}
	return nil
}
