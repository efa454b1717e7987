// SPDX-License-Identifier: MPL-2.0

package postprocess

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

type inode struct {
	dev uint64
	ino uint64
}

// HardlinksToSymlinks finds regular files below prefix that share an inode.
// The first one in lexical walk order is kept; every other one is replaced by
// a relative symlink to it. It returns the number of links replaced.
func HardlinksToSymlinks(prefix string) (int, error) {
	first := make(map[inode]string)
	replaced := 0

	err := filepath.WalkDir(prefix, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		var st unix.Stat_t
		if err := unix.Lstat(path, &st); err != nil {
			return &os.PathError{Op: "lstat", Path: path, Err: err}
		}
		if st.Nlink < 2 {
			return nil
		}

		key := inode{dev: uint64(st.Dev), ino: st.Ino} //nolint:unconvert // Dev width varies by platform
		keep, seen := first[key]
		if !seen {
			first[key] = path
			return nil
		}

		target, err := filepath.Rel(filepath.Dir(path), keep)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace hard link %s: %w", path, err)
		}
		if err := os.Symlink(target, path); err != nil {
			return fmt.Errorf("failed to link %s -> %s: %w", path, target, err)
		}
		slog.Debug("replaced hard link with symlink", "path", path, "target", target)
		replaced++
		return nil
	})
	if err != nil {
		return replaced, fmt.Errorf("failed to convert hard links under %s: %w", prefix, err)
	}
	return replaced, nil
}
