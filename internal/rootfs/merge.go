// SPDX-License-Identifier: MPL-2.0

package rootfs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Merge copies the tree below src into dst: directories are recreated,
// symbolic links are reproduced and regular files are hard linked, so disk
// usage stays proportional to unique content. Filesystems that cannot hard
// link fall back to copying file content. Existing non-directory entries in
// dst are replaced.
func Merge(fsys afero.Fs, src, dst string) error {
	if err := fsys.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	linker, canLink := fsys.(HardLinker)
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return mergeSymlink(fsys, path, target)
		case info.IsDir():
			if err := fsys.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			return nil
		case info.Mode().IsRegular():
			if err := clearTarget(fsys, target); err != nil {
				return err
			}
			if canLink {
				if err := linker.LinkIfPossible(path, target); err != nil {
					return fmt.Errorf("failed to link %s: %w", target, err)
				}
				return nil
			}
			return copyFile(fsys, path, target, info.Mode())
		default:
			slog.Debug("skipping special file during merge", "path", path, "mode", info.Mode().String())
			return nil
		}
	})
}

func mergeSymlink(fsys afero.Fs, path, target string) error {
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return ErrSymlinkUnsupported
	}
	dest, err := reader.ReadlinkIfPossible(path)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", path, err)
	}

	if info, err := lstat(fsys, target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if existing, err := reader.ReadlinkIfPossible(target); err == nil && existing == dest {
			return nil
		}
	}
	if err := clearTarget(fsys, target); err != nil {
		return err
	}
	return ensureSymlink(fsys, dest, target)
}

// clearTarget removes an existing non-directory entry at target.
func clearTarget(fsys afero.Fs, target string) error {
	info, err := lstat(fsys, target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot overwrite directory %s with a non-directory", target)
	}
	if err := fsys.Remove(target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

func copyFile(fsys afero.Fs, from, to string, mode os.FileMode) error {
	in, err := fsys.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", from, err)
	}
	return out.Close()
}
