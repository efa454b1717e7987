// SPDX-License-Identifier: MPL-2.0

package postprocess

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"orchestra-cli/internal/elfpatch"
)

// RPathPad fills the tail of a shortened search path. Repeated slashes keep
// the last entry a valid path.
const RPathPad = '/'

// FixRPaths rewrites the dynamic string table of every executable, dynamically
// linked x86-64 ELF64 file below prefix, replacing each needle with
// "$ORIGIN/<path from the file's directory to prefix>". Empty needles are
// ignored. Other files, and objects without a .dynstr section, are left alone.
func FixRPaths(prefix string, needles []string) error {
	return filepath.WalkDir(prefix, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode().Perm()&0o111 == 0 {
			return nil
		}

		elfInfo, err := elfpatch.Inspect(path)
		if errors.Is(err, elfpatch.ErrNotELF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !elfInfo.IsRelocatable() {
			return nil
		}

		rel, err := filepath.Rel(filepath.Dir(path), prefix)
		if err != nil {
			return err
		}
		replacement := "$ORIGIN/" + filepath.ToSlash(rel)
		return patchObject(path, info.Mode().Perm(), needles, replacement)
	})
}

func patchObject(path string, perm os.FileMode, needles []string, replacement string) error {
	if perm&0o200 == 0 {
		if err := os.Chmod(path, perm|0o200); err != nil {
			return fmt.Errorf("failed to make %s writable: %w", path, err)
		}
		defer func() { _ = os.Chmod(path, perm) }()
	}

	for _, needle := range needles {
		if needle == "" {
			continue
		}
		n, err := elfpatch.ReplaceDynstr(path, needle, replacement, RPathPad)
		if errors.Is(err, elfpatch.ErrNoDynstr) {
			slog.Debug("skipping object without dynamic string table", "path", path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to set rpath of %s: %w", path, err)
		}
		if n > 0 {
			slog.Debug("rewrote dynamic strings", "path", path, "needle", needle, "replacement", replacement, "count", n)
		}
	}
	return nil
}
