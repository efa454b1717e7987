// SPDX-License-Identifier: MPL-2.0

package rootfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Snapshot lists every file, directory and symlink below prefix as a
// slash-separated path relative to prefix, in traversal order. prefix itself
// is not listed and symlinks are not followed.
func Snapshot(fsys afero.Fs, prefix string) ([]string, error) {
	var paths []string
	err := afero.Walk(fsys, prefix, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(prefix, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", prefix, err)
	}
	return paths, nil
}

// Difference returns the entries of post missing from pre. Each path appears
// once, in the order of post.
func Difference(post, pre []string) []string {
	seen := make(map[string]bool, len(pre)+len(post))
	for _, p := range pre {
		seen[p] = true
	}
	var out []string
	for _, p := range post {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
