// SPDX-License-Identifier: MPL-2.0

package rootfs

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPrepareStaging(t *testing.T) {
	t.Parallel()
	fsys := NewOsFs()
	tmpRoot := filepath.Join(t.TempDir(), "tmproot")
	prefix := StagingPrefix(tmpRoot, "/opt/orchestra")

	writeFile(t, filepath.Join(tmpRoot, "stale.txt"), "left over")
	require.NoError(t, PrepareStaging(fsys, tmpRoot, prefix))

	_, err := os.Stat(filepath.Join(tmpRoot, "stale.txt"))
	assert.True(t, os.IsNotExist(err), "staging root should be recreated")

	for _, dir := range Skeleton {
		info, err := os.Stat(filepath.Join(prefix, filepath.FromSlash(dir)))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	target, err := os.Readlink(filepath.Join(prefix, "lib"))
	require.NoError(t, err)
	assert.Equal(t, "lib64", target)

	// lib/pkgconfig lands inside lib64 through the symlink.
	_, err = os.Stat(filepath.Join(prefix, "lib64", "pkgconfig"))
	require.NoError(t, err)
}

func TestSnapshotAndDifference(t *testing.T) {
	t.Parallel()
	fsys := NewOsFs()
	prefix := t.TempDir()

	writeFile(t, filepath.Join(prefix, "include", "a.h"), "a")
	pre, err := Snapshot(fsys, prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"include", "include/a.h"}, pre)

	writeFile(t, filepath.Join(prefix, "include", "b.h"), "b")
	writeFile(t, filepath.Join(prefix, "bin", "tool"), "#!/bin/sh")
	require.NoError(t, os.Symlink("tool", filepath.Join(prefix, "bin", "tool-alias")))

	post, err := Snapshot(fsys, prefix)
	require.NoError(t, err)

	assert.Equal(t, []string{"bin", "bin/tool", "bin/tool-alias", "include/b.h"}, Difference(post, pre))
}

func TestDifference_Deduplicates(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"b", "c"}, Difference([]string{"a", "b", "b", "c"}, []string{"a"}))
	assert.Empty(t, Difference([]string{"a"}, []string{"a", "z"}))
}

func TestMerge(t *testing.T) {
	t.Parallel()
	fsys := NewOsFs()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")

	writeFile(t, filepath.Join(src, "lib64", "libz.so.1"), "zlib")
	writeFile(t, filepath.Join(src, "include", "zlib.h"), "header v2")
	require.NoError(t, os.Symlink("libz.so.1", filepath.Join(src, "lib64", "libz.so")))

	writeFile(t, filepath.Join(dst, "include", "zlib.h"), "header v1")
	writeFile(t, filepath.Join(dst, "share", "untouched"), "keep")

	require.NoError(t, Merge(fsys, src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "include", "zlib.h"))
	require.NoError(t, err)
	assert.Equal(t, "header v2", string(data))

	target, err := os.Readlink(filepath.Join(dst, "lib64", "libz.so"))
	require.NoError(t, err)
	assert.Equal(t, "libz.so.1", target)

	srcInfo, err := os.Stat(filepath.Join(src, "lib64", "libz.so.1"))
	require.NoError(t, err)
	dstInfo, err := os.Stat(filepath.Join(dst, "lib64", "libz.so.1"))
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo), "regular files should be hard linked")

	_, err = os.Stat(filepath.Join(dst, "share", "untouched"))
	require.NoError(t, err)

	// A second merge over the same tree is a no-op.
	require.NoError(t, Merge(fsys, src, dst))
}

func TestMerge_CopiesWithoutHardLinks(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/bin/tool", []byte("binary"), 0o755))

	require.NoError(t, Merge(fsys, "/src", "/dst"))

	data, err := afero.ReadFile(fsys, "/dst/bin/tool")
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
}

func TestMerge_RefusesToReplaceDirectory(t *testing.T) {
	t.Parallel()
	fsys := NewOsFs()
	base := t.TempDir()

	writeFile(t, filepath.Join(base, "src", "share", "doc"), "a file")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "dst", "share", "doc"), 0o755))

	assert.Error(t, Merge(fsys, filepath.Join(base, "src"), filepath.Join(base, "dst")))
}

func TestRemoveListed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   []string
		remove  []string
		remains []string
	}{
		{
			name:    "nested file and parents",
			files:   []string{"/root/a/b/c.txt"},
			remove:  []string{"a", "a/b", "a/b/c.txt"},
			remains: nil,
		},
		{
			name:    "sibling keeps directories",
			files:   []string{"/root/a/b/c.txt", "/root/a/b/d.txt"},
			remove:  []string{"a", "a/b", "a/b/c.txt"},
			remains: []string{"/root/a/b/d.txt"},
		},
		{
			name:    "leading slash and missing paths",
			files:   []string{"/root/bin/tool"},
			remove:  []string{"/bin/tool", "bin/gone", "", "/bin"},
			remains: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			for _, f := range tt.files {
				require.NoError(t, afero.WriteFile(fsys, f, []byte(f), 0o644))
			}

			require.NoError(t, RemoveListed(fsys, "/root", tt.remove))

			var remaining []string
			require.NoError(t, afero.Walk(fsys, "/root", func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() {
					remaining = append(remaining, path)
				}
				return nil
			}))
			slices.Sort(remaining)
			assert.Equal(t, tt.remains, remaining)

			for _, dir := range []string{"/root/a", "/root/bin"} {
				if len(tt.remains) == 0 {
					exists, err := afero.DirExists(fsys, dir)
					require.NoError(t, err)
					assert.False(t, exists, "%s should be gone", dir)
				}
			}
		})
	}
}

func TestRemoveListed_Symlink(t *testing.T) {
	t.Parallel()
	fsys := NewOsFs()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "lib64", "libz.so.1"), "zlib")
	require.NoError(t, os.Symlink("lib64", filepath.Join(root, "lib")))

	require.NoError(t, RemoveListed(fsys, root, []string{"lib", "lib64", "lib64/libz.so.1"}))

	_, err := os.Lstat(filepath.Join(root, "lib"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(filepath.Join(root, "lib64"))
	assert.True(t, os.IsNotExist(err))
}

func TestRequireHost(t *testing.T) {
	t.Parallel()
	require.NoError(t, RequireHost(NewOsFs()))
	require.NoError(t, RequireHost(afero.NewOsFs()))
	assert.ErrorIs(t, RequireHost(afero.NewMemMapFs()), ErrNotHostFs)
	assert.ErrorIs(t, RequireHost(afero.NewBasePathFs(NewOsFs(), t.TempDir())), ErrNotHostFs)
}
