// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteReadRemove(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	store := NewStore(fsys, "/orc/share/orchestra")

	require.NoError(t, store.Write("zlib", "zlib~default", []string{"include/zlib.h", "lib64/libz.so"}))

	data, err := afero.ReadFile(fsys, "/orc/share/orchestra/zlib.idx")
	require.NoError(t, err)
	assert.Equal(t, "zlib~default\ninclude/zlib.h\nlib64/libz.so\n", string(data))

	m, err := store.Read("zlib")
	require.NoError(t, err)
	assert.Equal(t, "zlib~default", m.QualifiedName)
	assert.Equal(t, []string{"include/zlib.h", "lib64/libz.so"}, m.Paths)

	build, ok, err := store.Installed("zlib")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "default", build)

	require.NoError(t, store.Remove("zlib"))
	_, ok, err = store.Installed("zlib")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_WriteTruncates(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	store := NewStore(fsys, "/idx")

	require.NoError(t, store.Write("llvm", "llvm~debug", []string{"a", "b", "c", "d"}))
	require.NoError(t, store.Write("llvm", "llvm~release", []string{"a"}))

	m, err := store.Read("llvm")
	require.NoError(t, err)
	assert.Equal(t, "llvm~release", m.QualifiedName)
	assert.Equal(t, []string{"a"}, m.Paths)
}

func TestStore_NestedComponentName(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	store := NewStore(fsys, "/idx")

	require.NoError(t, store.Write("toolchain/gcc", "toolchain/gcc~host", nil))
	assert.Equal(t, "/idx/toolchain/gcc.idx", store.Path("toolchain/gcc"))

	exists, err := store.Exists("toolchain/gcc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_MissingManifest(t *testing.T) {
	t.Parallel()
	store := NewStore(afero.NewMemMapFs(), "/idx")

	_, err := store.Read("nope")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "expected fs.ErrNotExist, got %v", err)

	_, ok, err := store.Installed("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "no build part", content: "zlib\nlib/libz.so\n"},
		{name: "other component", content: "bzip2~default\nlib/libbz2.so\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			store := NewStore(fsys, "/idx")
			require.NoError(t, afero.WriteFile(fsys, store.Path("zlib"), []byte(tt.content), 0o644))

			_, _, err := store.Installed("zlib")
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_ToleratesMissingTrailingNewline(t *testing.T) {
	t.Parallel()
	m, err := Parse([]byte("zlib~default\n/include/zlib.h\n\nlib64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/include/zlib.h", "lib64"}, m.Paths)
}
