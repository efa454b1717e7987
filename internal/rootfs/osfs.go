// SPDX-License-Identifier: MPL-2.0

package rootfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// ErrNotHostFs is returned by RequireHost for filesystems that do not map
// paths one to one onto the host.
var ErrNotHostFs = errors.New("filesystem is not backed by host paths")

type (
	// HardLinker is implemented by filesystems able to create hard links.
	HardLinker interface {
		LinkIfPossible(oldname, newname string) error
	}

	// OsFs is the host filesystem with hard link support.
	OsFs struct {
		afero.OsFs
	}
)

// NewOsFs returns the host filesystem.
func NewOsFs() *OsFs {
	return &OsFs{}
}

// LinkIfPossible creates newname as a hard link to oldname.
func (OsFs) LinkIfPossible(oldname, newname string) error {
	return os.Link(oldname, newname)
}

// RequireHost fails unless fsys resolves paths directly on the host, which
// passes working through os and debug/elf rely on.
func RequireHost(fsys afero.Fs) error {
	switch fsys.(type) {
	case *OsFs, OsFs, *afero.OsFs, afero.OsFs:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrNotHostFs, fsys)
	}
}

// lstat stats name without following a final symlink when fsys supports it.
func lstat(fsys afero.Fs, name string) (os.FileInfo, error) {
	if l, ok := fsys.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return fsys.Stat(name)
}
