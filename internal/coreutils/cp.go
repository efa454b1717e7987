// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// cpCommand copies files and, with -r or -a, directory trees.
// Usage: cp [-rRaf] SOURCE DEST
//
//	cp [-rRaf] SOURCE... DIRECTORY
type cpCommand struct{}

func init() {
	RegisterDefault(cpCommand{})
}

// Name returns the command name.
func (cpCommand) Name() string { return "cp" }

// Run executes cp. Recursive copies reproduce symbolic links instead of
// following them; a plain copy follows a symlinked source.
func (cpCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	flags := newFlagSet("cp")
	recursive := flags.BoolP("recursive", "r", false, "copy directories recursively")
	recursiveAlias := flags.BoolP("Recursive", "R", false, "same as -r")
	archive := flags.BoolP("archive", "a", false, "same as -r, keeping links")
	force := flags.BoolP("force", "f", false, "replace destination files that cannot be opened")
	flags.BoolP("preserve", "p", false, "ignored; modes are always kept")
	flags.BoolP("verbose", "v", false, "ignored")
	operands, err := parse(flags, args)
	if err != nil {
		return err
	}
	if len(operands) < 2 {
		return errMissingOperand
	}
	rec := *recursive || *recursiveAlias || *archive

	sources, dest := operands[:len(operands)-1], hc.resolve(operands[len(operands)-1])
	destIsDir := isDir(dest, true)
	if len(sources) > 1 && !destIsDir {
		return fmt.Errorf("target %s is not a directory", operands[len(operands)-1])
	}

	c := copier{force: *force}
	for _, src := range sources {
		from := hc.resolve(src)
		to := dest
		if destIsDir {
			to = filepath.Join(dest, filepath.Base(from))
		}

		stat := os.Stat
		if rec {
			stat = os.Lstat
		}
		info, err := stat(from)
		if err != nil {
			return err
		}
		if info.IsDir() && !rec {
			return fmt.Errorf("-r not specified; omitting directory %s", src)
		}
		if !info.IsDir() {
			if err := c.entry(from, to, info); err != nil {
				return err
			}
			continue
		}
		if err := c.tree(from, to); err != nil {
			return err
		}
	}
	return nil
}

type copier struct {
	force bool
}

func (c copier) tree(from, to string) error {
	return filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return c.entry(path, filepath.Join(to, rel), info)
	})
}

// entry copies a single directory entry described by info.
func (c copier) entry(from, to string, info fs.FileInfo) error {
	switch {
	case info.IsDir():
		return os.MkdirAll(to, info.Mode().Perm())
	case info.Mode()&fs.ModeSymlink != 0:
		dest, err := os.Readlink(from)
		if err != nil {
			return err
		}
		if err := removeNonDir(to); err != nil {
			return err
		}
		return os.Symlink(dest, to)
	case info.Mode().IsRegular():
		return c.file(from, to, info.Mode().Perm())
	default:
		return fmt.Errorf("cannot copy special file %s", from)
	}
}

func (c copier) file(from, to string, perm fs.FileMode) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil && c.force {
		if rmErr := removeNonDir(to); rmErr == nil {
			out, err = os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		}
	}
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(to, perm)
}
