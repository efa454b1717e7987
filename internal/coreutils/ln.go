// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// lnCommand creates hard or symbolic links.
// Usage: ln [-sfn] TARGET [LINK_NAME]
//
//	ln [-sfn] TARGET... DIRECTORY
type lnCommand struct{}

func init() {
	RegisterDefault(lnCommand{})
}

// Name returns the command name.
func (lnCommand) Name() string { return "ln" }

// Run executes ln. Symbolic link targets are stored exactly as given, so
// relative targets stay relative to the link.
func (lnCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	flags := newFlagSet("ln")
	symbolic := flags.BoolP("symbolic", "s", false, "make symbolic links")
	force := flags.BoolP("force", "f", false, "remove existing destination files")
	noDeref := flags.BoolP("no-dereference", "n", false, "treat a symlink to a directory as a file")
	flags.BoolP("verbose", "v", false, "ignored")
	operands, err := parse(flags, args)
	if err != nil {
		return err
	}

	var targets []string
	var dest string
	switch len(operands) {
	case 0:
		return errMissingOperand
	case 1:
		targets, dest = operands, "."
	default:
		targets, dest = operands[:len(operands)-1], operands[len(operands)-1]
	}

	destPath := hc.resolve(dest)
	destIsDir := isDir(destPath, !*noDeref)
	if len(targets) > 1 && !destIsDir {
		return fmt.Errorf("target %s is not a directory", dest)
	}

	for _, target := range targets {
		link := destPath
		if destIsDir {
			link = filepath.Join(destPath, filepath.Base(target))
		}
		if *force {
			if err := removeNonDir(link); err != nil {
				return err
			}
		}
		if *symbolic {
			err = os.Symlink(target, link)
		} else {
			err = os.Link(hc.resolve(target), link)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// isDir reports whether path is a directory, following a final symlink when
// follow is set.
func isDir(path string, follow bool) bool {
	stat := os.Lstat
	if follow {
		stat = os.Stat
	}
	info, err := stat(path)
	return err == nil && info.IsDir()
}

// removeNonDir removes path unless it is missing. Directories are refused.
func removeNonDir(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("cannot overwrite directory %s", path)
	}
	return os.Remove(path)
}
