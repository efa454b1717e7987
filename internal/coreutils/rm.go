// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// rmCommand removes files and, with -r, directory trees.
// Usage: rm [-rRf] PATH...
type rmCommand struct{}

func init() {
	RegisterDefault(rmCommand{})
}

// Name returns the command name.
func (rmCommand) Name() string { return "rm" }

// Run executes rm.
func (rmCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	flags := newFlagSet("rm")
	recursive := flags.BoolP("recursive", "r", false, "remove directories and their contents")
	recursiveAlias := flags.BoolP("Recursive", "R", false, "same as -r")
	force := flags.BoolP("force", "f", false, "ignore missing paths")
	flags.BoolP("verbose", "v", false, "ignored")
	paths, err := parse(flags, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 && !*force {
		return errMissingOperand
	}

	for _, p := range paths {
		path := hc.resolve(p)
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) && *force {
			continue
		}
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !*recursive && !*recursiveAlias {
				return fmt.Errorf("cannot remove %s: is a directory", p)
			}
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
