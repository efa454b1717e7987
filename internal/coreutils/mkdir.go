// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// mkdirCommand creates directories.
// Usage: mkdir [-p] [-m MODE] DIR...
type mkdirCommand struct{}

func init() {
	RegisterDefault(mkdirCommand{})
}

// Name returns the command name.
func (mkdirCommand) Name() string { return "mkdir" }

// Run executes mkdir.
func (mkdirCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	fs := newFlagSet("mkdir")
	parents := fs.BoolP("parents", "p", false, "create parent directories as needed")
	mode := fs.StringP("mode", "m", "", "set the mode of created directories")
	fs.BoolP("verbose", "v", false, "ignored")
	dirs, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errMissingOperand
	}

	perm := os.FileMode(0o755)
	if *mode != "" {
		v, err := strconv.ParseUint(*mode, 8, 32)
		if err != nil {
			return fmt.Errorf("invalid mode %q", *mode)
		}
		perm = os.FileMode(v).Perm()
	}

	for _, dir := range dirs {
		path := hc.resolve(dir)
		if *parents {
			err = os.MkdirAll(path, perm)
		} else {
			err = os.Mkdir(path, perm)
		}
		if err != nil {
			return err
		}
		if *mode != "" {
			// The umask applies to Mkdir; an explicit mode does not honor it.
			if err := os.Chmod(path, perm); err != nil {
				return err
			}
		}
	}
	return nil
}
