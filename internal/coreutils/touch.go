// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"
)

// touchCommand creates files or updates their timestamps.
// Usage: touch [-c] FILE...
type touchCommand struct{}

func init() {
	RegisterDefault(touchCommand{})
}

// Name returns the command name.
func (touchCommand) Name() string { return "touch" }

// Run executes touch.
func (touchCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	flags := newFlagSet("touch")
	noCreate := flags.BoolP("no-create", "c", false, "do not create missing files")
	files, err := parse(flags, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errMissingOperand
	}

	now := time.Now()
	for _, f := range files {
		path := hc.resolve(f)
		err := os.Chtimes(path, now, now)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if *noCreate {
			continue
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
