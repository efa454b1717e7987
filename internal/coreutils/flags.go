// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

var errMissingOperand = errors.New("missing operand")

// newFlagSet returns a FlagSet for POSIX short options: grouped flags such as
// "-rf" are split and "--" ends option parsing.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parse parses the options of args (args[0] is the command name) and returns
// the operands.
func parse(fs *pflag.FlagSet, args []string) ([]string, error) {
	if len(args) > 0 {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("unsupported option: %w", err)
	}
	return fs.Args(), nil
}
