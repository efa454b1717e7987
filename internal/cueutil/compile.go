// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"iter"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Compile validates data against the definition at schemaPath in schema and
// returns the unified value. Non-concrete values are accepted, so optional
// fields may stay unset.
func Compile(schema string, data []byte, schemaPath, filename string) (cue.Value, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

// Fields yields the regular fields of a struct value in declaration order.
// A value that is not a struct yields nothing.
func Fields(v cue.Value) iter.Seq2[string, cue.Value] {
	return func(yield func(string, cue.Value) bool) {
		it, err := v.Fields()
		if err != nil {
			return
		}
		for it.Next() {
			if !yield(it.Selector().Unquoted(), it.Value()) {
				return
			}
		}
	}
}

// Lookup returns the value at path and whether it is present.
func Lookup(v cue.Value, path string) (cue.Value, bool) {
	field := v.LookupPath(cue.ParsePath(path))
	return field, field.Exists()
}
