// SPDX-License-Identifier: MPL-2.0

// Package elfpatch inspects ELF objects and rewrites strings in their dynamic
// string table in place, without changing the size or layout of the file.
package elfpatch

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotELF is returned by Inspect for files that are not ELF objects.
	ErrNotELF = errors.New("not an ELF object")
	// ErrNoDynstr is returned when the object carries no .dynstr section.
	ErrNoDynstr = errors.New("no .dynstr section")
	// ErrReplacementTooLong is the sentinel error wrapped by ReplacementTooLongError.
	ErrReplacementTooLong = errors.New("replacement does not fit in the dynamic string table")
)

type (
	// Info describes the properties of an ELF object relevant for relocation.
	Info struct {
		Class   elf.Class
		Machine elf.Machine
		Type    elf.Type
		// Dynamic is true when the object has a dynamic section, i.e. it is a
		// shared object or a dynamically linked executable.
		Dynamic bool
	}

	// ReplacementTooLongError reports a string that would grow past its slot.
	ReplacementTooLongError struct {
		Path     string
		Original string
		Result   string
	}
)

// Error implements the error interface.
func (e *ReplacementTooLongError) Error() string {
	return fmt.Sprintf("%s: cannot replace %q with %q (%d > %d bytes)",
		e.Path, e.Original, e.Result, len(e.Result), len(e.Original))
}

// Unwrap returns ErrReplacementTooLong so callers can use errors.Is for programmatic detection.
func (e *ReplacementTooLongError) Unwrap() error { return ErrReplacementTooLong }

// IsRelocatable reports whether the object is a dynamically linked x86-64 ELF64.
func (i Info) IsRelocatable() bool {
	return i.Class == elf.ELFCLASS64 && i.Machine == elf.EM_X86_64 && i.Dynamic
}

// Inspect reads the ELF header of path. Files that do not start with the ELF
// magic yield ErrNotELF.
func Inspect(path string) (Info, error) {
	isELF, err := hasMagic(path)
	if err != nil {
		return Info{}, err
	}
	if !isELF {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNotELF)
	}

	f, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Info{}, fmt.Errorf("%s: %w", path, ErrNotELF)
		}
		return Info{}, err
	}
	defer f.Close()

	info := Info{Class: f.Class, Machine: f.Machine, Type: f.Type}
	if f.Section(".dynamic") != nil {
		info.Dynamic = true
	}
	for _, p := range f.Progs {
		if p.Type == elf.PT_DYNAMIC {
			info.Dynamic = true
		}
	}
	return info, nil
}

// ReplaceDynstr replaces every occurrence of search inside the strings of the
// .dynstr section of path. Each rewritten string is padded with pad up to its
// original length, so offsets into the table stay valid. It returns the number
// of strings rewritten. A result longer than the original string is an error
// and leaves the file untouched.
func ReplaceDynstr(path, search, replace string, pad byte) (int, error) {
	if search == "" {
		return 0, nil
	}

	offset, table, err := readDynstr(path)
	if err != nil {
		return 0, err
	}

	patched, count, err := replaceInTable(table, []byte(search), []byte(replace), pad)
	if err != nil {
		var tooLong *ReplacementTooLongError
		if errors.As(err, &tooLong) {
			tooLong.Path = path
		}
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	if _, err := f.WriteAt(patched, offset); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("failed to write .dynstr of %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return count, nil
}

func hasMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, len(elf.ELFMAG))
	if _, err := io.ReadFull(f, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return string(magic) == elf.ELFMAG, nil
}

func readDynstr(path string) (int64, []byte, error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	section := f.Section(".dynstr")
	if section == nil || section.Type == elf.SHT_NOBITS {
		return 0, nil, fmt.Errorf("%s: %w", path, ErrNoDynstr)
	}
	data, err := section.Data()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read .dynstr of %s: %w", path, err)
	}
	return int64(section.Offset), data, nil
}

// replaceInTable works on a copy of a NUL-separated string table.
func replaceInTable(table, search, replace []byte, pad byte) ([]byte, int, error) {
	out := bytes.Clone(table)
	count := 0
	start := 0
	for start < len(out) {
		end := bytes.IndexByte(out[start:], 0)
		if end < 0 {
			end = len(out)
		} else {
			end += start
		}

		original := out[start:end]
		if bytes.Contains(original, search) {
			result := bytes.ReplaceAll(original, search, replace)
			if len(result) > len(original) {
				return nil, 0, &ReplacementTooLongError{Original: string(original), Result: string(result)}
			}
			n := copy(original, result)
			for i := n; i < len(original); i++ {
				original[i] = pad
			}
			count++
		}
		start = end + 1
	}
	return out, count, nil
}
