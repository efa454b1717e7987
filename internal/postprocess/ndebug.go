// SPDX-License-Identifier: MPL-2.0

package postprocess

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
)

var (
	ifndefNDEBUG       = regexp.MustCompile(`^\s*#\s*ifndef\s+NDEBUG\b`)
	ifdefNDEBUG        = regexp.MustCompile(`^\s*#\s*ifdef\s+NDEBUG\b`)
	ifNotDefinedNDEBUG = regexp.MustCompile(`^(\s*#\s*if\s+.*)!defined\(NDEBUG\)`)
	ifDefinedNDEBUG    = regexp.MustCompile(`^(\s*#\s*if\s+.*)defined\(NDEBUG\)`)
)

// PatchNDEBUG pins the NDEBUG guards of every header below prefix/include so
// that consumers see the configuration the component was built with, no
// matter how they define NDEBUG themselves. When enableDebugging is true,
// "NDEBUG undefined" branches become active; otherwise the opposite. Files
// without guards are not rewritten.
func PatchNDEBUG(fsys afero.Fs, prefix string, enableDebugging bool) error {
	root := filepath.Join(prefix, "include")
	exists, err := afero.DirExists(fsys, root)
	if err != nil || !exists {
		return err
	}

	debug, ndebug := "1", "0"
	if !enableDebugging {
		debug, ndebug = ndebug, debug
	}

	return afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || filepath.Ext(path) != ".h" {
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		patched, changed := patchGuards(data, debug, ndebug)
		if !changed {
			return nil
		}
		return replaceFile(fsys, path, patched, info.Mode().Perm())
	})
}

// patchGuards rewrites each line in place, keeping line terminators.
func patchGuards(data []byte, debug, ndebug string) ([]byte, bool) {
	lines := bytes.SplitAfter(data, []byte("\n"))
	changed := false
	for i, line := range lines {
		body, eol := line, []byte(nil)
		if bytes.HasSuffix(body, []byte("\n")) {
			body, eol = body[:len(body)-1], body[len(body)-1:]
		}

		out := ifndefNDEBUG.ReplaceAllLiteral(body, []byte("#if "+debug))
		out = ifdefNDEBUG.ReplaceAllLiteral(out, []byte("#if "+ndebug))
		out = ifNotDefinedNDEBUG.ReplaceAll(out, []byte("${1}"+debug))
		out = ifDefinedNDEBUG.ReplaceAll(out, []byte("${1}"+ndebug))

		if !bytes.Equal(out, body) {
			lines[i] = append(out, eol...)
			changed = true
		}
	}
	return bytes.Join(lines, nil), changed
}

// replaceFile writes a new file and renames it over path, so hard links to the
// old content elsewhere stay untouched.
func replaceFile(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), ".ndebug-*")
	if err != nil {
		return fmt.Errorf("failed to patch %s: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(name)
		return fmt.Errorf("failed to patch %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(name)
		return err
	}
	if err := fsys.Chmod(name, perm); err != nil {
		_ = fsys.Remove(name)
		return err
	}
	if err := fsys.Rename(name, path); err != nil {
		_ = fsys.Remove(name)
		return fmt.Errorf("failed to patch %s: %w", path, err)
	}
	return nil
}
