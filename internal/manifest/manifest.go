// SPDX-License-Identifier: MPL-2.0

// Package manifest persists the record of what each installed build placed in
// the orchestra root.
//
// There is one manifest per component. Line 1 holds the qualified name of the
// installed build (component~build); every following line is a root-relative
// path. A manifest exists if and only if the component is installed, and it is
// the sole source of truth for uninstalling it.
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"orchestra-cli/internal/model"

	"github.com/spf13/afero"
)

// Extension is appended to the component name to form the manifest file name.
const Extension = ".idx"

// ErrMalformed is the sentinel error wrapped by MalformedError.
var ErrMalformed = errors.New("malformed manifest")

type (
	// Manifest is the decoded content of a manifest file.
	Manifest struct {
		// QualifiedName identifies the installed build.
		QualifiedName string
		// Paths are root-relative, in the order they were recorded.
		Paths []string
	}

	// Store reads and writes manifests below a directory.
	Store struct {
		fs  afero.Fs
		dir string
	}

	// MalformedError reports a manifest whose header cannot be trusted.
	MalformedError struct {
		Path   string
		Reason string
	}
)

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed manifest %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrMalformed so callers can use errors.Is for programmatic detection.
func (e *MalformedError) Unwrap() error { return ErrMalformed }

// NewStore creates a Store rooted at dir on fsys.
func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Path returns the manifest path for component.
func (s *Store) Path(component string) string {
	return filepath.Join(s.dir, filepath.FromSlash(component)+Extension)
}

// Exists reports whether component has a manifest.
func (s *Store) Exists(component string) (bool, error) {
	ok, err := afero.Exists(s.fs, s.Path(component))
	if err != nil {
		return false, fmt.Errorf("failed to stat manifest for %s: %w", component, err)
	}
	return ok, nil
}

// Installed returns the build name recorded for component. ok is false when the
// component is not installed.
func (s *Store) Installed(component string) (build string, ok bool, err error) {
	m, err := s.Read(component)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	_, build, _ = model.ParseQualifiedName(m.QualifiedName)
	return build, true, nil
}

// Read decodes the manifest of component. A missing manifest yields an error
// matching fs.ErrNotExist.
func (s *Store) Read(component string) (*Manifest, error) {
	path := s.Path(component)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest for %s: %w", component, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: err.Error()}
	}
	if c, _, _ := model.ParseQualifiedName(m.QualifiedName); c != component {
		return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("records %s, expected a build of %s", m.QualifiedName, component)}
	}
	return m, nil
}

// Write replaces the manifest of component.
func (s *Store) Write(component, qualifiedName string, paths []string) error {
	path := s.Path(component)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, Encode(qualifiedName, paths), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest for %s: %w", component, err)
	}
	return nil
}

// Remove deletes the manifest of component, flipping it to "not installed".
func (s *Store) Remove(component string) error {
	if err := s.fs.Remove(s.Path(component)); err != nil {
		return fmt.Errorf("failed to remove manifest for %s: %w", component, err)
	}
	return nil
}

// Encode renders a manifest: the qualified name, then one path per line, each newline-terminated.
func Encode(qualifiedName string, paths []string) []byte {
	var buf bytes.Buffer
	buf.WriteString(qualifiedName)
	buf.WriteByte('\n')
	for _, p := range paths {
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Parse decodes manifest content. Blank path lines are skipped.
func Parse(data []byte) (*Manifest, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty file")
	}
	header := strings.TrimSpace(scanner.Text())
	if _, _, err := model.ParseQualifiedName(header); err != nil {
		return nil, err
	}

	m := &Manifest{QualifiedName: header}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		m.Paths = append(m.Paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
