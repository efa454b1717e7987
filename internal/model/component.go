// SPDX-License-Identifier: MPL-2.0

package model

import (
	"errors"
	"fmt"
	"strings"
)

// QualifiedNameSeparator separates the component and build parts of a qualified build name.
const QualifiedNameSeparator = "~"

// ErrInvalidQualifiedName is the sentinel error wrapped by InvalidQualifiedNameError.
var ErrInvalidQualifiedName = errors.New("invalid qualified build name")

type (
	// Component is a named buildable unit offering one or more Builds.
	// It is immutable once the index has been assembled.
	Component struct {
		Name string
		// Builds are kept in declaration order; names are unique.
		Builds []*Build
		// DefaultBuild is the build used when only the component name is requested.
		DefaultBuild *Build
		// Clone fetches the component sources. Nil when the component has no repository.
		Clone Action
	}

	// Build is one concrete way to build and install a Component.
	Build struct {
		Component *Component
		Name      string

		Configure Action
		Install   Action

		// InstallAny resolves to whichever build of the component is installed,
		// falling back to this one.
		InstallAny Action

		// Dependencies are needed to configure and to install the build.
		Dependencies []string
		// BuildDependencies are needed only to configure the build.
		BuildDependencies []string
	}

	// InvalidQualifiedNameError is returned when a string is not of the form component~build.
	InvalidQualifiedNameError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidQualifiedNameError) Error() string {
	return fmt.Sprintf("invalid qualified build name %q (expected component%sbuild)", e.Value, QualifiedNameSeparator)
}

// Unwrap returns ErrInvalidQualifiedName so callers can use errors.Is for programmatic detection.
func (e *InvalidQualifiedNameError) Unwrap() error { return ErrInvalidQualifiedName }

// QualifiedName returns component~build.
func (b *Build) QualifiedName() string {
	return QualifyName(b.Component.Name, b.Name)
}

// String implements fmt.Stringer.
func (b *Build) String() string {
	return b.QualifiedName()
}

// IsDefault reports whether b is its component's default build.
func (b *Build) IsDefault() bool {
	return b.Component.DefaultBuild == b
}

// Build returns the named build, or nil when the component has no such build.
func (c *Component) Build(name string) *Build {
	for _, b := range c.Builds {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// BuildNames returns build names in declaration order.
func (c *Component) BuildNames() []string {
	names := make([]string, 0, len(c.Builds))
	for _, b := range c.Builds {
		names = append(names, b.Name)
	}
	return names
}

// QualifyName joins a component and build name.
func QualifyName(component, build string) string {
	return component + QualifiedNameSeparator + build
}

// SplitName splits "component~build" or "component". The build part is empty
// when the separator is absent.
func SplitName(name string) (component, build string) {
	component, build, _ = strings.Cut(name, QualifiedNameSeparator)
	return component, build
}

// ParseQualifiedName parses a strict component~build name. Both parts must be
// non-empty.
func ParseQualifiedName(name string) (component, build string, err error) {
	component, build, found := strings.Cut(name, QualifiedNameSeparator)
	if !found || component == "" || build == "" || strings.Contains(build, QualifiedNameSeparator) {
		return "", "", &InvalidQualifiedNameError{Value: name}
	}
	return component, build, nil
}
