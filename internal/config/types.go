// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"orchestra-cli/internal/model"
)

const (
	// ShellNative runs scripts with the host bash or sh.
	ShellNative ShellMode = "native"
	// ShellVirtual runs scripts in the embedded mvdan/sh interpreter.
	ShellVirtual ShellMode = "virtual"
)

var (
	// ErrInvalidShellMode is returned when a ShellMode value is not recognized.
	ErrInvalidShellMode = errors.New("invalid shell mode")
	// ErrInvalidComponent is the sentinel error wrapped by InvalidComponentError.
	ErrInvalidComponent = errors.New("invalid component")
)

type (
	// ShellMode selects the script runner.
	ShellMode string

	// InvalidShellModeError is returned when a ShellMode value is not recognized.
	InvalidShellModeError struct {
		Value ShellMode
	}

	// InvalidComponentError reports a component definition the model cannot use.
	InvalidComponentError struct {
		Component string
		Reason    string
	}

	// Paths are the directories orchestra works in. All of them are absolute.
	Paths struct {
		OrchestraRoot string `json:"orchestra_root" mapstructure:"orchestra_root" yaml:"orchestra_root" toml:"orchestra_root"`
		TmpRoot       string `json:"tmp_root" mapstructure:"tmp_root" yaml:"tmp_root" toml:"tmp_root"`
		SourcesDir    string `json:"sources_dir" mapstructure:"sources_dir" yaml:"sources_dir" toml:"sources_dir"`
		BuildsDir     string `json:"builds_dir" mapstructure:"builds_dir" yaml:"builds_dir" toml:"builds_dir"`
		// InstalledIndexDir holds the manifests; empty means <orchestra_root>/share/orchestra.
		InstalledIndexDir string `json:"installed_index_dir,omitempty" mapstructure:"installed_index_dir" yaml:"installed_index_dir,omitempty" toml:"installed_index_dir,omitempty"`
	}

	// Options tune how actions run.
	Options struct {
		// RPathPlaceholder is the run-time search path components link with; it
		// is rewritten to an $ORIGIN-relative path at install time.
		RPathPlaceholder string `json:"rpath_placeholder" mapstructure:"rpath_placeholder" yaml:"rpath_placeholder" toml:"rpath_placeholder"`
		// EnableDebugging selects which NDEBUG branch installed headers keep.
		EnableDebugging bool      `json:"enable_debugging" mapstructure:"enable_debugging" yaml:"enable_debugging" toml:"enable_debugging"`
		Shell           ShellMode `json:"shell" mapstructure:"shell" yaml:"shell" toml:"shell"`
		LogLevel        string    `json:"log_level" mapstructure:"log_level" yaml:"log_level" toml:"log_level"`
	}

	// Variable is one entry of an ordered environment.
	Variable struct {
		Name  string `json:"name" yaml:"name" toml:"name"`
		Value string `json:"value" yaml:"value" toml:"value"`
	}

	// Remote is a named base URL repositories are cloned from.
	Remote struct {
		Name    string `yaml:"name" toml:"name"`
		BaseURL string `yaml:"base_url" toml:"base_url"`
	}

	// BuildConfig is one way of building a component.
	BuildConfig struct {
		Name              string     `yaml:"name" toml:"name"`
		Configure         string     `json:"configure" yaml:"configure,omitempty" toml:"configure,omitempty"`
		Install           string     `json:"install" yaml:"install,omitempty" toml:"install,omitempty"`
		Dependencies      []string   `json:"dependencies" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
		BuildDependencies []string   `json:"build_dependencies" yaml:"build_dependencies,omitempty" toml:"build_dependencies,omitempty"`
		Environment       []Variable `json:"environment" yaml:"environment,omitempty" toml:"environment,omitempty"`
	}

	// ComponentConfig is a component and its builds, in declaration order.
	ComponentConfig struct {
		Name string `yaml:"name" toml:"name"`
		// DefaultBuild names the build used when the component is referenced
		// without "~build"; empty means the first build.
		DefaultBuild string        `json:"default_build" yaml:"default_build,omitempty" toml:"default_build,omitempty"`
		Repository   string        `json:"repository" yaml:"repository,omitempty" toml:"repository,omitempty"`
		Branch       string        `json:"branch" yaml:"branch,omitempty" toml:"branch,omitempty"`
		Builds       []BuildConfig `yaml:"builds" toml:"builds"`
	}

	// Config is the complete configuration.
	Config struct {
		Paths       Paths             `yaml:"paths" toml:"paths"`
		Options     Options           `yaml:"options" toml:"options"`
		Remotes     []Remote          `yaml:"remotes,omitempty" toml:"remotes,omitempty"`
		Environment []Variable        `yaml:"environment,omitempty" toml:"environment,omitempty"`
		Components  []ComponentConfig `yaml:"components,omitempty" toml:"components,omitempty"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `yaml:"-" toml:"-"`
	}
)

// Error implements the error interface.
func (e *InvalidShellModeError) Error() string {
	return fmt.Sprintf("invalid shell mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidShellMode for errors.Is() compatibility.
func (e *InvalidShellModeError) Unwrap() error { return ErrInvalidShellMode }

// String returns the string representation of the ShellMode.
func (m ShellMode) String() string { return string(m) }

// Validate returns an *InvalidShellModeError for unknown modes.
func (m ShellMode) Validate() error {
	switch m {
	case ShellNative, ShellVirtual:
		return nil
	default:
		return &InvalidShellModeError{Value: m}
	}
}

// Error implements the error interface.
func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("invalid component %q: %s", e.Component, e.Reason)
}

// Unwrap returns ErrInvalidComponent for errors.Is() compatibility.
func (e *InvalidComponentError) Unwrap() error { return ErrInvalidComponent }

// InstalledIndexDir returns the directory holding installed-file manifests.
func (c *Config) InstalledIndexDir() string {
	if c.Paths.InstalledIndexDir != "" {
		return c.Paths.InstalledIndexDir
	}
	return filepath.Join(c.Paths.OrchestraRoot, "share", "orchestra")
}

// SourceDir returns where the sources of component are cloned.
func (c *Config) SourceDir(component string) string {
	return filepath.Join(c.Paths.SourcesDir, filepath.FromSlash(component))
}

// BuildDir returns the build tree of one build of component.
func (c *Config) BuildDir(component, build string) string {
	return filepath.Join(c.Paths.BuildsDir, filepath.FromSlash(component), build)
}

// Component returns the component named name.
func (c *Config) Component(name string) (*ComponentConfig, bool) {
	for i := range c.Components {
		if c.Components[i].Name == name {
			return &c.Components[i], true
		}
	}
	return nil, false
}

// ComponentNames returns the component names in declaration order.
func (c *Config) ComponentNames() []string {
	names := make([]string, 0, len(c.Components))
	for _, comp := range c.Components {
		names = append(names, comp.Name)
	}
	return names
}

// CloneURLs returns the URLs to try, in order, when cloning the component.
func (c *Config) CloneURLs(comp *ComponentConfig) []string {
	if comp.Repository == "" {
		return nil
	}
	urls := make([]string, 0, len(c.Remotes))
	for _, r := range c.Remotes {
		urls = append(urls, strings.TrimSuffix(r.BaseURL, "/")+"/"+comp.Repository)
	}
	return urls
}

// DefaultBuildName returns the build used for bare component references.
func (comp *ComponentConfig) DefaultBuildName() string {
	if comp.DefaultBuild != "" {
		return comp.DefaultBuild
	}
	if len(comp.Builds) > 0 {
		return comp.Builds[0].Name
	}
	return ""
}

// validate checks the constraints the schema cannot express.
func (comp *ComponentConfig) validate() error {
	if comp.Name == "" || strings.Contains(comp.Name, model.QualifiedNameSeparator) {
		return &InvalidComponentError{Component: comp.Name, Reason: "component names must be non-empty and must not contain '~'"}
	}
	if len(comp.Builds) == 0 {
		return &InvalidComponentError{Component: comp.Name, Reason: "at least one build is required"}
	}
	found := false
	for _, b := range comp.Builds {
		if b.Name == "" || strings.Contains(b.Name, model.QualifiedNameSeparator) {
			return &InvalidComponentError{Component: comp.Name, Reason: fmt.Sprintf("invalid build name %q", b.Name)}
		}
		if b.Name == comp.DefaultBuildName() {
			found = true
		}
	}
	if !found {
		return &InvalidComponentError{Component: comp.Name, Reason: fmt.Sprintf("default build %q is not defined", comp.DefaultBuild)}
	}
	return nil
}
