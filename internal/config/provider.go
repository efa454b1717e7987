// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific file when set.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir() in the lookup when set.
		ConfigDirPath string
		// WorkDir is where LocalConfigFileName is looked up; empty means the
		// process working directory.
		WorkDir string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider reading CUE files.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source. When no file is found
// the defaults are returned with an empty component list.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}
