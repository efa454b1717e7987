// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orchestra-cli/internal/cueutil"
	"orchestra-cli/internal/issue"

	"cuelang.org/go/cue"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "orchestra"
	// ConfigFileName is the name of the config file inside ConfigDir.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is looked up in the working directory.
	LocalConfigFileName = "orchestra.cue"
	// EnvPrefix prefixes the environment variables overriding settings,
	// e.g. ORCHESTRA_PATHS_ORCHESTRA_ROOT.
	EnvPrefix = "ORCHESTRA"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the per-user configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultRPathPlaceholder is long enough to hold any $ORIGIN-relative path
// to the root of a reasonably nested installation.
var DefaultRPathPlaceholder = "/" + strings.Repeat("_", 15) + "orchestra_rpath_placeholder" + strings.Repeat("_", 86)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Paths: Paths{
			OrchestraRoot: filepath.Join(xdg.DataHome, AppName, "root"),
			TmpRoot:       filepath.Join(xdg.CacheHome, AppName, "tmproot"),
			SourcesDir:    filepath.Join(xdg.DataHome, AppName, "sources"),
			BuildsDir:     filepath.Join(xdg.CacheHome, AppName, "builds"),
		},
		Options: Options{
			RPathPlaceholder: DefaultRPathPlaceholder,
			EnableDebugging:  true,
			Shell:            ShellNative,
			LogLevel:         "info",
		},
	}
}

// settings is the part of the configuration layered through Viper.
type settings struct {
	Paths   Paths   `mapstructure:"paths"`
	Options Options `mapstructure:"options"`
}

// loadWithOptions resolves the config file, then layers defaults, file and
// environment.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}

	var unified cue.Value
	if path != "" {
		unified, err = loadCUEIntoViper(v, path)
		if err != nil {
			return nil, configError(path, err, "Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema")
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg := &Config{Paths: s.Paths, Options: s.Options, Source: path}

	if err := cfg.Options.Shell.Validate(); err != nil {
		return nil, configError(path, err, "Set options.shell (or ORCHESTRA_OPTIONS_SHELL) to native or virtual")
	}

	if path != "" {
		if err := decodeModel(unified, cfg); err != nil {
			return nil, configError(path, cueutil.FormatError(err, path))
		}
		for i := range cfg.Components {
			if err := cfg.Components[i].validate(); err != nil {
				return nil, configError(path, err, "Fix the component definition in the config file")
			}
		}
	}

	return cfg, nil
}

func configError(path string, err error, suggestions ...string) error {
	ctx := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId)
	for _, s := range suggestions {
		ctx.WithSuggestion(s)
	}
	return ctx.Wrap(err).BuildError()
}

// resolvePath returns the file to load, or "" when none exists.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		dir = ConfigDir()
	}
	candidates := []string{filepath.Join(dir, ConfigFileName)}
	if opts.WorkDir != "" {
		candidates = append(candidates, filepath.Join(opts.WorkDir, LocalConfigFileName))
	} else {
		candidates = append(candidates, LocalConfigFileName)
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("paths.orchestra_root", d.Paths.OrchestraRoot)
	v.SetDefault("paths.tmp_root", d.Paths.TmpRoot)
	v.SetDefault("paths.sources_dir", d.Paths.SourcesDir)
	v.SetDefault("paths.builds_dir", d.Paths.BuildsDir)
	v.SetDefault("paths.installed_index_dir", d.Paths.InstalledIndexDir)
	v.SetDefault("options.rpath_placeholder", d.Options.RPathPlaceholder)
	v.SetDefault("options.enable_debugging", d.Options.EnableDebugging)
	v.SetDefault("options.shell", string(d.Options.Shell))
	v.SetDefault("options.log_level", d.Options.LogLevel)
}

// loadCUEIntoViper validates the file against #Config and merges its paths and
// options sections into Viper, keeping defaults for unset keys and letting
// environment variables win.
func loadCUEIntoViper(v *viper.Viper, path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Compile(configSchema, data, "#Config", path)
	if err != nil {
		return cue.Value{}, err
	}

	configMap := make(map[string]any)
	for _, section := range []string{"paths", "options"} {
		value, ok := cueutil.Lookup(unified, section)
		if !ok {
			continue
		}
		var m map[string]any
		if err := value.Decode(&m); err != nil {
			return cue.Value{}, cueutil.FormatError(err, path)
		}
		configMap[section] = m
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return cue.Value{}, fmt.Errorf("failed to merge config: %w", err)
	}
	return unified, nil
}

// decodeModel fills the order-sensitive sections of cfg.
func decodeModel(unified cue.Value, cfg *Config) error {
	if remotes, ok := cueutil.Lookup(unified, "remotes"); ok {
		for name, value := range cueutil.Fields(remotes) {
			url, err := value.String()
			if err != nil {
				return err
			}
			cfg.Remotes = append(cfg.Remotes, Remote{Name: name, BaseURL: url})
		}
	}

	if env, ok := cueutil.Lookup(unified, "environment"); ok {
		if err := env.Decode(&cfg.Environment); err != nil {
			return err
		}
	}

	components, ok := cueutil.Lookup(unified, "components")
	if !ok {
		return nil
	}
	for name, value := range cueutil.Fields(components) {
		comp := ComponentConfig{Name: name}
		for _, field := range []struct {
			path string
			dst  *string
		}{
			{"default_build", &comp.DefaultBuild},
			{"repository", &comp.Repository},
			{"branch", &comp.Branch},
		} {
			if fv, ok := cueutil.Lookup(value, field.path); ok {
				s, err := fv.String()
				if err != nil {
					return err
				}
				*field.dst = s
			}
		}

		builds, _ := cueutil.Lookup(value, "builds")
		for buildName, buildValue := range cueutil.Fields(builds) {
			var b BuildConfig
			if err := buildValue.Decode(&b); err != nil {
				return err
			}
			b.Name = buildName
			comp.Builds = append(comp.Builds, b)
		}
		cfg.Components = append(cfg.Components, comp)
	}
	return nil
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
