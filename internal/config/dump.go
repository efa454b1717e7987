// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatYAML renders the configuration as YAML.
	FormatYAML = "yaml"
	// FormatTOML renders the configuration as TOML.
	FormatTOML = "toml"
)

// Dump writes the effective configuration to w. Defaults, file values and
// environment overrides are all resolved; components keep their order.
func Dump(w io.Writer, cfg *Config, format string) error {
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (valid: %s, %s)", format, FormatYAML, FormatTOML)
	}
}
