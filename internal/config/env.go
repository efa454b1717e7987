// SPDX-License-Identifier: MPL-2.0

package config

import "orchestra-cli/internal/script"

// GlobalEnv returns the environment every script runs with: the orchestra
// paths, the rpath placeholder, PATH extended with the root's bin directory,
// then the user-defined variables in declaration order.
func (c *Config) GlobalEnv() *script.Env {
	env := script.NewEnv()
	env.Set("ORCHESTRA_ROOT", c.Paths.OrchestraRoot)
	env.Set("TMP_ROOT", c.Paths.TmpRoot)
	env.Set("SOURCES_DIR", c.Paths.SourcesDir)
	env.Set("BUILDS_DIR", c.Paths.BuildsDir)
	env.Set("RPATH_PLACEHOLDER", c.Options.RPathPlaceholder)
	env.Set("PATH", "$ORCHESTRA_ROOT/bin:$PATH")
	for _, v := range c.Environment {
		env.Set(v.Name, v.Value)
	}
	return env
}
