// Package config loads engine configuration from YAML in a
// fall-back-to-defaults style: a missing file yields the defaults with no
// error, and an unreadable or malformed file yields the defaults together
// with the error; nothing is logged.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds script-resolution, resource-limit and tracing
// settings as plain data. Zero value is a usable (if minimal)
// configuration. Nothing in this module applies an EngineConfig to a
// ScriptEngine: engine.New and cmd/finescript do not read it.
type EngineConfig struct {
	// ScriptRoots lists script directories in search order (the form
	// engine.RootsFinder takes).
	ScriptRoots []string `yaml:"script_roots"`

	// MaxCallDepth is a call-depth limit; 0 stands for the built-in
	// default.
	MaxCallDepth int `yaml:"max_call_depth"`

	// EnableHashBuiltins records whether builtins/hash's digest and
	// base64 functions are wanted.
	EnableHashBuiltins bool `yaml:"enable_hash_builtins"`

	// Trace, if non-empty, is a glob pattern in trace.Tracer's Filter
	// syntax.
	Trace string `yaml:"trace"`

	// TraceMaxDepth caps traced call-stack depth; 0 means unlimited.
	TraceMaxDepth int `yaml:"trace_max_depth"`
}

// Default returns the configuration used when no file is found.
func Default() EngineConfig {
	return EngineConfig{ScriptRoots: []string{"."}}
}

// Load reads path as YAML into an EngineConfig. If path does not exist,
// it returns Default() with no error -- an engine with no config file is
// a normal, supported state, not a failure.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
