// Package config loads tuning knobs for an inference pass run from a
// YAML file: the stub-strip loop bound, whether diagnostics add
// substitution ids to type variable names, and the default integer/real
// literal widths rules.go falls back to when a literal carries no
// hint.
//
// Grounded on internal/manifest's Load/Validate idiom in the teacher
// (read file, unmarshal, apply defaults, validate), adapted from JSON
// to YAML since this core has no JSON wire format of its own to share
// a marshaler with.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pass holds the knobs an inference pass run is configured with.
type Pass struct {
	// MaxStripIterations bounds the stub-unwrapping loop in
	// typeterm.StripAllStubLayers; zero means "use the package default".
	MaxStripIterations int `yaml:"max_strip_iterations"`

	// DefaultIntWidth and DefaultRealWidth are the bit widths an
	// un-hinted number literal defaults to (infer/rules.go).
	DefaultIntWidth  int `yaml:"default_int_width"`
	DefaultRealWidth int `yaml:"default_real_width"`

	// VerboseDiagnostics adds each unresolved type variable's
	// substitution id next to its debug name in error output when true.
	VerboseDiagnostics bool `yaml:"verbose_diagnostics"`
}

// Default returns the configuration rules.go and typeterm assume when
// no file is loaded.
func Default() Pass {
	return Pass{
		MaxStripIterations: 1 << 20,
		DefaultIntWidth:    64,
		DefaultRealWidth:   64,
		VerboseDiagnostics: false,
	}
}

// Load reads and validates pass configuration from a YAML file,
// applying Default() for any field the file does not set. A field the
// file sets explicitly, even to zero, keeps the file's value.
func Load(path string) (Pass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pass{}, fmt.Errorf("config: failed to read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Pass{}, fmt.Errorf("config: failed to parse %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Pass{}, fmt.Errorf("config: invalid %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would make the pipeline
// misbehave silently (a zero or negative bound would either disable
// the strip loop's safety net or reject every literal width).
func (p Pass) Validate() error {
	if p.MaxStripIterations <= 0 {
		return fmt.Errorf("max_strip_iterations must be positive, got %d", p.MaxStripIterations)
	}
	if p.DefaultIntWidth <= 0 {
		return fmt.Errorf("default_int_width must be positive, got %d", p.DefaultIntWidth)
	}
	if p.DefaultRealWidth <= 0 {
		return fmt.Errorf("default_real_width must be positive, got %d", p.DefaultRealWidth)
	}
	return nil
}
