// Package server hosts the HTTP surface of the visibility engine for
// renderers that are not Go processes: the 2D and 3D frontends post camera
// state per frame and read back highlight, visibility and pull decisions.
//
// This file defines the YAML configuration of the daemon. The engine section
// maps one-to-one onto the engine option structs; zoom-phase values are
// sanitized downstream, so a malformed range in the file degrades to a
// repaired one instead of refusing to start.
package server

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/semlens/semlens/pkg/core/zoomphase"
	"github.com/semlens/semlens/pkg/engine"
)

// Config is the top-level structure of the semlens configuration file.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Engine EngineConfig `yaml:"engine"`
}

// HTTPConfig holds the serving parameters. AuthToken supports ${ENV}
// expansion so the secret can stay out of the file.
type HTTPConfig struct {
	Addr      string `yaml:"addr"`
	AuthToken string `yaml:"auth_token"`
}

// EngineConfig mirrors engine.Options in YAML form.
type EngineConfig struct {
	Precision          string           `yaml:"precision"` // "float32" or "float16"
	PositionMemorySize int              `yaml:"position_memory_size"`
	Phase              zoomphase.Config `yaml:"zoom_phase"`
	Zoom               engine.ZoomConfig `yaml:"semantic_zoom"`
	Pull               engine.PullConfig `yaml:"pull"`
	Hover              engine.HoverConfig `yaml:"hover"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	opts := engine.DefaultOptions()
	return &Config{
		HTTP: HTTPConfig{Addr: ":9265"},
		Engine: EngineConfig{
			Precision:          string(engine.PrecisionFloat32),
			PositionMemorySize: opts.PositionMemorySize,
			Phase:              opts.Phase,
			Zoom:               opts.Zoom,
			Pull:               opts.Pull,
			Hover:              opts.Hover,
		},
	}
}

// LoadConfig reads and parses the YAML configuration file from the given
// path. It uses Strict Mode (KnownFields) to prevent silent errors due to
// typos, and expands ${ENV} references before parsing. An empty path returns
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}
	return cfg, nil
}

// EngineOptions converts the file form into engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Phase:              c.Engine.Phase,
		Zoom:               c.Engine.Zoom,
		Pull:               c.Engine.Pull,
		Hover:              c.Engine.Hover,
		PositionMemorySize: c.Engine.PositionMemorySize,
	}
}

// Precision returns the configured embedding precision, defaulting to
// float32 on anything unrecognized.
func (c *Config) Precision() engine.Precision {
	if engine.Precision(c.Engine.Precision) == engine.PrecisionFloat16 {
		return engine.PrecisionFloat16
	}
	return engine.PrecisionFloat32
}
