package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "LAYOUTDECOMP_"
	defaultConfigYAML = "layoutdecomp.yaml"
)

// Loader loads Config from layered sources: defaults, then an optional
// YAML file, then environment variables (highest priority).
type Loader struct {
	k          *koanf.Koanf
	configPath string
	envPrefix  string
}

// NewLoader creates a Loader with the given options applied.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k:          koanf.New("."),
		configPath: defaultConfigYAML,
		envPrefix:  envPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigPath overrides the YAML file path searched by Load.
func WithConfigPath(path string) LoaderOption {
	return func(l *Loader) { l.configPath = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// Load loads and validates the configuration, with priority (lowest to
// highest): built-in defaults, YAML file (if present), environment
// variables.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if err := l.k.Load(file.Provider(l.configPath), yaml.Parser()); err != nil {
		// The file is optional; absence is not an error.
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"log.level":  "info",
		"log.format": "json",
		"log.output": "stdout",

		"coloring.epsilon":        1e-6,
		"coloring.max_iterations": 0,
		"coloring.threads":        1,

		"dualmcf.default_engine":         "network_simplex",
		"dualmcf.scaling_factor":         4,
		"dualmcf.cost_scaling_method":    "partial_augment",
		"dualmcf.cost_scaling_factor":    16,
		"dualmcf.pivot_rule":             "block_search",
		"dualmcf.cycle_canceling_method": "cancel_and_tighten",
		"dualmcf.big_m_headroom":         2.0,
	}
	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", nil), nil)
}
