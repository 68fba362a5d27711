// Package config provides configuration loading for apicontract.
package config

import (
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/adapters/schema"
	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix of environment variables that override file values.
const EnvPrefix = "APICONTRACT_"

// Config holds the application configuration.
type Config struct {
	Spec            string `koanf:"spec"`
	LogLevel        string `koanf:"log_level"`
	SchemaEngine    string `koanf:"schema_engine"`
	ValidateSpec    bool   `koanf:"validate_spec"`
	FormExpression  string `koanf:"form_expression"`
	APIVersion      string `koanf:"api_version"`
	WarmConcurrency int    `koanf:"warm_concurrency"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		LogLevel:        "info",
		SchemaEngine:    schema.EngineOpenAPI,
		ValidateSpec:    true,
		WarmConcurrency: 8,
	}
}

// Load returns the application configuration using go-libs config-loader.
// Values come from the defaults, then the file at path (when path is not empty),
// then APICONTRACT_ environment variables.
func Load(path string) (*Config, error) {
	defaults := Defaults()

	opts := options(configloader.WithDefaults(defaults))
	if path != "" {
		opts = append(opts, configloader.WithFile[Config](path))
	}
	opts = append(opts, configloader.WithEnv[Config](EnvPrefix))

	cfg, err := configloader.NewConfigLoader(opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// options collects loader options under their inferred type.
func options[O any](opts ...O) []O {
	return opts
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	switch strings.ToLower(c.SchemaEngine) {
	case schema.EngineOpenAPI, schema.EngineJSONSchema, "":
	default:
		return fmt.Errorf("invalid schema_engine %q (supported: %s, %s)", c.SchemaEngine, schema.EngineOpenAPI, schema.EngineJSONSchema)
	}

	if c.WarmConcurrency < 0 {
		return fmt.Errorf("invalid warm_concurrency %d: must not be negative", c.WarmConcurrency)
	}

	return nil
}

// Level maps LogLevel to a zerolog level. An empty value means info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return lvl, nil
}
