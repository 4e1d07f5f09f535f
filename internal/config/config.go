// Package config provides Viper-based configuration loading for dicebag.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/dicebag/internal/notation"
)

// EnvPrefix is prepended to every environment variable override, e.g.
// DICEBAG_ROLLER_SEED overrides roller.seed.
const EnvPrefix = "DICEBAG"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RollerConfig holds randomness and notation limit settings.
type RollerConfig struct {
	// Seed selects a deterministic source when non-zero. Zero uses crypto/rand.
	Seed int64 `mapstructure:"seed"`
	// MaxDice is the largest dice count accepted in one term. Zero disables the check.
	MaxDice int `mapstructure:"max_dice"`
	// MaxSides is the largest number of sides accepted. Zero disables the check.
	MaxSides int `mapstructure:"max_sides"`
	// MaxModifier bounds the absolute value of a term modifier. Zero disables the check.
	MaxModifier int `mapstructure:"max_modifier"`
}

// Parser returns a notation parser enforcing these limits.
func (r RollerConfig) Parser() notation.Parser {
	return notation.Parser{
		MaxCount:    r.MaxDice,
		MaxSides:    r.MaxSides,
		MaxModifier: r.MaxModifier,
	}
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit caps the opcodes a script may execute. Zero uses the
	// scripting package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// PresetsConfig locates the preset catalog.
type PresetsConfig struct {
	// Path is a YAML file or a directory of *.yaml files. Empty means no presets.
	Path string `mapstructure:"path"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Roller    RollerConfig    `mapstructure:"roller"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Presets   PresetsConfig   `mapstructure:"presets"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRoller(c.Roller); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRoller(r RollerConfig) error {
	var errs []string
	if r.MaxDice < 0 {
		errs = append(errs, fmt.Sprintf("roller.max_dice must be >= 0, got %d", r.MaxDice))
	}
	if r.MaxSides < 0 {
		errs = append(errs, fmt.Sprintf("roller.max_sides must be >= 0, got %d", r.MaxSides))
	}
	if r.MaxModifier < 0 {
		errs = append(errs, fmt.Sprintf("roller.max_modifier must be >= 0, got %d", r.MaxModifier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment overrides.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by Load("") with no environment
// overrides.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Roller: RollerConfig{
			MaxDice:     notation.DefaultMaxCount,
			MaxSides:    notation.DefaultMaxSides,
			MaxModifier: notation.DefaultMaxModifier,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("roller.seed", d.Roller.Seed)
	v.SetDefault("roller.max_dice", d.Roller.MaxDice)
	v.SetDefault("roller.max_sides", d.Roller.MaxSides)
	v.SetDefault("roller.max_modifier", d.Roller.MaxModifier)

	v.SetDefault("scripting.instruction_limit", d.Scripting.InstructionLimit)

	v.SetDefault("presets.path", d.Presets.Path)
}
