package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPrefix prefixes every environment override.
const envPrefix = "SQLITEDB_"

// Config is the root configuration structure for a sqlitedb store.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	// Dir is the directory holding the database file.
	Dir string `yaml:"dir" validate:"required"`

	// Filename is the database file name inside Dir. It must not contain
	// path separators.
	Filename string `yaml:"filename" validate:"required,excludesall=/\\"`

	// WALMode enables Write-Ahead Logging.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long the engine waits on a locked database.
	BusyTimeout time.Duration `yaml:"busy_timeout" validate:"gte=0s"`

	// StatementTimeout bounds every statement. Zero disables it.
	StatementTimeout time.Duration `yaml:"statement_timeout" validate:"gte=0s"`

	// DefaultTable provisions the legacy DefaultTable on create.
	DefaultTable bool `yaml:"default_table"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
	Output string `yaml:"output" validate:"omitempty,oneof=stdout stderr"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Variables from envFiles, for keys not already set in the process
//  4. Environment variables (override file values)
//
// Environment variables follow the pattern: SQLITEDB_SECTION_KEY
// For example: SQLITEDB_DATABASE_DIR, SQLITEDB_LOG_LEVEL
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("loading env files: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:         ".",
			Filename:    "database.sqlite",
			WALMode:     true,
			BusyTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(envPrefix + "DATABASE_DIR"); v != "" {
		cfg.Database.Dir = v
	}
	if v := os.Getenv(envPrefix + "DATABASE_FILENAME"); v != "" {
		cfg.Database.Filename = v
	}
	if v := os.Getenv(envPrefix + "DATABASE_BUSY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDATABASE_BUSY_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Database.BusyTimeout = d
	}

	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// validate is shared; validator caches struct metadata per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("configuration errors: %s", strings.Join(msgs, "; "))
}

// describe renders one field error as "database.dir is required".
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "excludesall":
		return field + " must not contain path separators"
	case "gte":
		return field + " must not be negative"
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
