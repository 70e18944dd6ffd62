package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfigNotFound is returned when an explicitly named config file is not found by Load.
var ErrConfigNotFound = errors.New("configuration file not found")

// EnvPrefix prefixes environment variable overrides, e.g. ISO_TESTGEN_GENERATION_SEED
const EnvPrefix = "ISO_TESTGEN"

// Config represents the application configuration
type Config struct {
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Generation GenerationConfig `mapstructure:"generation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// CatalogConfig locates the input and output catalogs
type CatalogConfig struct {
	Input  string `mapstructure:"input" validate:"required"`
	Output string `mapstructure:"output" validate:"required,nefield=Input"`
	Indent int    `mapstructure:"indent" validate:"min=0,max=8"`
}

// GenerationConfig controls test case synthesis
type GenerationConfig struct {
	// Seed fixes the random source; 0 draws a seed from entropy
	Seed                 int64  `mapstructure:"seed"`
	MissingLength        string `mapstructure:"missing_length" validate:"oneof=fail skip"`
	LegacyIndicatorCases bool   `mapstructure:"legacy_indicator_cases"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// AuditFile is the run ledger path; empty disables the ledger
	AuditFile string `mapstructure:"audit_file"`
	// AuditMaxSize rotates the ledger past this many bytes; 0 never rotates
	AuditMaxSize int64 `mapstructure:"audit_max_size" validate:"min=0"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Input:  "iso_config.json",
			Output: "iso_config_extended.json",
			Indent: 2,
		},
		Generation: GenerationConfig{
			Seed:          0,
			MissingLength: "fail",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and
// ISO_TESTGEN_ environment variables. An empty configFile skips the file.
func Load(configFile string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config)

	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		v.SetConfigFile(configFile)
	}

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", EnvPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("generation.seed", EnvPrefix+"_GENERATION_SEED", EnvPrefix+"_SEED")

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			var vfnfError viper.ConfigFileNotFoundError
			if errors.As(err, &vfnfError) {
				return nil, ErrConfigNotFound
			}
			return nil, fmt.Errorf("failed to read config file content: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults registers every key so environment overrides apply without a file
func setDefaults(v *viper.Viper, c *Config) {
	for key, value := range c.settings() {
		v.SetDefault(key, value)
	}
}

func (c *Config) settings() map[string]interface{} {
	return map[string]interface{}{
		"catalog.input":                     c.Catalog.Input,
		"catalog.output":                    c.Catalog.Output,
		"catalog.indent":                    c.Catalog.Indent,
		"generation.seed":                   c.Generation.Seed,
		"generation.missing_length":         c.Generation.MissingLength,
		"generation.legacy_indicator_cases": c.Generation.LegacyIndicatorCases,
		"logging.level":                     c.Logging.Level,
		"logging.audit_file":                c.Logging.AuditFile,
		"logging.audit_max_size":            c.Logging.AuditMaxSize,
	}
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(configFile string) error {
	if configFile == "" {
		return fmt.Errorf("config file path cannot be empty")
	}

	if dir := filepath.Dir(configFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	for key, value := range c.settings() {
		v.Set(key, value)
	}

	return v.WriteConfig()
}
