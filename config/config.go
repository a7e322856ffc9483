// Package config resolves the indexer endpoint, API key and client settings
// from flags, NZ_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. NZ_APIKEY
const EnvPrefix = "NZ"

// DefaultTimeout is used when no timeout is configured
const DefaultTimeout = 30 * time.Second

// flagKeys maps configuration keys to the persistent flags overriding them
var flagKeys = []string{"endpoint", "apikey", "debug", "timeout"}

// Load resolves and validates the configuration. Precedence is flags, then
// environment, then the config file, then defaults. An explicit configPath
// must exist; otherwise nz.yaml is looked up in the working directory and
// ~/.config/nz and silently skipped when absent.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	cfg, err := resolve(configPath, flags)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLogging resolves the configuration like Load but only validates the
// logging section. The endpoint and API key may be missing.
func LoadLogging(configPath string, flags *pflag.FlagSet) (*Config, error) {
	cfg, err := resolve(configPath, flags)
	if err != nil {
		return nil, err
	}
	if err := ValidateLogging(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolve(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range flagKeys {
			if flag := flags.Lookup(key); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// No config type so that a binary named "nz" is never read as YAML
		v.SetConfigName("nz")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "nz"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		switch {
		case missing && configPath != "":
			return nil, &ValidationError{Field: "config", Reason: fmt.Sprintf("file %s does not exist", configPath)}
		case missing:
			// optional
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")
	v.SetDefault("apikey", "")
	v.SetDefault("debug", false)
	v.SetDefault("timeout", DefaultTimeout)

	// Logging defaults; warn keeps normal output free of log lines
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Endpoint == "" {
		return &ValidationError{Field: "endpoint", Reason: "is required (set --endpoint or NZ_ENDPOINT)"}
	}
	if !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return &ValidationError{Field: "endpoint", Reason: fmt.Sprintf("must be an http(s) URL, got %q", cfg.Endpoint)}
	}

	if cfg.APIKey == "" {
		return &ValidationError{Field: "apikey", Reason: "is required (set --apikey or NZ_APIKEY)"}
	}

	if cfg.Timeout <= 0 {
		return &ValidationError{Field: "timeout", Reason: fmt.Sprintf("must be positive, got %s", cfg.Timeout)}
	}

	return ValidateLogging(cfg.Logging)
}

// ValidateLogging checks the logging section
func ValidateLogging(cfg LoggingConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Level] {
		return &ValidationError{Field: "logging.level", Reason: fmt.Sprintf("has unknown value %q", cfg.Level)}
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Format] {
		return &ValidationError{Field: "logging.format", Reason: fmt.Sprintf("has unknown value %q", cfg.Format)}
	}

	return nil
}
