package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"apikey"`
	Debug    bool          `mapstructure:"debug"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
