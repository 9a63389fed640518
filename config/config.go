package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all mock server configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Logging LogConfig    `yaml:"logging"`
	// Script is the path of a YAML response script (standalone process only)
	Script string `yaml:"script"`
}

// ServerConfig contains listener and connection settings
type ServerConfig struct {
	Host              string `yaml:"host"`            // host name used by URL()
	AcceptDelayMillis int    `yaml:"accept_delay_ms"` // slept before every accept
	PollTimeoutMillis int    `yaml:"poll_timeout_ms"` // bound on every readiness wait
	Backlog           int    `yaml:"backlog"`
}

// LogConfig contains settings for logging
type LogConfig struct {
	Debug       bool   `yaml:"debug"`
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // megabytes
	MaxBackups  int    `yaml:"max_backups"` // rotated files to keep
	MaxAge      int    `yaml:"max_age"`     // days
	Compress    bool   `yaml:"compress"`
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "localhost",
			AcceptDelayMillis: 0,
			PollTimeoutMillis: 1000,
			Backlog:           1,
		},
		Logging: LogConfig{
			LogFilePath: "mockserver.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Load reads configuration from a file and merges it onto the defaults
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Server.AcceptDelayMillis < 0 {
		return errors.New("server.accept_delay_ms must not be negative")
	}
	if c.Server.PollTimeoutMillis <= 0 {
		return errors.New("server.poll_timeout_ms must be positive")
	}
	if c.Server.Backlog <= 0 {
		return errors.New("server.backlog must be positive")
	}
	return nil
}

// AcceptDelay returns the accept delay as a duration
func (s ServerConfig) AcceptDelay() time.Duration {
	return time.Duration(s.AcceptDelayMillis) * time.Millisecond
}

// PollTimeout returns the readiness wait bound as a duration
func (s ServerConfig) PollTimeout() time.Duration {
	return time.Duration(s.PollTimeoutMillis) * time.Millisecond
}
