// Package config defines the critex configuration model and its loader.
// Values come from, in increasing precedence: built-in defaults, a YAML
// config file, a .env file, environment variables, and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// ServiceConfig locates the document-understanding processor.
type ServiceConfig struct {
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint"`
	Token      string `mapstructure:"token" yaml:"token,omitempty"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (s ServiceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// BatchConfig controls multi-document runs.
type BatchConfig struct {
	Workers   int  `mapstructure:"workers" yaml:"workers"`
	Recursive bool `mapstructure:"recursive" yaml:"recursive"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		OutputDir: "data/output",
		Service: ServiceConfig{
			TimeoutSec: 120,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      300,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks structural constraints. The service endpoint is not
// required here; commands that call the service check it themselves.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.Service.TimeoutSec <= 0 {
		return fmt.Errorf("service.timeout_sec must be positive")
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	return nil
}
