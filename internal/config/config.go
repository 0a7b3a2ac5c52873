// Package config loads server settings from the environment, optionally
// overlaid on a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

type Config struct {
	ServerAddress  string      `yaml:"server_address"`
	Environment    Environment `yaml:"environment"`
	LogLevel       string      `yaml:"log_level"`
	AllowedOrigins []string    `yaml:"cors_allowed_origins"`
	ArtifactDir    string      `yaml:"artifact_dir"`
	ModelCacheSize int         `yaml:"model_cache_size"`
	MaxModelBytes  int64       `yaml:"max_model_bytes"`
	EnableMetrics  bool        `yaml:"enable_metrics"`
}

func Default() *Config {
	return &Config{
		ServerAddress:  ":8080",
		Environment:    Development,
		LogLevel:       "info",
		AllowedOrigins: []string{"*"},
		ModelCacheSize: 64,
		MaxModelBytes:  32 << 20,
		EnableMetrics:  true,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnvironmentVariables(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironmentVariables() error {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = Environment(strings.ToLower(getEnv("ENVIRONMENT", string(c.Environment))))
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.ArtifactDir = getEnv("ARTIFACT_DIR", c.ArtifactDir)

	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.AllowedOrigins = splitList(val)
	}
	if val := os.Getenv("MODEL_CACHE_SIZE"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("MODEL_CACHE_SIZE: %w", err)
		}
		c.ModelCacheSize = n
	}
	if val := os.Getenv("MAX_MODEL_BYTES"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_MODEL_BYTES: %w", err)
		}
		c.MaxModelBytes = n
	}
	if val := os.Getenv("ENABLE_METRICS"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("ENABLE_METRICS: %w", err)
		}
		c.EnableMetrics = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.ServerAddress == "" {
		return fmt.Errorf("server address is required")
	}
	if c.ModelCacheSize <= 0 {
		return fmt.Errorf("model cache size must be positive, got %d", c.ModelCacheSize)
	}
	if c.MaxModelBytes <= 0 {
		return fmt.Errorf("max model bytes must be positive, got %d", c.MaxModelBytes)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
