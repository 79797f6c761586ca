package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"ATELIER_SERVER_HOST"`
	Port int    `yaml:"port" env:"ATELIER_SERVER_PORT"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"ATELIER_DB_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"ATELIER_LOG_LEVEL"`
	Path  string `yaml:"path" env:"ATELIER_LOG_PATH"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"ATELIER_TRANSPORT"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" env:"ATELIER_AUTH_ENABLED"`
}

// CatalogConfig selects the catalog file; an empty path uses the built-in
// sample catalog.
type CatalogConfig struct {
	Path    string `yaml:"path" env:"ATELIER_CATALOG_PATH"`
	MaxTags int    `yaml:"max_tags" env:"ATELIER_CATALOG_MAX_TAGS"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "atelier.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		Catalog: CatalogConfig{
			MaxTags: 10,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("ATELIER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports configuration values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("unknown transport mode %q", c.Transport.Mode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if c.Catalog.MaxTags < 0 {
		errs = append(errs, fmt.Errorf("invalid catalog max_tags %d", c.Catalog.MaxTags))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
