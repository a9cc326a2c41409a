package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/rpecalc/internal/rpe"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Database   DatabaseConfig   `yaml:"database"`
	Tailscale  TailscaleConfig  `yaml:"tailscale"`
	Calculator CalculatorConfig `yaml:"calculator"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects where preferences are kept: "postgres" (default) or
// "sqlite", in which case Path is the directory holding prefs.db.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type CalculatorConfig struct {
	Strategy string `yaml:"strategy"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// UsesPostgres reports whether preferences live in PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.Store.Driver == "" || c.Store.Driver == "postgres"
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix RPECALC_ and underscore-separated paths:
//
//	RPECALC_SERVER_HOST, RPECALC_SERVER_PORT,
//	RPECALC_STORE_DRIVER, RPECALC_STORE_PATH,
//	RPECALC_DB_HOST, RPECALC_DB_PORT, RPECALC_DB_NAME,
//	RPECALC_DB_USER, RPECALC_DB_PASSWORD, RPECALC_DB_SSLMODE,
//	RPECALC_TAILSCALE_ENABLED, RPECALC_TAILSCALE_HOSTNAME,
//	RPECALC_STRATEGY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RPECALC_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("RPECALC_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RPECALC_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("RPECALC_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("RPECALC_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("RPECALC_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("RPECALC_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("RPECALC_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("RPECALC_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("RPECALC_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("RPECALC_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("RPECALC_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("RPECALC_STRATEGY"); v != "" {
		cfg.Calculator.Strategy = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	switch c.Store.Driver {
	case "", "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for sqlite")
		}
	default:
		return fmt.Errorf("store.driver must be postgres or sqlite, got %q", c.Store.Driver)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if _, err := rpe.ParseStrategy(c.Calculator.Strategy); err != nil {
		return fmt.Errorf("calculator.strategy: %w", err)
	}
	return nil
}
