package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the configuration values for the planner service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	AdminEmail    string
	AdminPassword string
	SessionTTL    time.Duration
}

// fileConfig mirrors Config for the optional YAML configuration file.
// Environment variables override any value loaded from the file.
type fileConfig struct {
	HTTPPort      int    `yaml:"http_port"`
	SQLiteDSN     string `yaml:"sqlite_dsn"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
	SessionTTL    string `yaml:"session_ttl"`
}

// Load builds the configuration from the optional YAML file named by
// PLANNER_CONFIG_FILE, then applies PLANNER_* environment overrides.
//
// PLANNER_ADMIN_EMAIL and PLANNER_ADMIN_PASSWORD are required unless the
// file supplies them; everything else defaults sensibly.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:planner.db?_foreign_keys=on",
		SessionTTL: 24 * time.Hour,
	}

	if path := strings.TrimSpace(os.Getenv("PLANNER_CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PLANNER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PLANNER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PLANNER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if email := strings.TrimSpace(os.Getenv("PLANNER_ADMIN_EMAIL")); email != "" {
		cfg.AdminEmail = email
	}
	if password := strings.TrimSpace(os.Getenv("PLANNER_ADMIN_PASSWORD")); password != "" {
		cfg.AdminPassword = password
	}

	if ttlValue := strings.TrimSpace(os.Getenv("PLANNER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "PLANNER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if cfg.AdminEmail == "" {
		missing = append(missing, "PLANNER_ADMIN_EMAIL")
	}
	if cfg.AdminPassword == "" {
		missing = append(missing, "PLANNER_ADMIN_PASSWORD")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required configuration values are missing: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("configuration values are invalid: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read configuration file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse configuration file %s: %w", path, err)
	}

	if fc.HTTPPort > 0 {
		cfg.HTTPPort = fc.HTTPPort
	}
	if dsn := strings.TrimSpace(fc.SQLiteDSN); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if email := strings.TrimSpace(fc.AdminEmail); email != "" {
		cfg.AdminEmail = email
	}
	if password := strings.TrimSpace(fc.AdminPassword); password != "" {
		cfg.AdminPassword = password
	}
	if ttlValue := strings.TrimSpace(fc.SessionTTL); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("configuration file %s: session_ttl is invalid", path)
		}
		cfg.SessionTTL = ttl
	}

	return nil
}
