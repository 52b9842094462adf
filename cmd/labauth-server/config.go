package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// serverConfig is the YAML-serializable server configuration. Every field
// has an environment-variable override so a config file is optional.
type serverConfig struct {
	Addr string `yaml:"addr"`

	Storage struct {
		// Backend: "postgres", "sqlite", or "memory" (default: memory).
		Backend string `yaml:"backend"`
		DSN     string `yaml:"dsn"`
	} `yaml:"storage"`

	JWT struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
		Issuer string        `yaml:"issuer"`
	} `yaml:"jwt"`

	DefaultRole string `yaml:"default_role"`
}

func loadConfig(path string) (serverConfig, error) {
	var cfg serverConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Addr = getenv("LABAUTH_ADDR", defaultStr(cfg.Addr, ":3000"))
	cfg.Storage.Backend = getenv("LABAUTH_STORAGE", defaultStr(cfg.Storage.Backend, "memory"))
	cfg.Storage.DSN = getenv("LABAUTH_DSN", cfg.Storage.DSN)
	cfg.JWT.Secret = getenv("LABAUTH_JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.Issuer = defaultStr(cfg.JWT.Issuer, "labauth")
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 24 * time.Hour
	}

	if cfg.JWT.Secret == "" {
		return cfg, fmt.Errorf("jwt secret is required (jwt.secret or LABAUTH_JWT_SECRET)")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
