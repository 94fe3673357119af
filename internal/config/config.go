// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package config loads the service configuration with koanf, layering three
// sources in increasing priority: struct defaults, an optional YAML file,
// and CINEMATEK_-prefixed environment variables.
//
//	CINEMATEK_SERVER_ADDR=:8080
//	CINEMATEK_MONGO_URI=mongodb://localhost:27017
//	CINEMATEK_ENRICHMENT_BASE_URL=https://status.example.com
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematek/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CINEMATEK_CONFIG"

// envPrefix namespaces the service's environment variables.
const envPrefix = "CINEMATEK_"

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Mongo      MongoConfig      `koanf:"mongo"`
	Redis      RedisConfig      `koanf:"redis"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Logging    LoggingConfig    `koanf:"logging"`
	CORS       CORSConfig       `koanf:"cors"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MongoConfig holds the catalog store connection settings.
type MongoConfig struct {
	URI        string `koanf:"uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

// RedisConfig holds the optional status cache settings.
type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// EnrichmentConfig holds the external metadata source settings.
type EnrichmentConfig struct {
	BaseURL         string        `koanf:"base_url"`
	ListTimeout     time.Duration `koanf:"list_timeout"`
	DetailTimeout   time.Duration `koanf:"detail_timeout"`
	RatePerSecond   float64       `koanf:"rate_per_second"`
	RateBurst       int           `koanf:"rate_burst"`
	MaxConnsPerHost int           `koanf:"max_conns_per_host"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CORSConfig holds the allowed cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// RateLimitConfig holds the inbound per-IP rate limit.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Disabled bool          `koanf:"disabled"`
}

// defaultConfig returns the configuration used before any file or env layer.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://127.0.0.1:27017",
			Database:   "cinematek",
			Collection: "films",
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "127.0.0.1:6379",
			CacheTTL: time.Minute,
		},
		Enrichment: EnrichmentConfig{
			BaseURL:         "",
			ListTimeout:     3 * time.Second,
			DetailTimeout:   8 * time.Second,
			RatePerSecond:   25,
			RateBurst:       50,
			MaxConnsPerHost: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{},
		},
		RateLimit: RateLimitConfig{
			Requests: 300,
			Window:   time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the first config file found
// (or CINEMATEK_CONFIG), and CINEMATEK_* environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sections are the known top-level config groups; envTransform splits a
// variable name into <section>.<key> on the section's trailing underscore,
// so CINEMATEK_ENRICHMENT_BASE_URL becomes enrichment.base_url.
var sections = []string{"server", "mongo", "redis", "enrichment", "logging", "cors", "ratelimit"}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, s := range sections {
		if strings.HasPrefix(key, s+"_") {
			return s + "." + strings.TrimPrefix(key, s+"_")
		}
	}
	return key
}
