// Package config provides configuration loading and structs for the lapbot server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Chat   ChatConfig   `yaml:"chat"`
	Render RenderConfig `yaml:"render"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataConfig points at the listing table.
type DataConfig struct {
	SourcePath string `yaml:"source_path"`
	// Sheet is the worksheet to read from .xlsx sources; empty means the first sheet.
	Sheet string `yaml:"sheet"`
	// Table is the table to read from SQLite sources.
	Table string `yaml:"table"`
	Watch *bool  `yaml:"watch"`
}

// WatchOrDefault returns whether to watch the source file; defaults to true when unset.
func (d *DataConfig) WatchOrDefault() bool {
	if d.Watch != nil {
		return *d.Watch
	}
	return true
}

// ChatConfig holds query and link settings.
type ChatConfig struct {
	DefaultLimit      int    `yaml:"default_limit"`
	MarketplaceDomain string `yaml:"marketplace_domain"`
	SearchURL         string `yaml:"search_url"`

	// SessionTTL drops transcripts idle for longer than this.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// RenderConfig holds card rendering settings.
type RenderConfig struct {
	// EscapeFields HTML-escapes every value taken from the listing table.
	EscapeFields bool `yaml:"escape_fields"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	configDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	cfg.Data.SourcePath = expandPath(cfg.Data.SourcePath, configDir)

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the defaults with environment overrides applied, for running without a config file.
// The default source path is relative to the working directory.
func Default() (*Config, error) {
	var cfg Config
	ApplyDefaults(&cfg)
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg.Data.SourcePath = expandPath(cfg.Data.SourcePath, cwd)

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env") into the process
// environment. Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from LAPBOT_SOURCE, LAPBOT_HOST, LAPBOT_PORT and LAPBOT_DEBUG.
// A relative LAPBOT_SOURCE is resolved against the working directory.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("LAPBOT_SOURCE"); v != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve LAPBOT_SOURCE: %w", err)
		}
		cfg.Data.SourcePath = expandPath(v, cwd)
	}
	if v := os.Getenv("LAPBOT_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LAPBOT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LAPBOT_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("LAPBOT_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LAPBOT_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}
	return nil
}

// Save writes the config to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. "~/" paths are relative to the home directory;
// any other relative path is relative to baseDir.
func expandPath(path string, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return filepath.Join(baseDir, path)
}
