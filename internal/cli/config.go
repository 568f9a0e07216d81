package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kintree/kintree/pkg/render/tree/layout"
)

// Cache backend names accepted in configuration.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config is the TOML configuration for the serve command.
//
// Example:
//
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	db = 2
//
//	[render]
//	popups = false
type Config struct {
	Addr   string       `toml:"addr"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Layout LayoutConfig `toml:"layout"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // "file", "redis", or "none"
	Dir     string      `toml:"dir"`     // file backend directory, defaults to cacheDir()
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LayoutConfig overrides node sizing metrics. Zero fields keep the
// built-in defaults.
type LayoutConfig struct {
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	CoupleGap  float64 `toml:"couple_gap"`
	ClusterGap float64 `toml:"cluster_gap"`
	BandGap    float64 `toml:"band_gap"`
	Padding    float64 `toml:"padding"`
}

// Metrics merges the configured overrides over the default metrics.
func (l LayoutConfig) Metrics() layout.Metrics {
	m := layout.DefaultMetrics()
	if l.NodeWidth > 0 {
		m.NodeWidth = l.NodeWidth
	}
	if l.NodeHeight > 0 {
		m.NodeHeight = l.NodeHeight
	}
	if l.CoupleGap > 0 {
		m.CoupleGap = l.CoupleGap
	}
	if l.ClusterGap > 0 {
		m.ClusterGap = l.ClusterGap
	}
	if l.BandGap > 0 {
		m.BandGap = l.BandGap
	}
	if l.Padding > 0 {
		m.Padding = l.Padding
	}
	return m
}

// RenderConfig holds render defaults applied to server-side requests.
type RenderConfig struct {
	Style       string  `toml:"style"`
	Interactive *bool   `toml:"interactive"`
	Popups      *bool   `toml:"popups"`
	Scale       float64 `toml:"scale"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{
		Addr: ":8080",
		Cache: CacheConfig{
			Backend: cacheBackendFile,
		},
	}
}

// configPath returns the default config file location using XDG standard
// (~/.config/kintree/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the TOML config at path. An empty path falls back to
// the default location; a missing file at the default location is not an
// error and yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig rejects unknown backend names early, before the server
// starts listening.
func validateConfig(cfg Config) error {
	switch cfg.Cache.Backend {
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone, "":
		return nil
	default:
		return fmt.Errorf("unknown cache backend: %q (must be 'file', 'redis', or 'none')", cfg.Cache.Backend)
	}
}
