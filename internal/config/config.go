// Package config loads the influencemap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/influencemap/config.toml
// (see [DefaultPath]). Every table is optional:
//
//	[store]
//	backend = "redis"
//	key = "q3-board"
//	redis_addr = "localhost:6379"
//
//	[render]
//	width = 1600
//	height = 900
//	group_by_division = true
//	format = "svg"
//
//	[server]
//	addr = ":8080"
//
//	[history]
//	limit = 50
//
// Command-line flags override the file; the file overrides [Default].
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/influencemap/pkg/cache"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/pipeline"
	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/store"
)

const (
	appDir   = "influencemap"
	fileName = "config.toml"
)

// Config is the full configuration.
type Config struct {
	Store   store.Config  `toml:"store"`
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
	Cache   CacheConfig   `toml:"cache"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	GroupByDivision bool    `toml:"group_by_division"`
	Format          string  `toml:"format"`
	VizType         string  `toml:"viz_type"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// CacheConfig controls the render cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: store.Config{Backend: store.BackendFile, Key: store.DefaultKey},
		Render: RenderConfig{
			Width:   layout.DefaultWidth,
			Height:  layout.DefaultHeight,
			Format:  pipeline.FormatSVG,
			VizType: pipeline.DefaultVizType,
		},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
		History: HistoryConfig{Limit: session.DefaultHistoryLimit},
	}
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir, fileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load reads the file at path on top of [Default]. An empty path means
// [DefaultPath]; a missing file at the default path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by defaults.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case "", store.BackendFile, store.BackendRedis, store.BackendMongo, store.BackendMemory, store.BackendNone:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return fmt.Errorf("render size must not be negative")
	}
	if c.Render.Format != "" {
		if err := pipeline.ValidateFormat(c.Render.Format); err != nil {
			return err
		}
	}
	if c.Render.VizType != "" {
		if err := pipeline.ValidateVizType(c.Render.VizType); err != nil {
			return err
		}
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history limit must not be negative")
	}
	return nil
}

// CacheDir returns the configured cache directory, falling back to the XDG
// cache location (~/.cache/influencemap).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appDir), nil
}

// OpenCache returns the configured render cache: a file cache by default,
// a null cache when disabled or when no cache directory can be resolved.
func (c Config) OpenCache() (cache.Cache, error) {
	if c.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// Write encodes c as TOML to path, creating the directory.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
