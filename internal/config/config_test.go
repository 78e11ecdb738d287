package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/influencemap/pkg/cache"
	"github.com/matzehuels/influencemap/pkg/store"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Store.Backend != store.BackendFile {
		t.Errorf("Store.Backend = %q, want file", cfg.Store.Backend)
	}
	if cfg.Store.StoreKey() != store.DefaultKey {
		t.Errorf("StoreKey() = %q, want %q", cfg.Store.StoreKey(), store.DefaultKey)
	}
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		t.Errorf("render size = %vx%v, want positive", cfg.Render.Width, cfg.Render.Height)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[store]
backend = "redis"
key = "q3-board"
redis_addr = "localhost:6379"

[render]
width = 1600
group_by_division = true
format = "png"

[server]
addr = ":9090"

[history]
limit = 25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.Key != "q3-board" || cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Render.Width != 1600 {
		t.Errorf("Render.Width = %v, want 1600", cfg.Render.Width)
	}
	if cfg.Render.Height != Default().Render.Height {
		t.Errorf("Render.Height = %v, want default %v", cfg.Render.Height, Default().Render.Height)
	}
	if !cfg.Render.GroupByDivision {
		t.Error("Render.GroupByDivision = false, want true")
	}
	if cfg.Render.Format != "png" {
		t.Errorf("Render.Format = %q, want png", cfg.Render.Format)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.History.Limit != 25 {
		t.Errorf("History.Limit = %d, want 25", cfg.History.Limit)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") with no file: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of an explicit missing file should fail")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[store\nbackend=", "load config"},
		{"backend", "[store]\nbackend = \"etcd\"", "unknown store backend"},
		{"format", "[render]\nformat = \"gif\"", "invalid config"},
		{"viz type", "[render]\nviz_type = \"sunburst\"", "invalid config"},
		{"negative size", "[render]\nwidth = -1.0", "must not be negative"},
		{"negative limit", "[history]\nlimit = -3", "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDefaultPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, appDir, fileName)
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Store.Key = "acme"
	cfg.Render.GroupByDivision = true
	cfg.History.Limit = 7

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		cfg := Config{Cache: CacheConfig{Dir: "/tmp/im-cache"}}
		if dir, _ := cfg.CacheDir(); dir != "/tmp/im-cache" {
			t.Errorf("CacheDir() = %q", dir)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
		dir, err := Default().CacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/tmp/custom-cache", appDir); dir != want {
			t.Errorf("CacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := Default().CacheDir()
		if err != nil {
			t.Fatal(err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appDir); dir != want {
			t.Errorf("CacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestOpenCache(t *testing.T) {
	cfg := Config{Cache: CacheConfig{Disabled: true}}
	c, err := cfg.OpenCache()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("disabled cache = %T, want *cache.NullCache", c)
	}

	cfg = Config{Cache: CacheConfig{Dir: t.TempDir()}}
	c, err = cfg.OpenCache()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("cache = %T, want *cache.FileCache", c)
	}
}
