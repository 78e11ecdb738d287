// Package store persists stakeholder sets under a key.
//
// Persistence sits outside the editing core: a session writes the full
// current set after every change and reads it once at startup. A store keeps
// one snapshot per key; there is no history and no durability beyond the
// backend's own.
//
// Backends:
//   - file: one JSON file per key (CLI default)
//   - redis: one string value per key
//   - mongo: one document per key
//   - memory: in-process map (tests, ephemeral servers)
//   - none: discards writes
//
// # Usage
//
//	st, err := store.Open(ctx, store.Config{Backend: "file"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	set, found, err := st.Load(ctx, store.DefaultKey)
//	err = st.Save(ctx, store.DefaultKey, set)
//
// Write and read failures are PERSISTENCE errors.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// DefaultKey is the key the CLI and editor use when none is configured.
const DefaultKey = "influenceMap"

// Store is the interface for persistence backends.
type Store interface {
	// Save replaces the snapshot stored under key.
	Save(ctx context.Context, key string, set stakeholder.Set) error

	// Load returns the snapshot stored under key.
	// Returns nil, false, nil if nothing is stored.
	Load(ctx context.Context, key string) (stakeholder.Set, bool, error)

	// Delete removes the snapshot under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend connections.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`

	// file
	Dir string `toml:"dir"`

	// redis
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// mongo
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// StoreKey returns the configured key or [DefaultKey].
func (c Config) StoreKey() string {
	if c.Key == "" {
		return DefaultKey
	}
	return c.Key
}

// Open connects the configured backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNone:
		return NullStore{}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
}

func checkKey(key string) error {
	return errors.ValidateStoreKey(key)
}

func saveErr(backend, key string, err error) error {
	return errors.Wrap(errors.ErrCodePersistence, err, "%s store: save %s", backend, key)
}

func loadErr(backend, key string, err error) error {
	return errors.Wrap(errors.ErrCodePersistence, err, "%s store: load %s", backend, key)
}

func describe(backend, detail string) string {
	if detail == "" {
		return backend
	}
	return fmt.Sprintf("%s (%s)", backend, detail)
}
