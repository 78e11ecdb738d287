package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// RedisConfig configures a Redis connection.
type RedisConfig struct {
	Addr     string // default localhost:6379
	Password string
	DB       int
	Prefix   string // default "influencemap:"
}

// RedisStore keeps each snapshot as a JSON string value.
type RedisStore struct {
	client *redis.Client
	prefix string
	addr   string
}

// NewRedisStore connects to Redis and verifies the connection with PING,
// retrying a few times while the server comes up.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "influencemap:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := retry(ctx, connectAttempts, connectDelay, ping); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix, addr: cfg.Addr}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "influencemap:"
	}
	return &RedisStore{client: client, prefix: prefix, addr: client.Options().Addr}
}

func (r *RedisStore) Save(ctx context.Context, key string, set stakeholder.Set) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := pkgio.MarshalJSON(set)
	if err != nil {
		return saveErr("redis", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return saveErr("redis", key, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, key string) (stakeholder.Set, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, loadErr("redis", key, err)
	}
	set, err := pkgio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, false, loadErr("redis", key, err)
	}
	return set, true, nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }

func (r *RedisStore) String() string { return describe("redis", r.addr) }

var _ Store = (*RedisStore)(nil)
