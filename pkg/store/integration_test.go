//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("INFLUENCEMAP_REDIS_ADDR")
	if addr == "" {
		t.Skip("INFLUENCEMAP_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "influencemap-test:"})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer st.Close()
	testStore(t, st)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("INFLUENCEMAP_MONGO_URI")
	if uri == "" {
		t.Skip("INFLUENCEMAP_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "influencemap_test"})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer st.Close()
	testStore(t, st)
}
