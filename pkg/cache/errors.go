package cache

import "errors"

// ErrCacheMiss is returned by helpers that require a cached value.
var ErrCacheMiss = errors.New("cache miss")
