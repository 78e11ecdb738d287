// Package cache stores computed layouts and rendered artifacts keyed by the
// content that produced them.
//
// Layout and rendering are pure functions of (stakeholder set, options), so a
// key derived from a hash of those inputs identifies a result exactly. The
// CLI uses [FileCache] under the user cache directory; the HTTP server uses
// [MemoryCache]; [NullCache] disables caching.
//
//	c, _ := cache.NewFileCache(dir)
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(setJSON), cache.LayoutKeyOpts{Width: 1200})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a layout document computed from a set.
	LayoutKey(setHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs of a layout besides the set itself.
type LayoutKeyOpts struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	GroupByDivision bool    `json:"group_by_division"`
	Filter          string  `json:"filter,omitempty"`
}

// ArtifactKeyOpts are the inputs of a render besides the layout.
type ArtifactKeyOpts struct {
	VizType string `json:"viz_type"`
	Format  string `json:"format"`
}

// DefaultKeyer builds "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the set hash together with the layout options.
func (DefaultKeyer) LayoutKey(setHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", setHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Default TTLs.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)
