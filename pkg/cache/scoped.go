package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each stored map
// its own namespace in a shared cache directory.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "board:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the namespace prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(setHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(setHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
