package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// cache backend without colliding.
//
// Example usage:
//
//	shop := NewScopedKeyer(NewDefaultKeyer(), "shop:")
//	admin := NewScopedKeyer(NewDefaultKeyer(), "admin:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(configHash, opts)
}

// ResolveKey generates a prefixed key for resolved scope tables.
func (k *ScopedKeyer) ResolveKey(configHash, scopeSet string) string {
	return k.prefix + k.inner.ResolveKey(configHash, scopeSet)
}
