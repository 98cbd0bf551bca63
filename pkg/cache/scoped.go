package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// separating cache entries of different tools sharing one cache directory.
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
func (k *ScopedKeyer) ArtifactKey(workbookHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(workbookHash, opts)
}
