package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses this to keep per-project cache entries apart while
// sharing one backend.
//
// Example usage:
//
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:gut42:")
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

// RecordsKey generates a prefixed key for parsed records.
func (k *ScopedKeyer) RecordsKey(tableHash string, opts RecordsKeyOpts) string {
	return k.prefix + k.inner.RecordsKey(tableHash, opts)
}

// GraphKey generates a prefixed key for the exchange graph.
func (k *ScopedKeyer) GraphKey(recordsHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(recordsHash, opts)
}

// FocusKey generates a prefixed key for the focus subgraph.
func (k *ScopedKeyer) FocusKey(graphHash string, opts FocusKeyOpts) string {
	return k.prefix + k.inner.FocusKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(focusHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(focusHash, opts)
}
