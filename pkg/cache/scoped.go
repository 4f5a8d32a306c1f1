package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis instance:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(compiler.Version), "benchgraph:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to a DefaultKeyer with an empty version.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer("")
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RecordKey returns the prefixed record key.
func (k *ScopedKeyer) RecordKey(netlist []byte) string {
	return k.prefix + k.inner.RecordKey(netlist)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(netlist []byte, format string) string {
	return k.prefix + k.inner.ArtifactKey(netlist, format)
}
