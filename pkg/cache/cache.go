// Package cache provides byte-level caching of compiled records and
// rendered artifacts.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries with expiry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (server, multi-host batch runs)
//
// Keys come from a [Keyer]. Records are addressed by the SHA-256 of the
// netlist text together with the compiler version, so editing a netlist or
// upgrading the compiler never serves a stale record:
//
//	keyer := cache.NewDefaultKeyer(compiler.Version)
//	key := keyer.RecordKey(netlist)         // "record:<hash>"
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// RecordKey returns the key of the record compiled from netlist.
	RecordKey(netlist []byte) string
	// ArtifactKey returns the key of netlist encoded in format.
	ArtifactKey(netlist []byte, format string) string
}

// DefaultKeyer builds content-addressed keys tagged with a compiler version.
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer returns a keyer whose keys change with version.
func NewDefaultKeyer(version string) Keyer {
	return &DefaultKeyer{version: version}
}

// RecordKey returns "record:<sha256>".
func (k *DefaultKeyer) RecordKey(netlist []byte) string {
	return hashKey("record", k.version, Hash(netlist))
}

// ArtifactKey returns "artifact:<sha256>".
func (k *DefaultKeyer) ArtifactKey(netlist []byte, format string) string {
	return hashKey("artifact", k.version, Hash(netlist), format)
}
