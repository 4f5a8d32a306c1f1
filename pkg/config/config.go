// Package config loads benchgraph settings from a TOML file.
//
// The file is looked up in this order, first match wins:
//
//  1. the path given on the command line (--config)
//  2. $BENCHGRAPH_CONFIG
//  3. $XDG_CONFIG_HOME/benchgraph/config.toml
//  4. ~/.config/benchgraph/config.toml
//
// A missing file in steps 3 and 4 is not an error: [Default] values apply.
// Explicitly named files (steps 1 and 2) must exist. Command-line flags
// override whatever the file sets.
//
// Example file:
//
//	[compile]
//	workers = 8
//	formats = ["json", "graphml"]
//	recursive = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//
//	[serve]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "BENCHGRAPH_CONFIG"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the complete configuration.
type Config struct {
	Compile CompileConfig `toml:"compile"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
	Serve   ServeConfig   `toml:"serve"`
}

// CompileConfig controls single-file and batch compilation.
type CompileConfig struct {
	Workers   int      `toml:"workers"` // 0 means one per CPU
	Formats   []string `toml:"formats"`
	Recursive bool     `toml:"recursive"`
	Extension string   `toml:"extension"` // netlist file extension for batch discovery
}

// CacheConfig selects and configures the record cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"` // file backend; empty means ~/.cache/benchgraph
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	KeyPrefix string   `toml:"key_prefix"`
}

// StoreConfig configures the MongoDB record store.
type StoreConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string ("36h", "15m").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{
			Formats:   []string{string(sink.FormatJSON)},
			Extension: ".bench",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{30 * 24 * time.Hour},
		},
		Store: StoreConfig{
			Database:   "benchgraph",
			Collection: "records",
		},
		Serve: ServeConfig{
			Addr:         ":8080",
			MaxBodyBytes: 16 << 20,
		},
	}
}

// Load reads the configuration. It returns the file actually used, or ""
// when defaults apply. The result is validated.
func Load(explicit string) (*Config, string, error) {
	path, err := locate(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg := Default()
	if path == "" {
		return cfg, "", nil
	}
	if err := decodeFile(path, cfg); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, path, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
}

func locate(explicit string) (string, error) {
	for _, p := range []string{explicit, os.Getenv(EnvVar)} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", p)
		}
		return p, nil
	}

	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "benchgraph", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "benchgraph", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Compile.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "compile.workers must not be negative")
	}
	if _, err := sink.ParseFormats(c.Compile.Formats); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "compile.formats")
	}
	if !strings.HasPrefix(c.Compile.Extension, ".") {
		return errs.New(errs.ErrCodeInvalidConfig, "compile.extension %q must start with a dot", c.Compile.Extension)
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend %q must be none, file or redis", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if c.Store.MongoURI != "" && (c.Store.Database == "" || c.Store.Collection == "") {
		return errs.New(errs.ErrCodeInvalidConfig, "store.database and store.collection are required with store.mongo_uri")
	}
	if c.Serve.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "serve.max_body_bytes must be positive")
	}
	return nil
}

// WorkerCount returns the configured worker count, resolving 0 to the
// number of CPUs.
func (c *Config) WorkerCount() int {
	if c.Compile.Workers > 0 {
		return c.Compile.Workers
	}
	return runtime.NumCPU()
}
