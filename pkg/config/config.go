// Package config loads the samplesize configuration file.
//
// The file is TOML. Every key is optional: missing keys keep the values from
// [Default], and a missing default file is not an error.
//
//	[defaults]
//	confidence = 95
//	power = 80
//	dropout = false
//
//	[grid]
//	width = 600
//	height = 400
//
//	[cache]
//	backend = "file"   # file | redis | none
//	dir = ""           # defaults to $XDG_CACHE_HOME/samplesize
//	ttl = "720h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "samplesize:"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "10s"
//
//	[log]
//	level = "info"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/samplesize/pkg/cache"
	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "samplesize"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Grid     GridConfig     `toml:"grid"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// DefaultsConfig seeds confidence, power and dropout for every design.
type DefaultsConfig struct {
	Confidence int  `toml:"confidence"`
	Power      int  `toml:"power"`
	Dropout    bool `toml:"dropout"`
}

// GridConfig is the default dot-matrix area in pixels.
type GridConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	TTL     Duration          `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures `samplesize serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// LogConfig sets the default log level (debug, info, warn, error).
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("720h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{Confidence: 95, Power: 80},
		Grid:     GridConfig{Width: 600, Height: 400},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{cache.TTLResult},
			Redis:   cache.RedisConfig{Prefix: cache.DefaultRedisPrefix},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/samplesize/config.toml, falling back
// to ~/.config/samplesize/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path loads the default file
// and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := errs.ValidateIntRange("defaults.confidence", c.Defaults.Confidence, design.MinConfidence, design.MaxConfidence); err != nil {
		return invalid(err)
	}
	if err := errs.ValidateIntRange("defaults.power", c.Defaults.Power, design.MinPower, design.MaxPower); err != nil {
		return invalid(err)
	}
	if err := errs.ValidatePositive("grid.width", c.Grid.Width); err != nil {
		return invalid(err)
	}
	if err := errs.ValidatePositive("grid.height", c.Grid.Height); err != nil {
		return invalid(err)
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errs.NewField(errs.ErrCodeInvalidConfig, "cache.redis.addr", "redis backend requires cache.redis.addr")
		}
	default:
		return errs.NewField(errs.ErrCodeInvalidConfig, "cache.backend",
			"unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.NewField(errs.ErrCodeInvalidConfig, "cache.ttl", "cache.ttl must not be negative")
	}
	if c.Server.Addr == "" {
		return errs.NewField(errs.ErrCodeInvalidConfig, "server.addr", "server.addr is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errs.NewField(errs.ErrCodeInvalidConfig, "log.level",
			"unknown log level %q (must be one of: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

// ApplyDefaults copies the configured confidence, power and dropout into p.
func (c *Config) ApplyDefaults(p *design.Params) {
	p.Confidence = c.Defaults.Confidence
	p.Power = c.Defaults.Power
	p.Dropout = c.Defaults.Dropout
}

// invalid re-tags a validation error as a config error, keeping its field.
func invalid(err error) error {
	return errs.NewField(errs.ErrCodeInvalidConfig, errs.GetField(err), "%s", errs.UserMessage(err))
}
