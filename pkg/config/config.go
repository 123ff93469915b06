// Package config loads the cmdtower configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/cmdtower/config.toml
// (~/.config/cmdtower/config.toml when XDG_CONFIG_HOME is unset). Every
// field is optional; [Load] fills in defaults for anything left out, and a
// missing file yields [Default]. Command-line flags override the file.
//
//	[placement]
//	min = "0,64,0"
//	max = "16,80,16"
//	orientation = "east,up,south"
//
//	[export]
//	author = "steve"
//	formats = ["nbt"]
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "cmdtower"

// DefaultMaxVolume bounds API placement boxes to a 64³ cube.
const DefaultMaxVolume = 64 * 64 * 64

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config holds all cmdtower settings.
type Config struct {
	Placement PlacementConfig `toml:"placement"`
	Export    ExportConfig    `toml:"export"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Server    ServerConfig    `toml:"server"`
}

// PlacementConfig holds the default placement box and orientation.
type PlacementConfig struct {
	Min         coord.Coordinate  `toml:"min"`
	Max         coord.Coordinate  `toml:"max"`
	Orientation coord.Orientation `toml:"orientation"`
}

// ExportConfig holds structure export defaults.
type ExportConfig struct {
	Author      string   `toml:"author"`
	DataVersion int      `toml:"data_version"`
	Formats     []string `toml:"formats"`
	Background  bool     `toml:"background"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // file, redis or none
	Dir     string      `toml:"dir"`     // file backend directory
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects and configures the layout store used by the server.
type StoreConfig struct {
	Backend string      `toml:"backend"` // memory, file or mongo
	Dir     string      `toml:"dir"`     // file backend directory
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string        `toml:"uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	Timeout    time.Duration `toml:"timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
	MaxVolume       int           `toml:"max_volume"` // cells in a requested placement box
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the configuration at path. A missing file is not an error and
// yields [Default].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
	}
	return Parse(data)
}

// Parse decodes a TOML configuration, fills defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults fills in values not provided by the file.
func (c *Config) setDefaults() {
	if c.Placement.Max == (coord.Coordinate{}) {
		c.Placement.Max = c.Placement.Min.Add(coord.Uniform(16))
	}
	if c.Placement.Orientation == (coord.Orientation{}) {
		c.Placement.Orientation = coord.DefaultOrientation
	}
	if c.Export.Author == "" {
		c.Export.Author = AppName
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = AppName + ":"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreMemory
	}
	if c.Store.Mongo.URI == "" {
		c.Store.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Store.Mongo.Database == "" {
		c.Store.Mongo.Database = AppName
	}
	if c.Store.Mongo.Collection == "" {
		c.Store.Mongo.Collection = "layouts"
	}
	if c.Store.Mongo.Timeout == 0 {
		c.Store.Mongo.Timeout = 10 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 4 << 20
	}
	if c.Server.MaxVolume == 0 {
		c.Server.MaxVolume = DefaultMaxVolume
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks backend names and the placement box.
func (c *Config) Validate() error {
	if !c.Placement.Min.Less(c.Placement.Max) {
		return errors.New(errors.ErrCodeInvalidConfig, "placement: min %s must be less than max %s", c.Placement.Min, c.Placement.Max)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache: unknown backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store: unknown backend %q (must be memory, file or mongo)", c.Store.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server: max_body_bytes must be positive")
	}
	if c.Server.MaxVolume < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server: max_volume must be positive")
	}
	if err := errors.ValidateAuthor(c.Export.Author); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "export")
	}
	return nil
}

// Encode returns the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the file cache directory, honoring XDG_CACHE_HOME.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
