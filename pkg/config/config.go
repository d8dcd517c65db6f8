// Package config loads the optional project configuration file.
//
// A graphweave.toml next to the data files captures everything the CLI flags
// can express, so a project checked into version control lays out the same
// way on every machine. Flags override file values; both override defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/errors"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "graphweave.toml"

// Config is the full project configuration.
type Config struct {
	Canvas   Canvas       `toml:"canvas"`
	Grouping group.Config `toml:"grouping"`
	Ingest   Ingest       `toml:"ingest"`
	Cache    CacheConfig  `toml:"cache"`
	Server   Server       `toml:"server"`
}

// Canvas configures the layout area.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Ingest configures CSV column interpretation.
type Ingest struct {
	// IDColumn names the column holding the node identifier. Empty means
	// the first column.
	IDColumn string `toml:"id_column"`

	// LabelColumn names the column holding the display label.
	LabelColumn string `toml:"label_column"`

	// LinkColumns name columns whose cells reference other rows by ID.
	LinkColumns []string `toml:"link_columns"`

	// MultiValueSeparator splits cells into multiple values. Defaults to ";".
	MultiValueSeparator string `toml:"multi_value_separator"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis" or "none". Empty means "file".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword is optional.
	RedisPassword string `toml:"redis_password"`

	// RedisDB selects the redis database number.
	RedisDB int `toml:"redis_db"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`

	// MongoURI enables the persistent project store when set.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase defaults to "graphweave".
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 800, Height: 600},
		Ingest: Ingest{MultiValueSeparator: ";"},
		Cache:  CacheConfig{Backend: "file"},
		Server: Server{Addr: ":8080", MongoDatabase: "graphweave"},
	}
}

// Load reads a config file, layering it over the defaults. A missing file is
// not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDir looks for the default file name in dir.
func LoadDir(dir string) (Config, error) {
	return Load(filepath.Join(dir, DefaultFileName))
}

// Validate checks invariants the TOML schema cannot express.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive")
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis backend requires redis_addr")
	}
	return nil
}
