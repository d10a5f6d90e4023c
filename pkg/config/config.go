// Package config loads driftgrid settings from TOML.
//
// A settings file has one table per concern. Every key is optional; omitted
// keys keep the values from [Default]:
//
//	[grid]
//	tile_size = 200.0
//	gap = 50.0
//	columns = 15
//	rows = 10
//
//	[effect]
//	fade_start = 0.3
//	fade_end = 0.9
//	min_opacity = 0.4     # 0.4 or higher
//	stretch_factor = 0.005 # must be positive
//
//	[viewport]
//	width = 1280.0
//	height = 800.0
//
//	[inertia]
//	resistance = 4.0
//	sample_window = "100ms"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//
//	[cache]
//	backend = "file"
//
// Unknown keys are rejected so typos surface instead of silently falling back
// to defaults. A small set of environment variables (see [ApplyEnv])
// overrides deployment settings after the file is read.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/driftgrid/pkg/cache"
	"github.com/matzehuels/driftgrid/pkg/effect"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/grid"
	"github.com/matzehuels/driftgrid/pkg/input"
)

// AppName names the config and cache directories.
const AppName = "driftgrid"

// Cache backends.
const (
	BackendFile  = cache.BackendFile
	BackendRedis = cache.BackendRedis
	BackendMongo = cache.BackendMongo
	BackendNone  = cache.BackendNone
)

// File is the complete settings document.
type File struct {
	Grid     grid.Config          `toml:"grid"`
	Effect   effect.Model         `toml:"effect"`
	Viewport effect.FixedViewport `toml:"viewport"`
	Inertia  Inertia              `toml:"inertia"`
	Server   Server               `toml:"server"`
	Cache    Cache                `toml:"cache"`
}

// Inertia is the TOML form of [input.Inertia].
type Inertia struct {
	Resistance   float64  `toml:"resistance"`
	MinSpeed     float64  `toml:"min_speed"`
	SampleWindow Duration `toml:"sample_window"`
}

// Params converts to the input package's parameters.
func (in Inertia) Params() input.Inertia {
	return input.Inertia{
		Resistance:   in.Resistance,
		MinSpeed:     in.MinSpeed,
		SampleWindow: in.SampleWindow.Std(),
	}
}

// Server configures the HTTP API.
type Server struct {
	Addr            string   `toml:"addr"`
	SessionTTL      Duration `toml:"session_ttl"`
	MaxSessions     int      `toml:"max_sessions"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Cache configures where rendered snapshots are stored.
type Cache struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	TTL             Duration `toml:"ttl"`
	RedisURL        string   `toml:"redis_url"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// Options converts to [cache.Options]. dir is used when no directory is
// configured.
func (c Cache) Options(dir string) cache.Options {
	if c.Dir != "" {
		dir = c.Dir
	}
	return cache.Options{
		Backend:         c.Backend,
		Dir:             dir,
		RedisURL:        c.RedisURL,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
	}
}

// Default returns the built-in settings.
func Default() File {
	in := input.DefaultInertia()
	return File{
		Grid:     grid.DefaultConfig(),
		Effect:   effect.Default(),
		Viewport: effect.FixedViewport{Width: 1280, Height: 800},
		Inertia: Inertia{
			Resistance:   in.Resistance,
			MinSpeed:     in.MinSpeed,
			SampleWindow: Duration(in.SampleWindow),
		},
		Server: Server{
			Addr:            ":8080",
			SessionTTL:      Duration(30 * time.Minute),
			MaxSessions:     1000,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Cache: Cache{
			Backend:         BackendFile,
			TTL:             Duration(24 * time.Hour),
			MongoDatabase:   AppName,
			MongoCollection: "snapshots",
		},
	}
}

// Validate checks every section.
func (f File) Validate() error {
	if err := f.Grid.Validate(); err != nil {
		return err
	}
	if err := f.Effect.Validate(); err != nil {
		return err
	}
	if err := derrors.ValidateFinite(derrors.ErrCodeInvalidConfig, "viewport.width", f.Viewport.Width); err != nil {
		return err
	}
	if err := derrors.ValidateFinite(derrors.ErrCodeInvalidConfig, "viewport.height", f.Viewport.Height); err != nil {
		return err
	}
	if f.Viewport.Width < 0 || f.Viewport.Height < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "viewport must not be negative, got %vx%v", f.Viewport.Width, f.Viewport.Height)
	}
	if err := f.Inertia.Params().Validate(); err != nil {
		return err
	}
	if f.Server.Addr == "" {
		return derrors.New(derrors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if f.Server.SessionTTL <= 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "server.session_ttl must be positive, got %v", f.Server.SessionTTL)
	}
	if f.Server.MaxSessions <= 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "server.max_sessions must be positive, got %d", f.Server.MaxSessions)
	}
	backends := []string{BackendFile, BackendRedis, BackendMongo, BackendNone}
	if !slices.Contains(backends, f.Cache.Backend) {
		return derrors.New(derrors.ErrCodeInvalidConfig, "cache.backend must be one of %s, got %q", strings.Join(backends, ", "), f.Cache.Backend)
	}
	if f.Cache.Backend == BackendRedis && f.Cache.RedisURL == "" {
		return derrors.New(derrors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if f.Cache.Backend == BackendMongo && f.Cache.MongoURI == "" {
		return derrors.New(derrors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
	}
	return nil
}

// Decode reads TOML from r on top of [Default]. Unknown keys are an error.
func Decode(r io.Reader) (File, error) {
	f := Default()
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return File{}, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, derrors.New(derrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return f, nil
}

// Load reads path, applies environment overrides and validates the result.
// An empty path falls back to [DefaultPath] when that file exists, and to
// the built-in defaults otherwise.
func Load(path string) (File, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return finish(Default())
		}
		path = p
	}

	fh, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return finish(Default())
	}
	if err != nil {
		return File{}, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return File{}, err
	}
	return finish(f)
}

func finish(f File) (File, error) {
	f = ApplyEnv(f, os.LookupEnv)
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Encode writes f as TOML.
func (f File) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return derrors.Wrap(derrors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/driftgrid/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}
