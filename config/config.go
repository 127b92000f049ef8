// Package config loads the TOML configuration of the redcanvas CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/redcanvas/layout"
	"github.com/ByLCY/redcanvas/renderer"
)

// Duration is a time.Duration written as a string ("600ms") in TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the whole file.
type Config struct {
	Export Export            `toml:"export"`
	Fonts  map[string]string `toml:"fonts"`
	Cache  Cache             `toml:"cache"`
	Fetch  Fetch             `toml:"fetch"`
}

type Export struct {
	Scale        float64  `toml:"scale"`
	Settle       Duration `toml:"settle"`
	ReleaseDelay Duration `toml:"release_delay"`
	Format       string   `toml:"format"`
	Quality      int      `toml:"quality"`
	OutputDir    string   `toml:"output_dir"`
	Background   string   `toml:"background"`
}

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"` // empty: <user cache dir>/redcanvas
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

type Fetch struct {
	Timeout Duration `toml:"timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Export: Export{
			Scale:        2.5,
			Settle:       Duration{600 * time.Millisecond},
			ReleaseDelay: Duration{500 * time.Millisecond},
			Format:       string(renderer.PNG),
			Quality:      92,
			OutputDir:    ".",
			Background:   "#ffffff",
		},
		Fonts: map[string]string{},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Fetch: Fetch{Timeout: Duration{15 * time.Second}},
	}
}

// DefaultPath returns <user config dir>/redcanvas/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "redcanvas", "config.toml")
}

// Load reads path on top of Default. An empty path tries DefaultPath and
// silently keeps the defaults when that file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("配置 %s 含有未知字段: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("配置 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Export.Scale <= 0 {
		return fmt.Errorf("export.scale 必须大于 0: %g", c.Export.Scale)
	}
	if c.Export.Settle.Duration < 0 || c.Export.ReleaseDelay.Duration < 0 {
		return errors.New("export.settle 与 export.release_delay 不能为负")
	}
	if _, err := renderer.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.Export.Quality < 0 || c.Export.Quality > 100 {
		return fmt.Errorf("export.quality 超出范围: %d", c.Export.Quality)
	}
	if _, err := layout.ParseColor(c.Export.Background); err != nil {
		return fmt.Errorf("export.background: %w", err)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.backend = redis 需要 cache.redis_addr")
		}
	default:
		return fmt.Errorf("未知的 cache.backend: %q", c.Cache.Backend)
	}
	return nil
}

// Format returns the parsed export format.
func (c Config) Format() renderer.Format {
	f, err := renderer.ParseFormat(c.Export.Format)
	if err != nil {
		return renderer.PNG
	}
	return f
}

// Background returns the parsed background colour, white when invalid.
func (c Config) Background() layout.Color {
	return layout.ColorOr(c.Export.Background, layout.White)
}

// CacheDir resolves the file cache directory.
func (c Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "redcanvas")
	}
	return filepath.Join(dir, "redcanvas")
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
