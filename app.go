package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/redcanvas/asset"
	"github.com/ByLCY/redcanvas/cache"
	"github.com/ByLCY/redcanvas/config"
)

// app holds what every command shares.
type app struct {
	out    io.Writer
	errOut io.Writer
	logger *log.Logger

	verbose    bool
	configPath string
	cfg        config.Config
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		logger: log.NewWithOptions(errOut, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.InfoLevel,
		}),
		cfg: config.Default(),
	}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "redcanvas",
		Short:         "Compose cover cards and export them as images",
		Long:          "redcanvas lays out a title with highlighted keywords, a cover image and a series tag into one of five 3:4 templates and exports the card as PNG, JPEG, PDF or SVG.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(a.renderCommand())
	root.AddCommand(a.initCommand())
	root.AddCommand(a.templatesCommand())
	root.AddCommand(a.fontsCommand())
	return root
}

// newCache builds the configured backend; noCache forces the null cache.
func (a *app) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch a.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: a.cfg.Cache.RedisAddr, DB: a.cfg.Cache.RedisDB})
		if err != nil {
			return nil, err
		}
		a.logger.Debug("using redis cache", "addr", a.cfg.Cache.RedisAddr)
		return c, nil
	}
	dir := a.cfg.CacheDir()
	c, err := cache.NewFileCache(dir)
	if err != nil {
		// 缓存不可用不影响渲染
		a.logger.Warn("file cache unavailable, continuing without cache", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	a.logger.Debug("using file cache", "dir", dir)
	return c, nil
}

func (a *app) newRegistry(c cache.Cache, baseDir string) *asset.Registry {
	return asset.NewRegistry(asset.Options{
		Cache:    c,
		CacheTTL: a.cfg.Cache.TTL.Duration,
		Timeout:  a.cfg.Fetch.Timeout.Duration,
		BaseDir:  baseDir,
		Logger:   a.logger,
	})
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
