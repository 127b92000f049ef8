// Package export turns a laid-out card into a file.
//
// One Export call runs, strictly in order: hold the images the card uses,
// wait for fonts, settle, rasterize at a fixed density on an opaque
// background, deliver as redcanvas-<unix-millis>.<ext>, and release the
// held images a little later. Any failure after the fonts step produces a
// single user-facing message. The busy flag is cleared on every exit path.
package export

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/redcanvas/layout"
	"github.com/ByLCY/redcanvas/renderer"
)

// Product prefixes every exported file name.
const Product = "redcanvas"

const (
	DefaultScale        = 2.5
	DefaultReleaseDelay = 500 * time.Millisecond
)

// Retainer keeps images alive while the exporter uses them.
type Retainer interface {
	Hold(ctx context.Context, refs []string) (release func(), err error)
}

// Options are the per-exporter output settings.
type Options struct {
	Scale        float64      // default 2.5
	Background   layout.Color // transparent means white
	Format       renderer.Format
	Quality      int
	ReleaseDelay time.Duration // negative releases immediately; zero means 500ms
}

// Artifact describes a delivered file.
type Artifact struct {
	Name   string
	Path   string
	Format renderer.Format
	Bytes  int
	Width  int
	Height int
}

// Exporter runs the pipeline. The zero value is not usable; Rasterizer and
// Deliverer are required.
type Exporter struct {
	Fonts      renderer.FontWaiter
	Settler    Settler
	Rasterizer renderer.Rasterizer
	Deliverer  Deliverer
	Notifier   Notifier
	Assets     Retainer
	Logger     *log.Logger
	Options    Options

	// OnBusy is called with true when an export starts and false when it ends.
	OnBusy func(busy bool)
	// Now stamps file names; defaults to time.Now.
	Now func() time.Time

	busy atomic.Bool
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool { return e.busy.Load() }

// FileName returns the delivered name for a given time and format.
func FileName(t time.Time, f renderer.Format) string {
	return fmt.Sprintf("%s-%d.%s", Product, t.UnixMilli(), f.Ext())
}

// Export renders c and delivers it. A second call while one is running
// returns ErrBusy without touching anything.
func (e *Exporter) Export(ctx context.Context, c *layout.Canvas) (art Artifact, err error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Artifact{}, ErrBusy
	}
	e.setBusy(true)
	defer func() {
		e.busy.Store(false)
		e.setBusy(false)
	}()

	logger := e.logger()
	opts := e.options()

	release := func() {}
	defer func() {
		e.releaseLater(release)
		if err != nil && IsFailure(err) {
			logger.Error("export failed", "err", err)
			if e.Notifier != nil {
				e.Notifier.Notify(UserMessage)
			}
		}
	}()
	// 光栅化阶段的 panic 也按失败处理
	defer func() {
		if p := recover(); p != nil {
			err = &Failure{Stage: StageRasterize, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	if c == nil {
		return Artifact{}, &Failure{Stage: StageRasterize, Err: fmt.Errorf("画布为空")}
	}
	if e.Rasterizer == nil {
		return Artifact{}, &Failure{Stage: StageRasterize, Err: fmt.Errorf("%w: rasterizer", ErrNotConfigured)}
	}
	if e.Deliverer == nil {
		return Artifact{}, &Failure{Stage: StageDeliver, Err: fmt.Errorf("%w: deliverer", ErrNotConfigured)}
	}

	if e.Assets != nil && len(c.Resources.Images) > 0 {
		rel, err := e.Assets.Hold(ctx, c.Resources.Images)
		if err != nil {
			return Artifact{}, &Failure{Stage: StageAssets, Err: err}
		}
		release = rel
	}

	if e.Fonts != nil {
		start := time.Now()
		if err := e.Fonts.Ready(ctx, c.Resources.Fonts); err != nil {
			logger.Warn("fonts not ready, continuing with fallback glyphs", "err", err)
		} else {
			logger.Debug("fonts ready", "fonts", c.Resources.Fonts, "took", time.Since(start).Round(time.Millisecond))
		}
	}

	settler := e.Settler
	if settler == nil {
		settler = DelaySettler{Delay: DefaultSettle}
	}
	if err := settler.Settle(ctx); err != nil {
		return Artifact{}, err
	}

	out, err := e.Rasterizer.Rasterize(ctx, c, renderer.Options{
		Scale:      opts.Scale,
		Background: opts.Background,
		Format:     opts.Format,
		Quality:    opts.Quality,
	})
	if err != nil {
		return Artifact{}, &Failure{Stage: StageRasterize, Err: err}
	}
	if len(out.Data) == 0 {
		return Artifact{}, &Failure{Stage: StageRasterize, Err: ErrEmptyImage}
	}
	format := out.Format
	if format == "" {
		format = opts.Format
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	name := FileName(now(), format)
	path, err := e.Deliverer.Deliver(ctx, name, out.Data)
	if err != nil {
		return Artifact{}, &Failure{Stage: StageDeliver, Err: err}
	}
	art = Artifact{Name: name, Path: path, Format: format, Bytes: len(out.Data), Width: out.Width, Height: out.Height}
	logger.Info("exported", "path", path, "bytes", art.Bytes, "size", fmt.Sprintf("%dx%d", art.Width, art.Height))
	return art, nil
}

func (e *Exporter) setBusy(b bool) {
	if e.OnBusy != nil {
		e.OnBusy(b)
	}
}

func (e *Exporter) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

func (e *Exporter) options() Options {
	o := e.Options
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Background.IsTransparent() {
		o.Background = layout.White
	}
	if o.Format == "" {
		o.Format = renderer.PNG
	}
	if o.ReleaseDelay == 0 {
		o.ReleaseDelay = DefaultReleaseDelay
	}
	return o
}

// releaseLater drops the held images once the delay has passed, after
// whoever consumes the delivered file has had a chance to read it.
func (e *Exporter) releaseLater(release func()) {
	delay := e.options().ReleaseDelay
	if delay < 0 {
		release()
		return
	}
	time.AfterFunc(delay, release)
}
