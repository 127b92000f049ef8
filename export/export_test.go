package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/redcanvas/layout"
	"github.com/ByLCY/redcanvas/renderer"
)

// recorder 记录流水线各步骤的调用顺序。
type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.steps...)
}

type fakeFonts struct {
	rec *recorder
	err error
}

func (f fakeFonts) Ready(ctx context.Context, fonts []string) error {
	f.rec.add("fonts")
	return f.err
}

type fakeSettler struct{ rec *recorder }

func (s fakeSettler) Settle(ctx context.Context) error {
	s.rec.add("settle")
	return ctx.Err()
}

type fakeRasterizer struct {
	rec   *recorder
	out   renderer.Output
	err   error
	panic bool
	block chan struct{}
	opts  renderer.Options
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, c *layout.Canvas, opts renderer.Options) (renderer.Output, error) {
	f.rec.add("rasterize")
	f.opts = opts
	if f.block != nil {
		<-f.block
	}
	if f.panic {
		panic("boom")
	}
	return f.out, f.err
}

type fakeDeliverer struct {
	rec  *recorder
	name string
	err  error
}

func (d *fakeDeliverer) Deliver(ctx context.Context, name string, data []byte) (string, error) {
	d.rec.add("deliver")
	d.name = name
	return "/out/" + name, d.err
}

type fakeAssets struct {
	rec      *recorder
	released chan struct{}
}

func (a *fakeAssets) Hold(ctx context.Context, refs []string) (func(), error) {
	a.rec.add("hold")
	ch := a.released
	return func() {
		a.rec.add("release")
		close(ch)
	}, nil
}

type messages struct {
	mu   sync.Mutex
	msgs []string
}

func (m *messages) Notify(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *messages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

type fixture struct {
	rec     *recorder
	exp     *Exporter
	raster  *fakeRasterizer
	deliver *fakeDeliverer
	assets  *fakeAssets
	notes   *messages
	busyLog []bool
	busyMu  sync.Mutex
	canvas  *layout.Canvas
	stamp   time.Time
}

func newFixture() *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:     rec,
		raster:  &fakeRasterizer{rec: rec, out: renderer.Output{Data: []byte("png"), Format: renderer.PNG, Width: 1050, Height: 1400}},
		deliver: &fakeDeliverer{rec: rec},
		assets:  &fakeAssets{rec: rec, released: make(chan struct{})},
		notes:   &messages{},
		canvas:  &layout.Canvas{Width: 420, Height: 560, Resources: layout.Resources{Fonts: []string{"kuaile"}, Images: []string{"a.png"}}},
		stamp:   time.UnixMilli(1700000000123),
	}
	f.exp = &Exporter{
		Fonts:      fakeFonts{rec: rec},
		Settler:    fakeSettler{rec: rec},
		Rasterizer: f.raster,
		Deliverer:  f.deliver,
		Notifier:   f.notes,
		Assets:     f.assets,
		Options:    Options{ReleaseDelay: 10 * time.Millisecond},
		Now:        func() time.Time { return f.stamp },
		OnBusy: func(b bool) {
			f.busyMu.Lock()
			defer f.busyMu.Unlock()
			f.busyLog = append(f.busyLog, b)
		},
	}
	return f
}

func (f *fixture) waitReleased(t *testing.T) {
	t.Helper()
	select {
	case <-f.assets.released:
	case <-time.After(2 * time.Second):
		t.Fatal("held images were never released")
	}
}

func TestExportRunsStepsInOrder(t *testing.T) {
	f := newFixture()
	art, err := f.exp.Export(context.Background(), f.canvas)
	require.NoError(t, err)
	require.Equal(t, "redcanvas-1700000000123.png", art.Name)
	require.Equal(t, "/out/redcanvas-1700000000123.png", art.Path)
	require.Equal(t, 1050, art.Width)
	require.Equal(t, 1400, art.Height)
	require.Equal(t, 3, art.Bytes)

	// 固定 2.5 倍、白色背景
	require.Equal(t, 2.5, f.raster.opts.Scale)
	require.Equal(t, layout.White, f.raster.opts.Background)

	require.False(t, f.exp.Busy())
	f.waitReleased(t)
	require.Equal(t, []string{"hold", "fonts", "settle", "rasterize", "deliver", "release"}, f.rec.get())
	require.Equal(t, []bool{true, false}, f.busyLog)
	require.Zero(t, f.notes.count())
}

func TestEmptyImageReportsOnceAndClearsBusy(t *testing.T) {
	f := newFixture()
	f.raster.out = renderer.Output{}
	_, err := f.exp.Export(context.Background(), f.canvas)
	require.ErrorIs(t, err, ErrEmptyImage)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, StageRasterize, failure.Stage)

	require.False(t, f.exp.Busy())
	require.Equal(t, []bool{true, false}, f.busyLog)
	require.Equal(t, 1, f.notes.count())
	require.Equal(t, UserMessage, f.notes.msgs[0])
	require.NotContains(t, f.rec.get(), "deliver")
	f.waitReleased(t)
}

func TestRasterizerErrorAndPanicAreFailures(t *testing.T) {
	f := newFixture()
	f.raster.err = errors.New("no gpu")
	_, err := f.exp.Export(context.Background(), f.canvas)
	require.True(t, IsFailure(err))
	require.Equal(t, 1, f.notes.count())

	g := newFixture()
	g.raster.panic = true
	_, err = g.exp.Export(context.Background(), g.canvas)
	require.True(t, IsFailure(err))
	require.Equal(t, 1, g.notes.count())
	require.False(t, g.exp.Busy())
}

func TestDeliveryFailure(t *testing.T) {
	f := newFixture()
	f.deliver.err = errors.New("disk full")
	_, err := f.exp.Export(context.Background(), f.canvas)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, StageDeliver, failure.Stage)
	require.Equal(t, 1, f.notes.count())
}

// 缺少光栅化或交付组件同样走统一的失败提示。
func TestMissingStageIsFailure(t *testing.T) {
	f := newFixture()
	f.exp.Rasterizer = nil
	_, err := f.exp.Export(context.Background(), f.canvas)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, StageRasterize, failure.Stage)
	require.ErrorIs(t, err, ErrNotConfigured)
	require.Equal(t, 1, f.notes.count())
	require.False(t, f.exp.Busy())

	g := newFixture()
	g.exp.Deliverer = nil
	_, err = g.exp.Export(context.Background(), g.canvas)
	require.ErrorAs(t, err, &failure)
	require.Equal(t, StageDeliver, failure.Stage)
	require.Equal(t, 1, g.notes.count())
}

// 字体未就绪只记录警告，导出继续。
func TestFontErrorIsBestEffort(t *testing.T) {
	f := newFixture()
	f.exp.Fonts = fakeFonts{rec: f.rec, err: errors.New("font missing")}
	_, err := f.exp.Export(context.Background(), f.canvas)
	require.NoError(t, err)
	require.Zero(t, f.notes.count())
}

func TestOverlappingExportIsRejected(t *testing.T) {
	f := newFixture()
	f.raster.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.exp.Export(context.Background(), f.canvas)
		done <- err
	}()
	require.Eventually(t, f.exp.Busy, time.Second, time.Millisecond)

	_, err := f.exp.Export(context.Background(), f.canvas)
	require.ErrorIs(t, err, ErrBusy)
	require.Zero(t, f.notes.count())

	close(f.raster.block)
	require.NoError(t, <-done)
	require.False(t, f.exp.Busy())

	// 第一次完成后可以再次导出
	f.assets.released = make(chan struct{})
	f.raster.block = nil
	_, err = f.exp.Export(context.Background(), f.canvas)
	require.NoError(t, err)
}

func TestCancelledSettleIsNotReported(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.exp.Export(ctx, f.canvas)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, IsFailure(err))
	require.Zero(t, f.notes.count())
	require.False(t, f.exp.Busy())
}

func TestDelaySettler(t *testing.T) {
	start := time.Now()
	require.NoError(t, DelaySettler{Delay: 20 * time.Millisecond}.Settle(context.Background()))
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, DelaySettler{Delay: time.Hour}.Settle(ctx), context.Canceled)
	require.NoError(t, NopSettler{}.Settle(context.Background()))
}

func TestFileDeliverer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := FileDeliverer{Dir: dir}.Deliver(context.Background(), "redcanvas-1.png", []byte("data"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "redcanvas-1.png"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "data", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileNameUsesFormatExtension(t *testing.T) {
	ts := time.UnixMilli(42)
	require.Equal(t, "redcanvas-42.png", FileName(ts, renderer.PNG))
	require.Equal(t, "redcanvas-42.jpg", FileName(ts, renderer.JPEG))
	require.Equal(t, "redcanvas-42.pdf", FileName(ts, renderer.PDF))
}
