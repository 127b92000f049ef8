package canvasrenderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/redcanvas/fonts"
	"github.com/ByLCY/redcanvas/layout"
	"github.com/ByLCY/redcanvas/renderer"
)

// ErrNoImageSource is returned when a canvas references images but the
// renderer was built without an ImageSource.
var ErrNoImageSource = errors.New("no image source configured")

// FontSource resolves a font name to TTF/OTF bytes.
type FontSource interface {
	Load(name string) ([]byte, error)
}

// ImageSource resolves an image reference to decoded pixels.
type ImageSource interface {
	Image(ref string) (image.Image, error)
}

// Renderer draws layout canvases via github.com/tdewolff/canvas.
// One layout unit is drawn as one canvas millimetre.
type Renderer struct {
	fonts  FontSource
	images ImageSource

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fontErrs       map[string]error
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Rasterizer = (*Renderer)(nil)
	_ renderer.FontWaiter = (*Renderer)(nil)
	_ layout.Typesetter   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Fonts  FontSource  // nil uses the builtin Go fonts
	Images ImageSource // may be nil when no canvas references images
}

// NewRenderer creates a renderer that only knows the builtin fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected font and image sources.
func NewRendererWithOptions(opts Options) *Renderer {
	src := opts.Fonts
	if src == nil {
		src = fonts.NewSet(nil)
	}
	return &Renderer{
		fonts:        src,
		images:       opts.Images,
		fontFamilies: map[string]*canvas.FontFamily{},
		fontErrs:     map[string]error{},
	}
}

// Ready 并发加载 names 中的所有字体。单个字体失败不影响其他字体的加载，
// 返回第一个错误；失败的字体在绘制时回退到内置字体。
func (r *Renderer) Ready(ctx context.Context, names []string) error {
	g, _ := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			_, err := r.family(name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// TextWidth 实现 layout.Typesetter：返回文本在 face 下的宽度（布局单位），含字间距。
func (r *Renderer) TextWidth(text string, face layout.Face) (float64, error) {
	f, err := r.fontFace(face.Font, face.Size, layout.Black)
	if err != nil {
		return 0, err
	}
	return f.TextWidth(text) + face.Tracking*float64(utf8.RuneCountInString(text)), nil
}

// Rasterize 实现 renderer.Rasterizer。
func (r *Renderer) Rasterize(ctx context.Context, lc *layout.Canvas, opts renderer.Options) (renderer.Output, error) {
	if lc == nil {
		return renderer.Output{}, fmt.Errorf("画布为空")
	}
	if lc.Width <= 0 || lc.Height <= 0 {
		return renderer.Output{}, fmt.Errorf("画布尺寸无效: %gx%g", lc.Width, lc.Height)
	}
	if err := ctx.Err(); err != nil {
		return renderer.Output{}, err
	}
	c, err := r.Draw(lc, opts.Background, opts.Scale)
	if err != nil {
		return renderer.Output{}, err
	}

	var buf bytes.Buffer
	out := renderer.Output{Format: opts.Format}
	switch opts.Format {
	case renderer.PDF:
		writer := pdf.New(&buf, lc.Width, lc.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return renderer.Output{}, fmt.Errorf("写入 PDF 失败: %w", err)
		}
		out.Width, out.Height = int(math.Round(lc.Width)), int(math.Round(lc.Height))
	case renderer.SVG:
		writer := svg.New(&buf, lc.Width, lc.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return renderer.Output{}, fmt.Errorf("写入 SVG 失败: %w", err)
		}
		out.Width, out.Height = int(math.Round(lc.Width)), int(math.Round(lc.Height))
	default:
		scale := opts.Scale
		if scale <= 0 {
			scale = 1
		}
		img := rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace)
		format, encOpts := imaging.PNG, []imaging.EncodeOption(nil)
		if opts.Format == renderer.JPEG {
			q := opts.Quality
			if q <= 0 {
				q = 90
			}
			format, encOpts = imaging.JPEG, []imaging.EncodeOption{imaging.JPEGQuality(q)}
		} else {
			out.Format = renderer.PNG
		}
		if err := imaging.Encode(&buf, img, format, encOpts...); err != nil {
			return renderer.Output{}, fmt.Errorf("编码 %s 失败: %w", out.Format, err)
		}
		b := img.Bounds()
		out.Width, out.Height = b.Dx(), b.Dy()
	}
	out.Data = buf.Bytes()
	return out, nil
}

// Draw 把布局画布绘制到一张新的 canvas.Canvas 上。scale 用于确定图片的采样分辨率。
func (r *Renderer) Draw(lc *layout.Canvas, bg layout.Color, scale float64) (*canvas.Canvas, error) {
	c := canvas.New(lc.Width, lc.Height)
	ctx := canvas.NewContext(c)
	d := &drawer{r: r, ctx: ctx, h: lc.Height, scale: scale}
	if scale <= 0 {
		d.scale = 1
	}
	if !bg.IsTransparent() {
		d.fillRect(layout.Rect{Width: lc.Width, Height: lc.Height, Fill: &bg})
	}
	for i, el := range lc.Elements {
		if err := d.element(el); err != nil {
			return nil, fmt.Errorf("绘制图元 %d (%s) 失败: %w", i, el.Kind(), err)
		}
	}
	return c, nil
}

// fontFace 的 size 为布局单位；canvas 的字体面以 pt 为单位，这里做一次 mm→pt。
func (r *Renderer) fontFace(name string, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.family(name)
	if err != nil {
		family, err = r.fallback()
		if err != nil {
			return nil, err
		}
	}
	return family.Face(toPt(size), colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

// family 加载并缓存字体；加载失败同样缓存，避免每次测量都重新读取文件。
func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	if f, ok := r.fontFamilies[name]; ok {
		r.fontMu.Unlock()
		return f, nil
	}
	if err, ok := r.fontErrs[name]; ok {
		r.fontMu.Unlock()
		return nil, err
	}
	r.fontMu.Unlock()

	family, err := loadFamily(r.fonts, name)

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if err != nil {
		r.fontErrs[name] = err
		return nil, err
	}
	if f, ok := r.fontFamilies[name]; ok {
		return f, nil
	}
	r.fontFamilies[name] = family
	return family, nil
}

func loadFamily(src FontSource, name string) (*canvas.FontFamily, error) {
	data, err := src.Load(name)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	return family, nil
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Builtin(fonts.Fallback)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("redcanvas-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: uint8(c.A)}
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
