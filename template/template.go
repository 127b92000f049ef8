// Package template lays a card out on the fixed 3:4 canvas. Every template is
// a pure function from content to positioned primitives.
package template

import (
	"fmt"

	"github.com/ByLCY/redcanvas/editor"
	"github.com/ByLCY/redcanvas/frame"
	"github.com/ByLCY/redcanvas/highlight"
	"github.com/ByLCY/redcanvas/layout"
)

// 画布尺寸（布局单位），所有模板相同。
const (
	Width  = 420.0
	Height = 560.0
)

// TitleLineHeight 是标题行高相对字号的倍数。
const TitleLineHeight = 1.3

// TitleSize 返回模板的标题字号。
func TitleSize(id editor.TemplateID) layout.Length {
	switch id {
	case editor.TemplateMinimal:
		return layout.Px(30)
	case editor.TemplateMagazine:
		return layout.Px(48)
	case editor.TemplateBold:
		return layout.Px(60)
	default:
		return layout.Px(36)
	}
}

// Input 是模板布局所需的全部内容。
type Input struct {
	Template     editor.TemplateID
	Segments     []highlight.Segment
	SeriesNumber string
	Frame        frame.Node
	Font         editor.FontID
}

// Layout 把 in 排到一张新画布上。未注册的模板回退为 classic，
// 未注册的字体回退为 kuaile；实际使用的值记录在 Canvas.Template/Font。
func Layout(in Input, ts layout.Typesetter) (*layout.Canvas, error) {
	if ts == nil {
		return nil, fmt.Errorf("template: missing typesetter")
	}
	id := editor.TemplateOrDefault(in.Template)
	in.Template = id
	in.Font = editor.FontOrDefault(in.Font)

	c := &layout.Canvas{
		Width:    Width,
		Height:   Height,
		Template: string(id),
		Font:     string(in.Font),
	}
	var err error
	switch id {
	case editor.TemplateClassic:
		err = classic(c, in, ts)
	case editor.TemplateMagazine:
		err = magazine(c, in, ts)
	case editor.TemplateMinimal:
		err = minimal(c, in, ts)
	case editor.TemplateBold:
		err = bold(c, in, ts)
	case editor.TemplateFloating:
		err = floating(c, in, ts)
	default:
		err = classic(c, in, ts)
	}
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", id, err)
	}
	return c, nil
}

// Build 从编辑状态直接生成画布。
func Build(s editor.State, ts layout.Typesetter) (*layout.Canvas, error) {
	return Layout(Input{
		Template:     s.TemplateID,
		Segments:     highlight.Compose(s.Title, s.Highlights),
		SeriesNumber: s.SeriesNumber,
		Frame:        frame.Render(s.ImageURL, s.ImageAspectRatio, s.ShowDeviceFrame),
		Font:         s.FontFamily,
	}, ts)
}

func fill(c layout.Color) *layout.Color { return &c }

var (
	neutral50  = layout.MustColor("#fafafa")
	neutral200 = layout.MustColor("#e5e5e5")
	neutral300 = layout.MustColor("#d4d4d4")
	neutral400 = layout.MustColor("#a3a3a3")
	neutral900 = layout.MustColor("#171717")
	neutral950 = layout.MustColor("#0a0a0a")
)

// 常用投影。
var (
	shadowXL  = layout.Shadow{OffsetY: 20, Blur: 25, Color: layout.Black.Alpha(0.1)}
	shadow2XL = layout.Shadow{OffsetY: 25, Blur: 50, Color: layout.Black.Alpha(0.25)}
)

// background 铺满画布。
func background(c *layout.Canvas, col layout.Color) {
	c.Background = col
	bg := layout.Rect{Width: Width, Height: Height, Fill: fill(col)}
	c.Add(layout.RectEl(bg))
}

// framed 在 box 中展开 frame，并模拟宿主的圆角裁剪：
// 直接铺满的图片与占位背景继承 radii，round 时裁成圆形。
func framed(n frame.Node, box layout.Box, radii layout.Corners, round bool) []layout.Element {
	els := n.Layout(box)
	if n.Kind != frame.KindRaw && n.Kind != frame.KindPlaceholder {
		return els
	}
	out := make([]layout.Element, len(els))
	copy(out, els)
	first := out[0]
	switch {
	case first.Image != nil:
		img := *first.Image
		img.Radii, img.Round = radii, round
		out[0] = layout.ImageEl(img)
	case first.Rect != nil:
		r := *first.Rect
		if round {
			out[0] = layout.CircleEl(layout.Circle{CX: box.Center().X, CY: box.Center().Y, R: box.W / 2, Fill: r.Fill})
		} else {
			r.Radii = radii
			out[0] = layout.RectEl(r)
		}
	}
	return out
}
