package template

import (
	"math"
	"strings"

	"github.com/ByLCY/redcanvas/layout"
)

// classic：白底，左上角期号，标题居上，图片放在微微左倾的圆角方框里。
func classic(c *layout.Canvas, in Input, ts layout.Typesetter) error {
	background(c, layout.White)

	if in.SeriesNumber != "" {
		st := textStyle{font: layout.FontDisplay, size: 30, lh: 36, color: neutral200}
		series, err := label(ts, st, in.SeriesNumber, 40, 40, Width-80)
		if err != nil {
			return err
		}
		c.Add(layout.TextEl(series))
	}

	els, h, err := title(in, ts, titleStyle(in, neutral900, "left"), 40, 96, Width-80)
	if err != nil {
		return err
	}

	// 方框在剩余区域内居中，边长不超过可用高度。
	area := layout.Box{X: 40, Y: 96 + h + 32, W: Width - 80}
	area.H = Height - 64 - area.Y
	side := math.Max(0, math.Min(area.W, area.H))
	sq := layout.Box{X: area.X + (area.W-side)/2, Y: area.Y + (area.H-side)/2, W: side, H: side}

	var card []layout.Element
	ring := sq.Inset(-10).Rect()
	ring.Radii = layout.Uniform(42)
	ring.Fill = fill(neutral50)
	ring.Shadow = &shadow2XL
	card = append(card, layout.RectEl(ring))
	inner := sq.Rect()
	inner.Radii = layout.Uniform(32)
	inner.Fill = fill(layout.White)
	card = append(card, layout.RectEl(inner))
	card = append(card, framed(in.Frame, sq, layout.Uniform(32), false)...)
	c.Add(layout.Rotate(-1, sq.Center(), card)...)

	// 标题在方框之上。
	c.Add(els...)
	return nil
}

// magazine：整幅圆角图片，底部压暗，白色大标题压在图上，页脚放品牌字样与徽章。
func magazine(c *layout.Canvas, in Input, ts layout.Typesetter) error {
	background(c, neutral50)

	const footer = 80.0
	panel := layout.Box{X: 24, Y: 24, W: Width - 48, H: Height - 48 - footer}
	bg := panel.Rect()
	bg.Radii = layout.Uniform(24)
	bg.Fill = fill(neutral200)
	c.Add(layout.RectEl(bg))
	c.Add(framed(in.Frame, panel, layout.Uniform(24), false)...)
	veil := panel.Rect()
	veil.Radii = layout.Uniform(24)
	veil.Gradient = &layout.Gradient{From: layout.Transparent, To: layout.Black.Alpha(0.4), Dir: layout.GradientDown}
	c.Add(layout.RectEl(veil))

	drop := &layout.Shadow{OffsetY: 25, Blur: 25, Color: layout.Black.Alpha(0.15)}
	y := 56.0
	if in.SeriesNumber != "" {
		st := textStyle{font: layout.FontLabel, size: 10, lh: 15, color: layout.White.Alpha(0.9), tracking: 5, shadow: drop}
		series, err := label(ts, st, strings.ToUpper(in.SeriesNumber), 40, y, Width-80)
		if err != nil {
			return err
		}
		c.Add(layout.TextEl(series))
		y += series.Height + 12
	}
	st := titleStyle(in, layout.White, "left")
	st.shadow = drop
	els, _, err := title(in, ts, st, 40, y, Width-80)
	if err != nil {
		return err
	}
	c.Add(els...)

	foot := layout.Box{X: 32, Y: panel.Bottom(), W: Width - 64, H: footer}
	brand := textStyle{font: layout.FontLabel, size: 9, lh: 9, color: neutral400, tracking: -0.45}
	tb, err := label(ts, brand, "REDCANVAS\nMAGAZINE 2024", foot.X, foot.Center().Y-9, foot.W/2)
	if err != nil {
		return err
	}
	c.Add(layout.TextEl(tb))

	badge := layout.Circle{CX: foot.Right() - 20, CY: foot.Center().Y, R: 20, Fill: fill(neutral900)}
	c.Add(layout.CircleEl(badge))
	mark, err := label(ts, textStyle{font: layout.FontLabel, size: 9, lh: 12, color: layout.White, align: "center"},
		"XHS", badge.CX-20, badge.CY-6, 40)
	if err != nil {
		return err
	}
	c.Add(layout.TextEl(mark))
	return nil
}

// minimal：近白底，期号、标题与圆形图片竖直居中排列。
func minimal(c *layout.Canvas, in Input, ts layout.Typesetter) error {
	background(c, layout.MustColor("#fdfdfd"))

	const (
		padX   = 48.0
		circle = 192.0
	)
	width := Width - 2*padX
	series := in.SeriesNumber
	if series == "" {
		series = "EDITORIAL"
	}
	sst := textStyle{font: layout.FontLabel, size: 10, lh: 15, color: neutral300, align: "center", tracking: 5}
	stb, err := label(ts, sst, strings.ToUpper(series), padX, 0, width)
	if err != nil {
		return err
	}
	els, th, err := title(in, ts, titleStyle(in, neutral900, "center"), padX, 0, width)
	if err != nil {
		return err
	}

	total := stb.Height + 24 + th + 48 + circle
	top := (Height - total) / 2

	stb.Y = top
	c.Add(layout.TextEl(stb))
	c.Add(shift(els, 0, top+stb.Height+24)...)

	cy := top + stb.Height + 24 + th + 48
	disc := layout.Box{X: (Width - circle) / 2, Y: cy, W: circle, H: circle}
	c.Add(layout.CircleEl(layout.Circle{
		CX: disc.Center().X, CY: disc.Center().Y, R: circle / 2,
		Fill: fill(layout.White), Shadow: &shadowXL,
	}))
	inner := disc.Inset(4)
	c.Add(layout.CircleEl(layout.Circle{CX: inner.Center().X, CY: inner.Center().Y, R: inner.W / 2, Fill: fill(neutral50)}))
	c.Add(framed(in.Frame, inner, layout.Uniform(inner.W/2), true)...)
	return nil
}

// bold：近黑底，图片铺满并压暗，标题与期号贴底。
func bold(c *layout.Canvas, in Input, ts layout.Typesetter) error {
	background(c, neutral950)

	full := layout.Box{W: Width, H: Height}
	var cover []layout.Element
	cover = append(cover, framed(in.Frame, full, layout.Corners{}, false)...)
	veil := full.Rect()
	veil.Fill = fill(layout.Black.Alpha(0.3))
	cover = append(cover, layout.RectEl(veil))
	c.Add(layout.Fade(0.4, cover)...)

	const pad = 32.0
	width := Width - 2*pad
	els, th, err := title(in, ts, titleStyle(in, layout.White, "left"), pad, 0, width)
	if err != nil {
		return err
	}
	var series layout.TextBox
	if in.SeriesNumber != "" {
		st := textStyle{font: layout.FontDisplay, size: 24, lh: 32, color: layout.White.Alpha(0.5)}
		if series, err = label(ts, st, in.SeriesNumber, pad, 0, width); err != nil {
			return err
		}
	}
	total := 4 + 24 + th
	if in.SeriesNumber != "" {
		total += 32 + series.Height
	}
	top := Height - pad - total

	bar := layout.Rect{X: pad, Y: top, Width: 48, Height: 4, Fill: fill(layout.White)}
	c.Add(layout.RectEl(bar))
	c.Add(shift(els, 0, top+28)...)
	if in.SeriesNumber != "" {
		series.Y = top + 28 + th + 32
		c.Add(layout.TextEl(series))
	}
	return nil
}

// floating：浅灰底，右上角柔光，深色期号胶囊，标题下方是右倾的 3:4 卡片。
func floating(c *layout.Canvas, in Input, ts layout.Typesetter) error {
	background(c, layout.MustColor("#f2f2f2"))

	c.Add(layout.CircleEl(layout.Circle{CX: Width, CY: 0, R: 96, Fill: fill(layout.White.Alpha(0.4)), Blur: 64}))

	const pad = 32.0
	width := Width - 2*pad
	y := pad

	cst := textStyle{font: layout.FontLabel, size: 10, lh: 15, color: layout.White, tracking: 1}
	chipText, err := label(ts, cst, in.SeriesNumber+" EDITION", pad+12, y+4, width-24)
	if err != nil {
		return err
	}
	chipW := 24.0
	if len(chipText.Lines) > 0 {
		chipW += chipText.Lines[0].Width
	}
	chip := layout.Rect{X: pad, Y: y, Width: chipW, Height: chipText.Height + 8, Radii: layout.Uniform(8), Fill: fill(neutral900)}
	c.Add(layout.RectEl(chip), layout.TextEl(chipText))
	y += chip.Height + 16

	els, th, err := title(in, ts, titleStyle(in, neutral900, "left"), pad, y, width)
	if err != nil {
		return err
	}
	y += th + 32

	card := layout.Box{X: pad, Y: y, W: width, H: width * 4 / 3}
	var group []layout.Element
	body := card.Rect()
	body.Radii = layout.Uniform(24)
	body.Fill = fill(layout.White)
	body.Shadow = &shadow2XL
	group = append(group, layout.RectEl(body))
	group = append(group, framed(in.Frame, card, layout.Uniform(24), false)...)
	c.Add(layout.Rotate(1, card.Center(), group)...)

	c.Add(els...)
	return nil
}

// shift 平移一组图元（含旋转中心）。
func shift(els []layout.Element, dx, dy float64) []layout.Element {
	out := make([]layout.Element, len(els))
	for i, el := range els {
		switch {
		case el.Rect != nil:
			r := *el.Rect
			r.X += dx
			r.Y += dy
			el.Rect = &r
		case el.Circle != nil:
			ci := *el.Circle
			ci.CX += dx
			ci.CY += dy
			el.Circle = &ci
		case el.Image != nil:
			img := *el.Image
			img.X += dx
			img.Y += dy
			el.Image = &img
		case el.Text != nil:
			tb := *el.Text
			tb.X += dx
			tb.Y += dy
			el.Text = &tb
		}
		if len(el.Rotations) > 0 {
			rs := make([]layout.Rotation, len(el.Rotations))
			for j, r := range el.Rotations {
				r.Origin.X += dx
				r.Origin.Y += dy
				rs[j] = r
			}
			el.Rotations = rs
		}
		out[i] = el
	}
	return out
}
