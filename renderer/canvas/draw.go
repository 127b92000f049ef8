package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/redcanvas/layout"
)

// kappa 为用三次贝塞尔近似四分之一圆弧时的控制点比例。
const kappa = 0.5522847498

// 投影与模糊用若干层半透明形状叠加近似。
const (
	shadowLayers     = 8
	blurLayers       = 6
	gradientSteps    = 64
	textShadowLayers = 4
)

var transparent = color.RGBA{}

// drawer 在默认的 y 轴向上坐标系中绘制，布局坐标（y 向下）通过 fy 翻转。
type drawer struct {
	r     *Renderer
	ctx   *canvas.Context
	h     float64
	scale float64
}

func (d *drawer) fy(y float64) float64 { return d.h - y }

func (d *drawer) element(el layout.Element) error {
	if len(el.Rotations) > 0 {
		d.ctx.Push()
		defer d.ctx.Pop()
		// 最外层的旋转最先作用到视图矩阵上。
		for i := len(el.Rotations) - 1; i >= 0; i-- {
			rot := el.Rotations[i]
			d.ctx.RotateAbout(-rot.Deg, rot.Origin.X, d.fy(rot.Origin.Y))
		}
	}
	switch {
	case el.Rect != nil:
		d.rect(*el.Rect)
	case el.Circle != nil:
		d.circle(*el.Circle)
	case el.Image != nil:
		return d.image(*el.Image)
	case el.Text != nil:
		return d.text(*el.Text)
	default:
		return fmt.Errorf("空图元")
	}
	return nil
}

// roundedPath 返回屏幕坐标下 (x,y,w,h) 圆角矩形的路径（已翻转到绘制坐标）。
func (d *drawer) roundedPath(x, y, w, h float64, radii layout.Corners) *canvas.Path {
	rc := radii.Clamp(w, h)
	p := &canvas.Path{}
	move := func(px, py float64) { p.MoveTo(px, d.fy(py)) }
	line := func(px, py float64) { p.LineTo(px, d.fy(py)) }
	curve := func(c1x, c1y, c2x, c2y, px, py float64) {
		p.CubeTo(c1x, d.fy(c1y), c2x, d.fy(c2y), px, d.fy(py))
	}

	move(x+rc.TL, y)
	line(x+w-rc.TR, y)
	if rc.TR > 0 {
		curve(x+w-rc.TR+kappa*rc.TR, y, x+w, y+rc.TR-kappa*rc.TR, x+w, y+rc.TR)
	}
	line(x+w, y+h-rc.BR)
	if rc.BR > 0 {
		curve(x+w, y+h-rc.BR+kappa*rc.BR, x+w-rc.BR+kappa*rc.BR, y+h, x+w-rc.BR, y+h)
	}
	line(x+rc.BL, y+h)
	if rc.BL > 0 {
		curve(x+rc.BL-kappa*rc.BL, y+h, x, y+h-rc.BL+kappa*rc.BL, x, y+h-rc.BL)
	}
	line(x, y+rc.TL)
	if rc.TL > 0 {
		curve(x, y+rc.TL-kappa*rc.TL, x+rc.TL-kappa*rc.TL, y, x+rc.TL, y)
	}
	p.Close()
	return p
}

func (d *drawer) fillPath(p *canvas.Path, fill layout.Color) {
	d.ctx.SetFillColor(colorFromLayout(fill))
	d.ctx.SetStrokeColor(transparent)
	d.ctx.SetStrokeWidth(0)
	d.ctx.DrawPath(0, 0, p)
}

func (d *drawer) strokePath(p *canvas.Path, stroke layout.Color, width float64) {
	d.ctx.SetFillColor(transparent)
	d.ctx.SetStrokeColor(colorFromLayout(stroke))
	d.ctx.SetStrokeWidth(width)
	d.ctx.DrawPath(0, 0, p)
}

// fillRect 只做纯色填充，用于铺底。
func (d *drawer) fillRect(rc layout.Rect) {
	if rc.Fill == nil || rc.Fill.IsTransparent() {
		return
	}
	d.fillPath(d.roundedPath(rc.X, rc.Y, rc.Width, rc.Height, rc.Radii), *rc.Fill)
}

func (d *drawer) rect(rc layout.Rect) {
	if rc.Width <= 0 || rc.Height <= 0 {
		return
	}
	if rc.Shadow != nil {
		d.shadow(rc.X, rc.Y, rc.Width, rc.Height, rc.Radii, *rc.Shadow)
	}
	if rc.Fill != nil && !rc.Fill.IsTransparent() {
		if rc.Blur > 0 {
			d.blurred(rc.X, rc.Y, rc.Width, rc.Height, rc.Radii, *rc.Fill, rc.Blur)
		} else {
			d.fillRect(rc)
		}
	}
	if rc.Gradient != nil {
		d.gradient(rc)
	}
	if rc.StrokeWidth > 0 && !rc.StrokeColor.IsTransparent() {
		// 描边落在矩形内侧，与 border-box 一致。
		half := rc.StrokeWidth / 2
		r := rc.Radii
		r = layout.Corners{TL: math.Max(0, r.TL-half), TR: math.Max(0, r.TR-half), BR: math.Max(0, r.BR-half), BL: math.Max(0, r.BL-half)}
		d.strokePath(d.roundedPath(rc.X+half, rc.Y+half, rc.Width-rc.StrokeWidth, rc.Height-rc.StrokeWidth, r), rc.StrokeColor, rc.StrokeWidth)
	}
}

func (d *drawer) circle(c layout.Circle) {
	if c.R <= 0 {
		return
	}
	x, y, size := c.CX-c.R, c.CY-c.R, 2*c.R
	round := layout.Uniform(c.R)
	if c.Shadow != nil {
		d.shadow(x, y, size, size, round, *c.Shadow)
	}
	if c.Fill != nil && !c.Fill.IsTransparent() {
		if c.Blur > 0 {
			d.blurred(x, y, size, size, round, *c.Fill, c.Blur)
		} else {
			d.fillPath(d.roundedPath(x, y, size, size, round), *c.Fill)
		}
	}
	if c.StrokeWidth > 0 && !c.StrokeColor.IsTransparent() {
		half := c.StrokeWidth / 2
		inner := c.R - half
		d.strokePath(d.roundedPath(c.CX-inner, c.CY-inner, 2*inner, 2*inner, layout.Uniform(inner)), c.StrokeColor, c.StrokeWidth)
	}
}

// shadow 以向外扩展、逐层变淡的形状近似高斯投影。
func (d *drawer) shadow(x, y, w, h float64, radii layout.Corners, s layout.Shadow) {
	if s.Color.IsTransparent() {
		return
	}
	x, y = x+s.OffsetX, y+s.OffsetY
	if s.Blur <= 0 {
		d.fillPath(d.roundedPath(x, y, w, h, radii), s.Color)
		return
	}
	layer := s.Color.Fade(1.0 / shadowLayers)
	for i := shadowLayers; i >= 1; i-- {
		g := s.Blur / 2 * float64(i) / shadowLayers
		d.fillPath(d.roundedPath(x-g, y-g, w+2*g, h+2*g, grow(radii, g)), layer)
	}
}

// blurred 绘制边缘柔化的填充：中心不透明，向外逐层变淡。
func (d *drawer) blurred(x, y, w, h float64, radii layout.Corners, fill layout.Color, blur float64) {
	layer := fill.Fade(1.0 / blurLayers)
	for i := blurLayers - 1; i >= 0; i-- {
		g := blur * (float64(i)/blurLayers - 0.5)
		if w+2*g <= 0 || h+2*g <= 0 {
			continue
		}
		d.fillPath(d.roundedPath(x-g, y-g, w+2*g, h+2*g, grow(radii, g)), layer)
	}
}

func grow(c layout.Corners, g float64) layout.Corners {
	add := func(v float64) float64 { return math.Max(0, v+g) }
	return layout.Corners{TL: add(c.TL), TR: add(c.TR), BR: add(c.BR), BL: add(c.BL)}
}

// gradient 用细条带近似线性渐变。条带按圆角内缩，保证不越出圆角轮廓。
func (d *drawer) gradient(rc layout.Rect) {
	g := rc.Gradient
	radii := rc.Radii.Clamp(rc.Width, rc.Height)
	vertical := g.Dir != layout.GradientLeft
	length := rc.Height
	if !vertical {
		length = rc.Width
	}
	step := length / gradientSteps
	for i := 0; i < gradientSteps; i++ {
		t := (float64(i) + 0.5) / gradientSteps
		if g.Dir == layout.GradientUp || g.Dir == layout.GradientLeft {
			t = 1 - t
		}
		col := mix(g.From, g.To, t)
		if col.IsTransparent() {
			continue
		}
		a, b := float64(i)*step, float64(i+1)*step
		// 条带与重叠量一起绘制，避免条带之间出现缝隙。
		if b < length {
			b += step * 0.05
		}
		if vertical {
			inL := math.Max(cornerInset(radii.TL, a, b, length, true), cornerInset(radii.BL, a, b, length, false))
			inR := math.Max(cornerInset(radii.TR, a, b, length, true), cornerInset(radii.BR, a, b, length, false))
			d.fillPath(d.roundedPath(rc.X+inL, rc.Y+a, rc.Width-inL-inR, b-a, layout.Corners{}), col)
		} else {
			inT := math.Max(cornerInset(radii.TL, a, b, length, true), cornerInset(radii.TR, a, b, length, false))
			inB := math.Max(cornerInset(radii.BL, a, b, length, true), cornerInset(radii.BR, a, b, length, false))
			d.fillPath(d.roundedPath(rc.X+a, rc.Y+inT, b-a, rc.Height-inT-inB, layout.Corners{}), col)
		}
	}
}

// cornerInset 返回 [a,b] 条带在半径 r 的圆角处需要内缩的距离。
// leading 表示圆角位于起点一侧。
func cornerInset(r, a, b, length float64, leading bool) float64 {
	if r <= 0 {
		return 0
	}
	pos := a
	if !leading {
		pos = length - b
	}
	if pos >= r {
		return 0
	}
	dy := r - pos
	return r - math.Sqrt(math.Max(0, r*r-dy*dy))
}

func mix(a, b layout.Color, t float64) layout.Color {
	lerp := func(x, y int) int { return int(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return layout.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func (d *drawer) image(box layout.ImageBox) error {
	if box.Ref == "" || box.Width <= 0 || box.Height <= 0 {
		return nil
	}
	if d.r.images == nil {
		return ErrNoImageSource
	}
	src, err := d.r.images.Image(box.Ref)
	if err != nil {
		return fmt.Errorf("读取图片 %s 失败: %w", box.Ref, err)
	}
	pxW := int(math.Ceil(box.Width * d.scale))
	pxH := int(math.Ceil(box.Height * d.scale))
	img := prepareImage(src, box, pxW, pxH, d.scale)
	if img == nil {
		return nil
	}
	x, y, w := box.X, box.Y, box.Width
	if box.Fit == layout.FitContain {
		x, y, w = containRect(src.Bounds().Dx(), src.Bounds().Dy(), box)
	}
	dpmm := float64(img.Bounds().Dx()) / w
	if dpmm <= 0 {
		dpmm = 1
	}
	h := float64(img.Bounds().Dy()) / dpmm
	d.ctx.DrawImage(x, d.fy(y+h), img, canvas.DPMM(dpmm))
	return nil
}

func (d *drawer) text(tb layout.TextBox) error {
	if len(tb.Lines) == 0 || tb.FontSize <= 0 {
		return nil
	}
	face, err := d.r.fontFace(tb.Font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	if tb.Shadow != nil && !tb.Shadow.Color.IsTransparent() {
		shadowFace, err := d.r.fontFace(tb.Font, tb.FontSize, tb.Shadow.Color.Fade(1.0/textShadowLayers))
		if err != nil {
			return err
		}
		for i := 0; i < textShadowLayers; i++ {
			spread := tb.Shadow.Blur / 2 * float64(i) / textShadowLayers
			for _, off := range [][2]float64{{-spread, 0}, {spread, 0}, {0, -spread}, {0, spread}} {
				d.textLines(tb, shadowFace, tb.Shadow.OffsetX+off[0], tb.Shadow.OffsetY+off[1])
				if spread == 0 {
					break
				}
			}
		}
	}
	d.textLines(tb, face, 0, 0)
	return nil
}

func (d *drawer) textLines(tb layout.TextBox, face *canvas.FontFace, dx, dy float64) {
	m := face.Metrics()
	for i, line := range tb.Lines {
		origin := tb.LineOrigin(i)
		// 行内垂直居中：字体内容高度在行高中上下均分。
		baseline := origin.Y + (tb.LineHeight-(m.Ascent+m.Descent))/2 + m.Ascent + dy
		if len(line.Spans) == 0 {
			d.plainLine(tb, face, line, origin.X, baseline, dx)
			continue
		}
		for _, sp := range line.Spans {
			d.run(face, sp.Text, origin.X+sp.X+dx, baseline, tb.Tracking)
		}
	}
}

// plainLine 绘制没有分段信息的行，按对齐方式锚定。
func (d *drawer) plainLine(tb layout.TextBox, face *canvas.FontFace, line layout.TextLine, originX, baseline, dx float64) {
	if tb.Tracking != 0 {
		d.run(face, line.Content, originX+dx, baseline, tb.Tracking)
		return
	}
	align, anchorX := canvas.Left, tb.X
	switch tb.Align {
	case "center":
		align, anchorX = canvas.Center, tb.X+tb.Width/2
	case "right", "end":
		align, anchorX = canvas.Right, tb.X+tb.Width
	}
	d.ctx.DrawText(anchorX+dx, d.fy(baseline), canvas.NewTextLine(face, line.Content, align))
}

func (d *drawer) run(face *canvas.FontFace, text string, x, baseline, tracking float64) {
	if text == "" {
		return
	}
	if tracking == 0 {
		d.ctx.DrawText(x, d.fy(baseline), canvas.NewTextLine(face, text, canvas.Left))
		return
	}
	for _, r := range text {
		s := string(r)
		d.ctx.DrawText(x, d.fy(baseline), canvas.NewTextLine(face, s, canvas.Left))
		x += face.TextWidth(s) + tracking
	}
}
