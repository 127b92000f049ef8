package layout

import "math"

// Box 是宿主区域，frame 与模板在其中放置图元。
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (b Box) Center() Point   { return Point{X: b.X + b.W/2, Y: b.Y + b.H/2} }
func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Bottom() float64 { return b.Y + b.H }

// Inset 四边各收缩 d；结果尺寸不小于 0。
func (b Box) Inset(d float64) Box { return b.InsetXY(d, d) }

// InsetXY 水平收缩 dx、垂直收缩 dy。
func (b Box) InsetXY(dx, dy float64) Box {
	out := Box{X: b.X + dx, Y: b.Y + dy, W: b.W - 2*dx, H: b.H - 2*dy}
	if out.W < 0 {
		out.X, out.W = b.X+b.W/2, 0
	}
	if out.H < 0 {
		out.Y, out.H = b.Y+b.H/2, 0
	}
	return out
}

// Fit 返回 b 内居中、宽高比为 ratio 的最大矩形。ratio 非正或非有限时返回 b。
func (b Box) Fit(ratio float64) Box {
	if !(ratio > 0) || math.IsInf(ratio, 0) || b.W <= 0 || b.H <= 0 {
		return b
	}
	w, h := b.W, b.W/ratio
	if h > b.H {
		h = b.H
		w = h * ratio
	}
	return Box{X: b.X + (b.W-w)/2, Y: b.Y + (b.H-h)/2, W: w, H: h}
}

// Rect 把 Box 转为矩形图元的几何部分。
func (b Box) Rect() Rect { return Rect{X: b.X, Y: b.Y, Width: b.W, Height: b.H} }

// Image 以 cover 方式填满 b。
func (b Box) Image(ref string) ImageBox {
	return ImageBox{Ref: ref, X: b.X, Y: b.Y, Width: b.W, Height: b.H, Fit: FitCover}
}
