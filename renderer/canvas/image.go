package canvasrenderer

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/redcanvas/layout"
)

// prepareImage 把源图缩放到目标像素尺寸，并在像素空间完成裁切、圆角遮罩与不透明度。
// 结果的 1 像素对应 1/scale 个布局单位。
func prepareImage(src image.Image, box layout.ImageBox, pxW, pxH int, scale float64) *image.NRGBA {
	if pxW <= 0 || pxH <= 0 || src.Bounds().Empty() {
		return nil
	}
	var img *image.NRGBA
	if box.Fit == layout.FitContain {
		img = imaging.Fit(src, pxW, pxH, imaging.Lanczos)
	} else {
		img = imaging.Fill(src, pxW, pxH, imaging.Center, imaging.Lanczos)
	}
	if !box.Radii.IsZero() || box.Round {
		// contain 时图片比盒子小，圆角按实际像素尺寸换算。
		sx := float64(img.Bounds().Dx()) / (box.Width * scale)
		radii := box.Radii
		radii = layout.Corners{TL: radii.TL * scale * sx, TR: radii.TR * scale * sx, BR: radii.BR * scale * sx, BL: radii.BL * scale * sx}
		maskImage(img, radii, box.Round)
	}
	if op := box.EffectiveOpacity(); op < 1 {
		fadeImage(img, op)
	}
	return img
}

// containRect 返回 contain 模式下图片在盒子内居中后的左上角与宽度。
func containRect(srcW, srcH int, box layout.ImageBox) (x, y, w float64) {
	if srcW <= 0 || srcH <= 0 {
		return box.X, box.Y, box.Width
	}
	ratio := float64(srcW) / float64(srcH)
	w, h := box.Width, box.Width/ratio
	if h > box.Height {
		h = box.Height
		w = h * ratio
	}
	return box.X + (box.Width-w)/2, box.Y + (box.Height-h)/2, w
}

// maskImage 把圆角（或内切椭圆）以外的像素变为透明，边缘做一个像素的抗锯齿。
func maskImage(img *image.NRGBA, radii layout.Corners, round bool) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	radii = radii.Clamp(w, h)
	for py := 0; py < b.Dy(); py++ {
		for px := 0; px < b.Dx(); px++ {
			x, y := float64(px)+0.5, float64(py)+0.5
			var cov float64
			if round {
				cov = ellipseCoverage(x, y, w, h)
			} else {
				cov = cornerCoverage(x, y, w, h, radii)
			}
			if cov >= 1 {
				continue
			}
			i := img.PixOffset(b.Min.X+px, b.Min.Y+py)
			img.Pix[i+3] = uint8(math.Round(float64(img.Pix[i+3]) * cov))
		}
	}
}

func cornerCoverage(x, y, w, h float64, r layout.Corners) float64 {
	var cx, cy, rad float64
	switch {
	case x < r.TL && y < r.TL:
		cx, cy, rad = r.TL, r.TL, r.TL
	case x > w-r.TR && y < r.TR:
		cx, cy, rad = w-r.TR, r.TR, r.TR
	case x > w-r.BR && y > h-r.BR:
		cx, cy, rad = w-r.BR, h-r.BR, r.BR
	case x < r.BL && y > h-r.BL:
		cx, cy, rad = r.BL, h-r.BL, r.BL
	default:
		return 1
	}
	dist := math.Hypot(x-cx, y-cy)
	return clamp01(rad - dist + 0.5)
}

func ellipseCoverage(x, y, w, h float64) float64 {
	rx, ry := w/2, h/2
	if rx <= 0 || ry <= 0 {
		return 0
	}
	nx, ny := (x-rx)/rx, (y-ry)/ry
	n := math.Sqrt(nx*nx + ny*ny)
	return clamp01((1-n)*math.Min(rx, ry) + 0.5)
}

func fadeImage(img *image.NRGBA, op float64) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * op))
	}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
