package frame

import (
	"github.com/ByLCY/redcanvas/layout"
)

// 浏览器窗口尺寸。
const (
	browserPadding  = 16.0
	browserRadius   = 19.2
	browserBorder   = 8.0
	browserHeader   = 24.0
	browserDot      = 8.0
	browserDotGap   = 6.0
	browserHeaderPX = 12.0
)

var (
	dotRed    = layout.MustColor("#ff5f56")
	dotYellow = layout.MustColor("#ffbd2e")
	dotGreen  = layout.MustColor("#27c93f")
	headerBG  = layout.MustColor("#e5e7eb")
)

// BrowserDevice 返回浏览器窗口外框在 box 中的位置（宽高比 16:9）。
func BrowserDevice(box layout.Box) layout.Box {
	return box.Inset(browserPadding).Fit(BrowserViewport)
}

func browser(ref string, box layout.Box) []layout.Element {
	dev := BrowserDevice(box)
	inner := dev.Inset(browserBorder)
	innerR := browserRadius - browserBorder

	var els []layout.Element

	body := dev.Rect()
	body.Radii = layout.Uniform(browserRadius)
	body.Fill = fill(neutral700)
	body.Shadow = &layout.Shadow{OffsetY: 25, Blur: 50, Color: layout.Black.Alpha(0.5)}
	els = append(els, layout.RectEl(body))

	header := layout.Rect{X: inner.X, Y: inner.Y, Width: inner.W, Height: browserHeader,
		Radii: layout.Corners{TL: innerR, TR: innerR}, Fill: fill(headerBG)}
	els = append(els, layout.RectEl(header))
	els = append(els, layout.RectEl(layout.Rect{X: inner.X, Y: inner.Y + browserHeader - 1, Width: inner.W, Height: 1, Fill: fill(neutral300)}))

	cy := inner.Y + browserHeader/2
	x := inner.X + browserHeaderPX
	for _, c := range []layout.Color{dotRed, dotYellow, dotGreen} {
		els = append(els, layout.CircleEl(layout.Circle{CX: x + browserDot/2, CY: cy, R: browserDot / 2, Fill: fill(c)}))
		x += browserDot + browserDotGap
	}
	pillX := x + 16
	if w := inner.Right() - browserHeaderPX - pillX; w > 0 {
		els = append(els, layout.RectEl(layout.Rect{
			X: pillX, Y: cy - 6, Width: w, Height: 12,
			Radii:       layout.Uniform(6),
			Fill:        fill(layout.White.Alpha(0.6)),
			StrokeColor: neutral300.Alpha(0.5),
			StrokeWidth: 1,
		}))
	}

	content := layout.Box{X: inner.X, Y: inner.Y + browserHeader, W: inner.W, H: inner.H - browserHeader}
	screen := content.Rect()
	screen.Fill = fill(layout.White)
	screen.Radii = layout.Corners{BL: innerR, BR: innerR}
	img := content.Image(ref)
	img.Radii = screen.Radii
	els = append(els, layout.RectEl(screen), layout.ImageEl(img))

	gloss := dev.Rect()
	gloss.Radii = layout.Uniform(browserRadius)
	gloss.Gradient = &layout.Gradient{From: layout.Transparent, To: layout.White.Alpha(0.1), Dir: layout.GradientUp}
	els = append(els, layout.RectEl(gloss))
	return els
}

// 手机外观尺寸。
const (
	phonePadding   = 8.0
	phoneWidthFrac = 0.75
	phoneInsetFrac = 0.04
	phoneRadius    = 48.0
	phoneRing      = 10.0
	phoneBorder    = 2.0
	phoneScreenR   = 35.2
)

var phoneBody = layout.MustColor("#0c0c0c")

// PhoneDevice 返回手机机身在 box 中的位置（宽度为 75%，宽高比 9:19）。
func PhoneDevice(box layout.Box) layout.Box {
	host := box.Inset(phonePadding)
	w := host.W * phoneWidthFrac
	slot := layout.Box{X: host.X + (host.W-w)/2, Y: host.Y, W: w, H: host.H}
	return slot.Fit(PhoneViewport)
}

func phone(ref string, box layout.Box) []layout.Element {
	host := box.Inset(phonePadding)
	dev := PhoneDevice(box)
	pad := host.W * phoneInsetFrac

	var els []layout.Element

	ring := dev.Inset(-phoneRing).Rect()
	ring.Radii = layout.Uniform(phoneRadius + phoneRing)
	ring.Fill = fill(neutral800)
	ring.Shadow = &layout.Shadow{OffsetY: 40, Blur: 100, Color: layout.Black.Alpha(0.4)}
	els = append(els, layout.RectEl(ring))

	border := dev.Rect()
	border.Radii = layout.Uniform(phoneRadius)
	border.Fill = fill(neutral700)
	els = append(els, layout.RectEl(border))

	bodyBox := dev.Inset(phoneBorder)
	body := bodyBox.Rect()
	body.Radii = layout.Uniform(phoneRadius - phoneBorder)
	body.Fill = fill(phoneBody)
	els = append(els, layout.RectEl(body))

	screenBox := bodyBox.Inset(pad)
	screen := screenBox.Rect()
	screen.Radii = layout.Uniform(phoneScreenR)
	screen.Fill = fill(layout.White)
	img := screenBox.Image(ref)
	img.Radii = screen.Radii
	els = append(els, layout.RectEl(screen), layout.ImageEl(img))

	notchW, notchH := bodyBox.W*0.35, 20.0
	notch := layout.Rect{
		X: bodyBox.Center().X - notchW/2, Y: bodyBox.Y + 16, Width: notchW, Height: notchH,
		Radii: layout.Uniform(notchH / 2), Fill: fill(phoneBody),
	}
	sensor := layout.Rect{
		X: bodyBox.Center().X - 20, Y: notch.Y + notchH/2 - 2, Width: 40, Height: 4,
		Radii: layout.Uniform(2), Fill: fill(neutral800),
	}
	els = append(els, layout.RectEl(notch), layout.RectEl(sensor))

	reflection := layout.Rect{
		X: bodyBox.Center().X, Y: bodyBox.Y, Width: bodyBox.W / 2, Height: bodyBox.H,
		Radii:    layout.Corners{TR: phoneRadius - phoneBorder, BR: phoneRadius - phoneBorder},
		Gradient: &layout.Gradient{From: layout.White.Alpha(0.03), To: layout.Transparent, Dir: layout.GradientLeft},
	}
	els = append(els, layout.RectEl(reflection))
	return els
}
