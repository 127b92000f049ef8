// Package frame decides how the card image is presented (bare, inside a
// browser window, inside a phone, or as a placeholder) and resolves that
// decision into positioned primitives inside any host box.
package frame

import (
	"github.com/ByLCY/redcanvas/layout"
)

// Kind 是展示方式。
type Kind int

const (
	KindPlaceholder Kind = iota
	KindRaw
	KindBrowser
	KindPhone
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindBrowser:
		return "browser"
	case KindPhone:
		return "phone"
	default:
		return "placeholder"
	}
}

// 设备视口比例。
const (
	BrowserViewport = 16.0 / 9.0
	PhoneViewport   = 9.0 / 19.0
)

// PlaceholderLabel 是无图片时的提示文字。
const PlaceholderLabel = "NO IMAGE"

// Node 是纯数据的决策结果，可在任意宿主区域内多次布局。
type Node struct {
	Kind        Kind    `json:"kind"`
	Ref         string  `json:"ref,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
}

// Render 根据图片、宽高比与开关决定展示方式。横竖判定严格为 aspectRatio >= 1。
func Render(imageRef string, aspectRatio float64, enabled bool) Node {
	switch {
	case imageRef == "":
		return Node{Kind: KindPlaceholder}
	case !enabled:
		return Node{Kind: KindRaw, Ref: imageRef, AspectRatio: aspectRatio}
	case aspectRatio >= 1:
		return Node{Kind: KindBrowser, Ref: imageRef, AspectRatio: aspectRatio}
	default:
		return Node{Kind: KindPhone, Ref: imageRef, AspectRatio: aspectRatio}
	}
}

// Viewport 返回设备框强制的宽高比；未加框时为 0。
func (n Node) Viewport() float64 {
	switch n.Kind {
	case KindBrowser:
		return BrowserViewport
	case KindPhone:
		return PhoneViewport
	default:
		return 0
	}
}

// Layout 在 box 内展开为绝对定位的图元，按绘制顺序返回。
func (n Node) Layout(box layout.Box) []layout.Element {
	switch n.Kind {
	case KindRaw:
		return []layout.Element{layout.ImageEl(box.Image(n.Ref))}
	case KindBrowser:
		return browser(n.Ref, box)
	case KindPhone:
		return phone(n.Ref, box)
	default:
		return placeholder(box)
	}
}

func fill(c layout.Color) *layout.Color { return &c }

var (
	neutral100 = layout.MustColor("#f5f5f5")
	neutral300 = layout.MustColor("#d4d4d4")
	neutral700 = layout.MustColor("#404040")
	neutral800 = layout.MustColor("#262626")
)

func placeholder(box layout.Box) []layout.Element {
	bg := box.Rect()
	bg.Fill = fill(neutral100)
	const size, lh = 16.0, 24.0
	label := layout.TextBox{
		X:          box.X,
		Y:          box.Center().Y - lh/2,
		Width:      box.W,
		LineHeight: lh,
		Font:       layout.FontLabel,
		FontSize:   size,
		Color:      neutral300,
		Align:      "center",
		Lines:      []layout.TextLine{{Content: PlaceholderLabel}},
		Height:     lh,
	}
	return []layout.Element{layout.RectEl(bg), layout.TextEl(label)}
}
