package layout

// 该文件定义画布与可绘制图元，供模板布局、渲染与调试 JSON 共用。
// 坐标单位为“布局单位”，原点在左上角，y 轴向下。

// Canvas 是一张已经完全定位的卡片。
type Canvas struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Template   string    `json:"template"`
	Font       string    `json:"font"`
	Background Color     `json:"background"`
	Elements   []Element `json:"elements"`
	Resources  Resources `json:"resources"`
}

// Resources 记录画布引用到的字体与图片，导出流程据此等待字体、保留图片。
type Resources struct {
	Fonts  []string `json:"fonts"`
	Images []string `json:"images"`
}

// AddFont 去重追加。
func (r *Resources) AddFont(name string) {
	if name == "" || contains(r.Fonts, name) {
		return
	}
	r.Fonts = append(r.Fonts, name)
}

// AddImage 去重追加。
func (r *Resources) AddImage(ref string) {
	if ref == "" || contains(r.Images, ref) {
		return
	}
	r.Images = append(r.Images, ref)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Add 追加图元并登记其中引用的资源。
func (c *Canvas) Add(els ...Element) {
	for _, el := range els {
		if el.Image != nil {
			c.Resources.AddImage(el.Image.Ref)
		}
		if el.Text != nil {
			c.Resources.AddFont(el.Text.Font)
		}
		c.Elements = append(c.Elements, el)
	}
}

// Point 是二维坐标。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rotation 以 Origin 为中心旋转 Deg 度；屏幕坐标下正值为顺时针。
type Rotation struct {
	Deg    float64 `json:"deg"`
	Origin Point   `json:"origin"`
}

// Element 是图元的标签联合，恰有一个指针字段非空。
// Rotations 由内向外依次应用。
type Element struct {
	Rect      *Rect      `json:"rect,omitempty"`
	Circle    *Circle    `json:"circle,omitempty"`
	Image     *ImageBox  `json:"image,omitempty"`
	Text      *TextBox   `json:"text,omitempty"`
	Rotations []Rotation `json:"rotations,omitempty"`
}

// Kind returns a short name of the populated variant.
func (e Element) Kind() string {
	switch {
	case e.Rect != nil:
		return "rect"
	case e.Circle != nil:
		return "circle"
	case e.Image != nil:
		return "image"
	case e.Text != nil:
		return "text"
	}
	return ""
}

func RectEl(r Rect) Element        { return Element{Rect: &r} }
func CircleEl(c Circle) Element    { return Element{Circle: &c} }
func ImageEl(img ImageBox) Element { return Element{Image: &img} }
func TextEl(tb TextBox) Element    { return Element{Text: &tb} }

// Rotate 给每个图元追加一次绕 origin 的旋转。
func Rotate(deg float64, origin Point, els []Element) []Element {
	if deg == 0 {
		return els
	}
	out := make([]Element, len(els))
	for i, el := range els {
		rs := make([]Rotation, 0, len(el.Rotations)+1)
		rs = append(rs, el.Rotations...)
		el.Rotations = append(rs, Rotation{Deg: deg, Origin: origin})
		out[i] = el
	}
	return out
}

// Fade 把不透明度 f 乘到每个图元的颜色与图片上，相当于对整组设置 opacity。
func Fade(f float64, els []Element) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		switch {
		case el.Rect != nil:
			r := *el.Rect
			r.Fill = fadePtr(r.Fill, f)
			r.StrokeColor = r.StrokeColor.Fade(f)
			if r.Gradient != nil {
				g := *r.Gradient
				g.From, g.To = g.From.Fade(f), g.To.Fade(f)
				r.Gradient = &g
			}
			r.Shadow = r.Shadow.fade(f)
			el.Rect = &r
		case el.Circle != nil:
			c := *el.Circle
			c.Fill = fadePtr(c.Fill, f)
			c.StrokeColor = c.StrokeColor.Fade(f)
			c.Shadow = c.Shadow.fade(f)
			el.Circle = &c
		case el.Image != nil:
			img := *el.Image
			img.Opacity = img.EffectiveOpacity() * f
			el.Image = &img
		case el.Text != nil:
			tb := *el.Text
			tb.Color = tb.Color.Fade(f)
			tb.Shadow = tb.Shadow.fade(f)
			el.Text = &tb
		}
		out[i] = el
	}
	return out
}

func fadePtr(c *Color, f float64) *Color {
	if c == nil {
		return nil
	}
	v := c.Fade(f)
	return &v
}

// Corners 为四个角分别指定圆角半径（左上、右上、右下、左下）。
type Corners struct {
	TL float64 `json:"tl"`
	TR float64 `json:"tr"`
	BR float64 `json:"br"`
	BL float64 `json:"bl"`
}

// Uniform 返回四角相同的圆角。
func Uniform(r float64) Corners { return Corners{TL: r, TR: r, BR: r, BL: r} }

func (c Corners) IsZero() bool { return c.TL == 0 && c.TR == 0 && c.BR == 0 && c.BL == 0 }

// Clamp 把每个半径限制在 w/2、h/2 以内。
func (c Corners) Clamp(w, h float64) Corners {
	lim := w / 2
	if h/2 < lim {
		lim = h / 2
	}
	if lim < 0 {
		lim = 0
	}
	clamp := func(v float64) float64 {
		if v > lim {
			return lim
		}
		if v < 0 {
			return 0
		}
		return v
	}
	return Corners{TL: clamp(c.TL), TR: clamp(c.TR), BR: clamp(c.BR), BL: clamp(c.BL)}
}

// GradientDir 是线性渐变的方向（From 所在一侧指向 To 所在一侧）。
type GradientDir string

const (
	GradientDown GradientDir = "down"
	GradientUp   GradientDir = "up"
	GradientLeft GradientDir = "left"
)

// Gradient 是两色线性渐变，覆盖整个图元。
type Gradient struct {
	From Color       `json:"from"`
	To   Color       `json:"to"`
	Dir  GradientDir `json:"dir"`
}

// Shadow 是外投影。Blur 为模糊半径。
type Shadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   Color   `json:"color"`
}

func (s *Shadow) fade(f float64) *Shadow {
	if s == nil {
		return nil
	}
	v := *s
	v.Color = v.Color.Fade(f)
	return &v
}

// Rect 表示一个矩形，可带圆角、渐变、投影与模糊。
type Rect struct {
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Radii       Corners   `json:"radii"`
	Fill        *Color    `json:"fill,omitempty"` // 为空表示不填充
	Gradient    *Gradient `json:"gradient,omitempty"`
	StrokeColor Color     `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"` // <=0 表示不描边
	Shadow      *Shadow   `json:"shadow,omitempty"`
	Blur        float64   `json:"blur,omitempty"`
}

// Circle 表示一个圆。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	Fill        *Color  `json:"fill,omitempty"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	Shadow      *Shadow `json:"shadow,omitempty"`
	Blur        float64 `json:"blur,omitempty"`
}

// Fit 取值。
const (
	FitCover   = "cover"
	FitContain = "contain"
)

// ImageBox 用于描述图片位置与尺寸。Ref 由渲染器通过 ImageSource 解析。
type ImageBox struct {
	Ref     string  `json:"ref"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Fit     string  `json:"fit"`
	Radii   Corners `json:"radii"`
	Round   bool    `json:"round,omitempty"` // 裁成椭圆
	Opacity float64 `json:"opacity"`         // <=0 视为 1
}

// EffectiveOpacity 返回渲染时实际使用的不透明度。
func (img ImageBox) EffectiveOpacity() float64 {
	if img.Opacity <= 0 || img.Opacity > 1 {
		return 1
	}
	return img.Opacity
}

// TextBox 表示一个已经排好行的文本块。
type TextBox struct {
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Tracking   float64    `json:"tracking,omitempty"` // 字间距（每个字符之后）
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"` // left（默认）/center/right
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Shadow     *Shadow    `json:"shadow,omitempty"`
}

// Face returns the font face description used for measuring this box.
func (tb TextBox) Face() Face {
	return Face{Font: tb.Font, Size: tb.FontSize, Tracking: tb.Tracking}
}

// LineOrigin 返回第 i 行左上角的绝对坐标（已考虑对齐）。
func (tb TextBox) LineOrigin(i int) Point {
	x := tb.X
	if i >= 0 && i < len(tb.Lines) {
		switch tb.Align {
		case "center":
			x += (tb.Width - tb.Lines[i].Width) / 2
		case "right", "end":
			x += tb.Width - tb.Lines[i].Width
		}
	}
	return Point{X: x, Y: tb.Y + float64(i)*tb.LineHeight}
}

// TextLine 表示排版后的一行文本内容及其宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Spans   []Span  `json:"spans"`
}

// Span 是行内一段同样式文本，X 为相对行首的偏移。
type Span struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Marked bool    `json:"marked,omitempty"`
	Mark   Color   `json:"mark"`
	Key    string  `json:"key,omitempty"`
}
