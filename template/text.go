package template

import (
	"github.com/ByLCY/redcanvas/editor"
	"github.com/ByLCY/redcanvas/highlight"
	"github.com/ByLCY/redcanvas/layout"
)

// 手绘马克笔色带。
const (
	bandHeight = 14.0
	bandDrop   = 4.0 // 色带底边低于片段底边的距离
	bandTilt   = -1.5
)

var bandRadii = layout.Corners{TL: 10, TR: 2, BR: 12, BL: 3}

var fallbackMark = layout.MustColor(editor.PresetColors[0])

// textStyle 是一个文本块的排版参数。
type textStyle struct {
	font     string
	size     float64
	lh       float64
	color    layout.Color
	align    string
	tracking float64
	shadow   *layout.Shadow
}

func (st textStyle) box(x, y, width float64) layout.TextBox {
	return layout.TextBox{
		X: x, Y: y, Width: width,
		LineHeight: st.lh,
		Font:       st.font,
		FontSize:   st.size,
		Tracking:   st.tracking,
		Color:      st.color,
		Align:      st.align,
		Shadow:     st.shadow,
	}
}

// titleStyle 返回模板标题的基础样式。
func titleStyle(in Input, color layout.Color, align string) textStyle {
	size := TitleSize(in.Template)
	return textStyle{
		font:  string(in.Font),
		size:  size.Units(),
		lh:    layout.Factor(TitleLineHeight).Resolve(size),
		color: color,
		align: align,
	}
}

func runs(segs []highlight.Segment) []layout.Run {
	out := make([]layout.Run, 0, len(segs))
	for _, s := range segs {
		r := layout.Run{Text: s.Text, Marked: s.Marked, Key: s.Key}
		if s.Marked {
			r.Mark = layout.ColorOr(s.Color, fallbackMark)
		}
		out = append(out, r)
	}
	return out
}

// title 排版标题，返回按绘制顺序排列的图元（色带在文字之下）与块高度。
func title(in Input, ts layout.Typesetter, st textStyle, x, y, width float64) ([]layout.Element, float64, error) {
	tb := st.box(x, y, width)
	if err := tb.Typeset(ts, runs(in.Segments)); err != nil {
		return nil, 0, err
	}
	els := markerBands(tb)
	els = append(els, layout.TextEl(tb))
	return els, tb.Height, nil
}

// markerBands 为每个标记片段生成一条略微倾斜、圆角不规则的色带。
func markerBands(tb layout.TextBox) []layout.Element {
	var els []layout.Element
	for i, line := range tb.Lines {
		origin := tb.LineOrigin(i)
		bottom := origin.Y + tb.LineHeight + bandDrop
		for _, sp := range line.Spans {
			if !sp.Marked || sp.Width <= 0 {
				continue
			}
			band := layout.Rect{
				X:      origin.X + sp.X,
				Y:      bottom - bandHeight,
				Width:  sp.Width,
				Height: bandHeight,
				Radii:  bandRadii,
				Fill:   fill(sp.Mark),
			}
			center := layout.Point{X: band.X + band.Width/2, Y: band.Y + band.Height/2}
			els = append(els, layout.Rotate(bandTilt, center, []layout.Element{layout.RectEl(band)})...)
		}
	}
	return els
}

// label 排版一段不含高亮的文本。
func label(ts layout.Typesetter, st textStyle, text string, x, y, width float64) (layout.TextBox, error) {
	tb := st.box(x, y, width)
	if err := tb.Typeset(ts, layout.PlainRuns(text)); err != nil {
		return layout.TextBox{}, err
	}
	return tb, nil
}
