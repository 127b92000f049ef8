package layout

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// ASCII 字符宽 0.5em，其余字符宽 1em。
type stubTypesetter struct{}

func (stubTypesetter) TextWidth(text string, face Face) (float64, error) {
	w := 0.0
	for _, r := range text {
		if r < utf8.RuneSelf {
			w += face.Size / 2
		} else {
			w += face.Size
		}
	}
	return w, nil
}

func lineContents(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

// TestTypesetExplicitNewlines 断言：显式换行保留，且 Height == 行数 × 行高。
func TestTypesetExplicitNewlines(t *testing.T) {
	tb := TextBox{Width: 1000, FontSize: 10, LineHeight: 13}
	if err := tb.Typeset(stubTypesetter{}, PlainRuns("一天一个\n强大的网站\n\n互联网")); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	want := []string{"一天一个", "强大的网站", "", "互联网"}
	if diff := cmp.Diff(want, lineContents(tb.Lines)); diff != "" {
		t.Fatalf("行内容不符 (-want +got):\n%s", diff)
	}
	if tb.Height != 4*13 {
		t.Fatalf("高度期望 52，实际 %g", tb.Height)
	}
}

// CJK 字符逐字可断。
func TestTypesetWrapsCJKAnywhere(t *testing.T) {
	tb := TextBox{Width: 35, FontSize: 10, LineHeight: 13}
	if err := tb.Typeset(stubTypesetter{}, PlainRuns("强大的网站")); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	want := []string{"强大的", "网站"}
	if diff := cmp.Diff(want, lineContents(tb.Lines)); diff != "" {
		t.Fatalf("行内容不符 (-want +got):\n%s", diff)
	}
	for _, l := range tb.Lines {
		if l.Width > tb.Width {
			t.Fatalf("行宽 %g 超过限制 %g", l.Width, tb.Width)
		}
	}
}

// 拉丁文本在空白处断行，溢出的空白悬挂在行尾。
func TestTypesetHangsTrailingSpace(t *testing.T) {
	tb := TextBox{Width: 28, FontSize: 10, LineHeight: 12}
	if err := tb.Typeset(stubTypesetter{}, PlainRuns("hello world")); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	want := []string{"hello ", "world"}
	if diff := cmp.Diff(want, lineContents(tb.Lines)); diff != "" {
		t.Fatalf("行内容不符 (-want +got):\n%s", diff)
	}
	if tb.Lines[0].Width != 25 {
		t.Fatalf("悬挂空白不应计入行宽: %g", tb.Lines[0].Width)
	}
}

func TestTypesetSplitsLongWord(t *testing.T) {
	tb := TextBox{Width: 20, FontSize: 10, LineHeight: 12}
	if err := tb.Typeset(stubTypesetter{}, PlainRuns("abcdefghij")); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	want := []string{"abcd", "efgh", "ij"}
	if diff := cmp.Diff(want, lineContents(tb.Lines)); diff != "" {
		t.Fatalf("行内容不符 (-want +got):\n%s", diff)
	}
}

// 标记片段整体换行，并在两侧各留 MarkMargin。
func TestTypesetMarkedRunIsAtomic(t *testing.T) {
	red := MustColor("#ff2442")
	runs := []Run{
		{Text: "一天"},
		{Text: "强大", Marked: true, Mark: red, Key: "1-0"},
		{Text: "的"},
	}
	tb := TextBox{Width: 40, FontSize: 10, LineHeight: 13}
	if err := tb.Typeset(stubTypesetter{}, runs); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	want := []string{"一天", "强大的"}
	if diff := cmp.Diff(want, lineContents(tb.Lines)); diff != "" {
		t.Fatalf("行内容不符 (-want +got):\n%s", diff)
	}
	second := tb.Lines[1]
	wantSpans := []Span{
		{Text: "强大", X: MarkMargin, Width: 20, Marked: true, Mark: red, Key: "1-0"},
		{Text: "的", X: 20 + 2*MarkMargin, Width: 10},
	}
	if diff := cmp.Diff(wantSpans, second.Spans); diff != "" {
		t.Fatalf("spans 不符 (-want +got):\n%s", diff)
	}
	if second.Width != 34 {
		t.Fatalf("行宽期望 34，实际 %g", second.Width)
	}
}

// 比整行还宽的标记片段按普通断行机会拆开，每行一个带边距的片段。
func TestTypesetWideMarkedRunWraps(t *testing.T) {
	red := MustColor("#ff2442")
	runs := []Run{{Text: "强大的网站真好", Marked: true, Mark: red, Key: "1-0"}}
	tb := TextBox{Width: 40, FontSize: 10, LineHeight: 13}
	if err := tb.Typeset(stubTypesetter{}, runs); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	want := []string{"强大的", "网站真", "好"}
	if diff := cmp.Diff(want, lineContents(tb.Lines)); diff != "" {
		t.Fatalf("行内容不符 (-want +got):\n%s", diff)
	}
	wantWidths := []float64{30, 30, 10}
	for i, l := range tb.Lines {
		if len(l.Spans) != 1 {
			t.Fatalf("第 %d 行应只有一个片段: %+v", i, l.Spans)
		}
		sp := l.Spans[0]
		if !sp.Marked || sp.Key != "1-0" || sp.X != MarkMargin || sp.Width != wantWidths[i] {
			t.Fatalf("第 %d 行片段错误: %+v", i, sp)
		}
		if l.Width > tb.Width {
			t.Fatalf("第 %d 行宽 %g 超过 %g", i, l.Width, tb.Width)
		}
	}
}

func TestTypesetWideMarkedLatinStaysInside(t *testing.T) {
	runs := []Run{{Text: "hello wonderful world", Marked: true, Mark: Black, Key: "k-0"}}
	tb := TextBox{Width: 30, FontSize: 10, LineHeight: 10}
	if err := tb.Typeset(stubTypesetter{}, runs); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(tb.Lines) < 2 {
		t.Fatalf("应换行: %+v", tb.Lines)
	}
	var text strings.Builder
	for i, l := range tb.Lines {
		if l.Width > tb.Width {
			t.Fatalf("第 %d 行 %q 宽 %g 超过 %g", i, l.Content, l.Width, tb.Width)
		}
		text.WriteString(l.Content)
	}
	if text.String() != "hello wonderful world" {
		t.Fatalf("拆分丢失了文本: %q", text.String())
	}
}

func TestTypesetMarkedRunSplitsOnNewline(t *testing.T) {
	runs := []Run{{Text: "a\nb", Marked: true, Mark: Black, Key: "k-0"}}
	tb := TextBox{Width: 100, FontSize: 10, LineHeight: 10}
	if err := tb.Typeset(stubTypesetter{}, runs); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(tb.Lines) != 2 || !tb.Lines[0].Spans[0].Marked || !tb.Lines[1].Spans[0].Marked {
		t.Fatalf("换行应拆开标记片段: %+v", tb.Lines)
	}
}

func TestLineOriginAlign(t *testing.T) {
	tb := TextBox{X: 10, Y: 100, Width: 100, LineHeight: 20, Align: "center",
		Lines: []TextLine{{Width: 40}, {Width: 100}}}
	if got := tb.LineOrigin(0); got != (Point{X: 40, Y: 100}) {
		t.Fatalf("居中首行原点错误: %+v", got)
	}
	if got := tb.LineOrigin(1); got != (Point{X: 10, Y: 120}) {
		t.Fatalf("第二行原点错误: %+v", got)
	}
}

func TestCanvasAddRecordsResources(t *testing.T) {
	var c Canvas
	c.Add(
		ImageEl(ImageBox{Ref: "a.png"}),
		TextEl(TextBox{Font: "kuaile"}),
		ImageEl(ImageBox{Ref: "a.png"}),
		RectEl(Rect{}),
	)
	if diff := cmp.Diff(Resources{Fonts: []string{"kuaile"}, Images: []string{"a.png"}}, c.Resources); diff != "" {
		t.Fatalf("resources mismatch (-want +got):\n%s", diff)
	}
	if len(c.Elements) != 4 {
		t.Fatalf("期望 4 个图元，实际 %d", len(c.Elements))
	}
}

func TestFadeAndRotateDoNotAlias(t *testing.T) {
	fill := White
	els := []Element{RectEl(Rect{Fill: &fill}), ImageEl(ImageBox{Ref: "x"})}
	faded := Fade(0.5, els)
	if els[0].Rect.Fill.A != 255 {
		t.Fatalf("Fade 修改了原图元")
	}
	if faded[0].Rect.Fill.A != 128 || faded[1].Image.Opacity != 0.5 {
		t.Fatalf("Fade 结果错误: %+v %+v", faded[0].Rect.Fill, faded[1].Image)
	}
	rotated := Rotate(-1, Point{X: 1, Y: 2}, faded)
	rotated = Rotate(2, Point{}, rotated)
	if len(faded[0].Rotations) != 0 || len(rotated[0].Rotations) != 2 {
		t.Fatalf("Rotate 应追加且不共享切片: %+v", rotated[0].Rotations)
	}
}

// TestDebugJSONKeepsKinds 确认调试 JSON 以变体名输出图元。
func TestDebugJSONKeepsKinds(t *testing.T) {
	c := &Canvas{Width: 420, Height: 560}
	c.Add(RectEl(Rect{Width: 1}), TextEl(TextBox{Font: "sans", Lines: []TextLine{{Content: "hi"}}}))
	var buf bytes.Buffer
	if err := EncodeDebugJSON(&buf, c, DebugOptions{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded struct {
		Elements []map[string]json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.Elements[0]["rect"]; !ok {
		t.Fatalf("首个图元应为 rect: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"content":"hi"`) {
		t.Fatalf("缺少文本内容: %s", buf.String())
	}
}
