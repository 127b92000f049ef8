package dsl_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/redcanvas/dsl"
	"github.com/ByLCY/redcanvas/editor"
)

const sampleScript = `
# 一天一个系列
template magazine
font serif
accent #ffd93d

title "一天一个\n强大的网站"   // 两行
highlight "强大" #ff2442 as power
highlight "网站"
series "#${issue}"

image "covers/site.png" 1.5
frame off; noimage
`

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
}

func TestParseScript(t *testing.T) {
	script, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var kinds []string
	for _, st := range script.Statements {
		kinds = append(kinds, st.Kind())
	}
	want := []string{"template", "font", "accent", "title", "highlight", "highlight", "series", "image", "frame", "noimage"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("statement kinds (-want +got):\n%s", diff)
	}

	title := script.Statements[3].Title
	if got := string(*title); got != "一天一个\n强大的网站" {
		t.Fatalf("title not unquoted: %q", got)
	}
	h := script.Statements[4].Highlight
	if h.Color == nil || *h.Color != "#ff2442" || h.ID == nil || *h.ID != "power" {
		t.Fatalf("unexpected highlight: %+v", h)
	}
	if script.Statements[5].Highlight.Color != nil {
		t.Fatalf("second highlight should have no colour")
	}
	if img := script.Statements[7].Image; img.Ratio == nil || *img.Ratio != 1.5 {
		t.Fatalf("unexpected image: %+v", img)
	}
	if script.Statements[8].Frame.On {
		t.Fatalf("frame off parsed as on")
	}
	if script.Statements[3].Pos.Line != 7 {
		t.Fatalf("title position line %d", script.Statements[3].Pos.Line)
	}
}

func TestCommandsApplyToBlank(t *testing.T) {
	script, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatal(err)
	}
	cmds, err := script.Commands(counter())
	if err != nil {
		t.Fatalf("commands: %v", err)
	}
	got, err := editor.Apply(editor.Blank(), cmds...)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := editor.Blank()
	want.TemplateID = editor.TemplateMagazine
	want.FontFamily = editor.FontSerif
	want.AccentColor = "#ffd93d"
	want.Title = "一天一个\n强大的网站"
	want.Highlights = []editor.Highlight{
		{ID: "power", Text: "强大", Color: "#ff2442"},
		{ID: "h1", Text: "网站", Color: "#ffd93d"},
	}
	want.SeriesNumber = "#${issue}"
	want.ShowDeviceFrame = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
}

func TestImageWithoutRatioNeedsResolving(t *testing.T) {
	script, err := dsl.ParseString(`image "a.png"`)
	if err != nil {
		t.Fatal(err)
	}
	cmds, err := script.Commands(counter())
	if err != nil {
		t.Fatal(err)
	}
	if refs := dsl.ImageRefs(cmds); len(refs) != 1 || refs[0] != "a.png" {
		t.Fatalf("refs = %v", refs)
	}
	if _, err := editor.Apply(editor.Blank(), cmds...); !errors.Is(err, dsl.ErrUnresolvedImage) {
		t.Fatalf("unresolved image should fail: %v", err)
	}
	resolved, err := dsl.ResolveImages(context.Background(), cmds, func(ctx context.Context, ref string) (editor.SetImage, error) {
		return editor.SetImage{URL: ref, AspectRatio: 0.75}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := editor.Apply(editor.Blank(), resolved...)
	if err != nil {
		t.Fatalf("apply resolved: %v", err)
	}
	if s.ImageURL != "a.png" || s.ImageAspectRatio != 0.75 {
		t.Fatalf("image not set: %+v", s)
	}
	if _, ok := cmds[0].(dsl.ImageRef); !ok {
		t.Fatalf("ResolveImages must not modify its input")
	}
}

func TestSkippedImageKeepsState(t *testing.T) {
	script, err := dsl.ParseString("title \"a\"\nimage \"broken.png\"")
	if err != nil {
		t.Fatal(err)
	}
	cmds, err := script.Commands(counter())
	if err != nil {
		t.Fatal(err)
	}
	resolved, err := dsl.ResolveImages(context.Background(), cmds, func(ctx context.Context, ref string) (editor.SetImage, error) {
		return editor.SetImage{}, dsl.ErrSkipImage
	})
	if err != nil {
		t.Fatalf("skip should not fail: %v", err)
	}
	start := editor.Default()
	s, err := editor.Apply(start, resolved...)
	if err != nil {
		t.Fatal(err)
	}
	if s.ImageURL != start.ImageURL || s.Title != "a" {
		t.Fatalf("skipped image changed the state: %+v", s)
	}
}

// 以十六进制字母开头的 # 注释不会被当成颜色。
func TestHashCommentsThatLookLikeColours(t *testing.T) {
	script, err := dsl.ParseString("#fab cover\ntitle \"a\" #add later\n#abc\naccent #00ff00 # green\nhighlight \"a\" #fff # note\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var kinds []string
	for _, st := range script.Statements {
		kinds = append(kinds, st.Kind())
	}
	if diff := cmp.Diff([]string{"title", "accent", "highlight"}, kinds); diff != "" {
		t.Fatalf("statement kinds (-want +got):\n%s", diff)
	}
	if got := *script.Statements[1].Accent; got != "#00ff00" {
		t.Fatalf("accent %q", got)
	}
	if c := script.Statements[2].Highlight.Color; c == nil || *c != "#fff" {
		t.Fatalf("highlight colour %v", c)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		`title 42`,
		`accent red`,
		`frame maybe`,
		`unknown "x"`,
		`highlight`,
	} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
	script, err := dsl.ParseString(`image "a.png" 0`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := script.Commands(counter()); !errors.Is(err, editor.ErrInvalidImage) {
		t.Fatalf("zero ratio should be rejected: %v", err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, id := range []editor.TemplateID{editor.TemplateClassic, editor.TemplateFloating} {
		s := editor.Default()
		s.TemplateID = id
		s.ShowDeviceFrame = id == editor.TemplateClassic
		src := dsl.Format(s)
		script, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("formatted script does not parse: %v\n%s", err, src)
		}
		cmds, err := script.Commands(counter())
		if err != nil {
			t.Fatal(err)
		}
		got, err := editor.Apply(editor.Blank(), cmds...)
		if err != nil {
			t.Fatalf("apply: %v\n%s", err, src)
		}
		if diff := cmp.Diff(s, got); diff != "" {
			t.Fatalf("round trip (-want +got):\n%s\n%s", diff, src)
		}
	}
}

func TestFormatOmitsUnwritableIDs(t *testing.T) {
	s := editor.Blank()
	s.Highlights = []editor.Highlight{{ID: "9f-x", Text: "a", Color: "#000000"}}
	src := dsl.Format(s)
	if strings.Contains(src, " as ") {
		t.Fatalf("id starting with a digit and containing letters must be omitted:\n%s", src)
	}
}
