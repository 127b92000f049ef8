package highlight

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/redcanvas/editor"
)

func hl(id, text, color string) editor.Highlight {
	return editor.Highlight{ID: id, Text: text, Color: color}
}

func TestComposeMarksEveryOccurrence(t *testing.T) {
	got := Compose("ab cd ab", []editor.Highlight{hl("h", "ab", "#f00")})
	want := []Segment{
		{Text: "ab", Marked: true, Color: "#f00", Key: "h-0"},
		{Text: " cd "},
		{Text: "ab", Marked: true, Color: "#f00", Key: "h-1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

// 先应用的规则优先：已标记的片段不会被后续规则再次拆分。
func TestComposeFirstAppliedWins(t *testing.T) {
	got := Compose("ab ab", []editor.Highlight{hl("1", "ab ab", "#111"), hl("2", "ab", "#222")})
	want := []Segment{{Text: "ab ab", Marked: true, Color: "#111", Key: "1-0"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}

	got = Compose("ab ab", []editor.Highlight{hl("2", "ab", "#222"), hl("1", "ab ab", "#111")})
	for _, s := range got {
		if s.Marked && s.Color == "#111" {
			t.Fatalf("later rule must not re-split marked runs: %+v", got)
		}
	}
}

func TestComposeCaseInsensitiveKeepsCasing(t *testing.T) {
	got := Compose("my site is great", []editor.Highlight{hl("s", "SITE", "#f00")})
	if len(got) != 3 || got[1].Text != "site" || !got[1].Marked {
		t.Fatalf("期望标记原文大小写 site，实际 %+v", got)
	}
}

func TestComposeEmptyHighlightIsNoop(t *testing.T) {
	title := "hello world"
	base := Compose(title, []editor.Highlight{hl("w", "world", "#0f0")})
	for _, hs := range [][]editor.Highlight{
		{hl("e", "", "#000"), hl("w", "world", "#0f0")},
		{hl("w", "world", "#0f0"), hl("e", "", "#000")},
	} {
		if diff := cmp.Diff(base, Compose(title, hs)); diff != "" {
			t.Fatalf("empty highlight changed output (-want +got):\n%s", diff)
		}
	}
}

func TestComposeLiteralMetacharacters(t *testing.T) {
	got := Compose("a.b and axb", []editor.Highlight{hl("m", "a.b", "#f00")})
	var marked []string
	for _, s := range got {
		if s.Marked {
			marked = append(marked, s.Text)
		}
	}
	if diff := cmp.Diff([]string{"a.b"}, marked); diff != "" {
		t.Fatalf("marked mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeWhitespaceAndNewline(t *testing.T) {
	title := "一天一个\n强大的网站"
	got := Compose(title, []editor.Highlight{hl("n", "\n", "#f00")})
	if len(got) != 3 || got[1].Text != "\n" || !got[1].Marked {
		t.Fatalf("换行符应按字面匹配，实际 %+v", got)
	}
	if Plain(got) != title {
		t.Fatalf("拼接结果应等于原标题: %q", Plain(got))
	}
}

func TestComposeEdgeCases(t *testing.T) {
	if got := Compose("", []editor.Highlight{hl("a", "a", "#000")}); len(got) != 0 {
		t.Fatalf("空标题应输出空序列: %+v", got)
	}
	got := Compose("abc", []editor.Highlight{hl("z", "zzz", "#000")})
	if diff := cmp.Diff([]Segment{{Text: "abc"}}, got); diff != "" {
		t.Fatalf("未命中应原样输出 (-want +got):\n%s", diff)
	}
}

// 相同输入多次调用得到相同的 Key。
func TestComposeDeterministicKeys(t *testing.T) {
	s := editor.Default()
	a := Compose(s.Title, s.Highlights)
	b := Compose(s.Title, s.Highlights)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("non-deterministic output:\n%s", diff)
	}
	if Plain(a) != s.Title {
		t.Fatalf("concatenation mismatch: %q", Plain(a))
	}
	seen := map[string]bool{}
	for _, seg := range a {
		if !seg.Marked {
			continue
		}
		if seen[seg.Key] {
			t.Fatalf("duplicate key %q", seg.Key)
		}
		seen[seg.Key] = true
	}
	if len(seen) != 3 {
		t.Fatalf("期望 3 个标记片段，实际 %d", len(seen))
	}
}

func TestIndexFoldMultibyte(t *testing.T) {
	// U+212A KELVIN SIGN folds to ASCII k.
	i, n := indexFold("the \u212Aey", "KEY")
	if i != 4 || n != len("\u212Aey") {
		t.Fatalf("indexFold = (%d,%d)", i, n)
	}
}
