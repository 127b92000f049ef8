// Package highlight splits a title into plain and marked runs according to the
// ordered highlight rules of a card.
package highlight

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/redcanvas/editor"
)

// Segment 是标题中的一段连续文本。Marked 为 true 时 Color 与 Key 有效。
type Segment struct {
	Text   string `json:"text"`
	Marked bool   `json:"marked,omitempty"`
	Color  string `json:"color,omitempty"`
	Key    string `json:"key,omitempty"`
}

// Compose 按高亮顺序逐条扫描仍为 plain 的片段并拆分。
// 已被标记的片段不会再被后续规则拆分，因此先应用的规则优先。
// 拼接所有 Segment.Text 恰好得到 title。
func Compose(title string, hs []editor.Highlight) []Segment {
	if title == "" {
		return nil
	}
	runs := []Segment{{Text: title}}
	for _, h := range hs {
		if h.Text == "" {
			continue
		}
		next := make([]Segment, 0, len(runs))
		for _, r := range runs {
			if r.Marked {
				next = append(next, r)
				continue
			}
			next = splitRun(next, r.Text, h)
		}
		runs = next
	}
	return assignKeys(runs)
}

// splitRun 把 text 中所有与 h.Text 大小写无关匹配的位置标记出来，结果追加到 dst。
func splitRun(dst []Segment, text string, h editor.Highlight) []Segment {
	for text != "" {
		i, n := indexFold(text, h.Text)
		if i < 0 {
			break
		}
		if i > 0 {
			dst = append(dst, Segment{Text: text[:i]})
		}
		// Key 暂存规则 id，assignKeys 再补上序号。
		dst = append(dst, Segment{Text: text[i : i+n], Marked: true, Color: h.Color, Key: h.ID})
		text = text[i+n:]
	}
	if text != "" {
		dst = append(dst, Segment{Text: text})
	}
	return dst
}

// assignKeys 生成 "<id>-<n>"，n 为该规则在输出中的出现序号。
func assignKeys(runs []Segment) []Segment {
	counts := make(map[string]int)
	for i := range runs {
		if !runs[i].Marked {
			continue
		}
		id := runs[i].Key
		runs[i].Key = id + "-" + strconv.Itoa(counts[id])
		counts[id]++
	}
	return runs
}

// indexFold returns the byte offset and byte length of the first match of sub
// in s under simple case folding. The matched length may differ from len(sub)
// when folded runes have different UTF-8 widths.
func indexFold(s, sub string) (int, int) {
	for i := 0; i < len(s); {
		if n, ok := prefixFold(s[i:], sub); ok {
			return i, n
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return -1, 0
}

func prefixFold(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0, false
		}
		r, w := utf8.DecodeRuneInString(s[n:])
		if r != pr && !strings.EqualFold(string(r), string(pr)) {
			return 0, false
		}
		n += w
	}
	return n, true
}

// Plain concatenates the text of every segment.
func Plain(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
