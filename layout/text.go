package layout

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// MarkMargin 是标记片段两侧的水平外边距。
const MarkMargin = 2.0

// Run 是排版输入中的一段文本。标记片段能放进一行时整体换行；
// 比整行还宽时在内部按普通文本的断行机会拆开，每行各成一个片段。
type Run struct {
	Text   string
	Marked bool
	Mark   Color
	Key    string
}

// PlainRuns 把普通字符串包装为单个 Run。
func PlainRuns(s string) []Run {
	if s == "" {
		return nil
	}
	return []Run{{Text: s}}
}

type token struct {
	text    string
	newline bool
	space   bool
	marked  bool
	inner   bool // 已从整体标记片段中拆出
	mark    Color
	key     string
}

// Typeset 根据 tb 的宽度与字体把 runs 排成行，写入 tb.Lines 与 tb.Height。
// 空白保留（pre-wrap 语义）：行尾溢出的空白悬挂在行末，不计入行宽。
func (tb *TextBox) Typeset(ts Typesetter, runs []Run) error {
	if ts == nil {
		return fmt.Errorf("缺少 Typesetter")
	}
	face := tb.Face()
	limit := tb.Width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var (
		lines  []TextLine
		cur    TextLine
		cursor float64
		dirty  bool
	)
	emit := func(force bool) {
		if !dirty && !force {
			return
		}
		cur.Width = cursor
		var b strings.Builder
		for _, sp := range cur.Spans {
			b.WriteString(sp.Text)
		}
		cur.Content = b.String()
		lines = append(lines, cur)
		cur = TextLine{}
		cursor = 0
		dirty = false
	}
	// continues 报告 tok 是否接在本行上一个同源标记片段之后。
	continues := func(tok token) bool {
		n := len(cur.Spans)
		return tok.marked && n > 0 && cur.Spans[n-1].Marked && cur.Spans[n-1].Key == tok.key
	}
	advance := func(tok token, w float64) float64 {
		if tok.marked && !continues(tok) {
			return w + 2*MarkMargin
		}
		return w
	}
	place := func(tok token, w float64, hang bool) {
		dirty = true
		adv := w
		if hang {
			adv = 0
		}
		n := len(cur.Spans)
		switch {
		case continues(tok):
			cur.Spans[n-1].Text += tok.text
			cur.Spans[n-1].Width += adv
			cursor += adv
		case tok.marked:
			cur.Spans = append(cur.Spans, Span{
				Text: tok.text, X: cursor + MarkMargin, Width: adv,
				Marked: true, Mark: tok.mark, Key: tok.key,
			})
			if !hang {
				cursor += adv + 2*MarkMargin
			}
		case n > 0 && !cur.Spans[n-1].Marked:
			cur.Spans[n-1].Text += tok.text
			cur.Spans[n-1].Width += adv
			cursor += adv
		default:
			cur.Spans = append(cur.Spans, Span{Text: tok.text, X: cursor, Width: adv})
			cursor += adv
		}
	}

	var flow func(tok token) error
	flow = func(tok token) error {
		if tok.newline {
			emit(true)
			return nil
		}
		w, err := ts.TextWidth(tok.text, face)
		if err != nil {
			return fmt.Errorf("测量文本 %q 失败: %w", tok.text, err)
		}
		adv := advance(tok, w)
		if tok.space {
			if cursor > 0 && cursor+adv > limit {
				place(tok, w, true)
				emit(false)
				return nil
			}
			place(tok, w, false)
			return nil
		}
		if cursor > 0 && cursor+adv > limit {
			emit(false)
			adv = advance(tok, w)
		}
		if adv <= limit {
			place(tok, w, false)
			return nil
		}
		if tok.marked && !tok.inner {
			for _, sub := range tokenizeContent(tok.text) {
				sub.marked, sub.inner, sub.mark, sub.key = true, true, tok.mark, tok.key
				if err := flow(sub); err != nil {
					return err
				}
			}
			return nil
		}
		room := limit
		if tok.marked {
			room -= 2 * MarkMargin
		}
		chunks, err := splitTokenByWidth(ts, tok.text, room, face)
		if err != nil {
			return err
		}
		for _, chunk := range chunks {
			part := tok
			part.text = chunk
			cw, err := ts.TextWidth(chunk, face)
			if err != nil {
				return fmt.Errorf("测量文本 %q 失败: %w", chunk, err)
			}
			if cursor > 0 && cursor+advance(part, cw) > limit {
				emit(false)
			}
			place(part, cw, false)
		}
		return nil
	}

	for _, tok := range tokenizeRuns(runs) {
		if err := flow(tok); err != nil {
			return err
		}
	}
	emit(false)

	tb.Lines = lines
	tb.Height = float64(len(lines)) * tb.LineHeight
	return nil
}

// tokenizeRuns 生成换行机会：CJK 字符逐字可断，拉丁单词与空白段各为一个 token。
func tokenizeRuns(runs []Run) []token {
	var tokens []token
	for _, r := range runs {
		if r.Marked {
			parts := strings.Split(strings.ReplaceAll(r.Text, "\r", ""), "\n")
			for i, p := range parts {
				if i > 0 {
					tokens = append(tokens, token{newline: true})
				}
				if p != "" {
					tokens = append(tokens, token{text: p, marked: true, mark: r.Mark, key: r.Key})
				}
			}
			continue
		}
		tokens = append(tokens, tokenizeContent(r.Text)...)
	}
	return tokens
}

func tokenizeContent(s string) []token {
	var tokens []token
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, token{text: builder.String(), space: lastWasSpace})
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, token{newline: true})
			continue
		}
		if isBreakAnywhere(r) {
			flush()
			tokens = append(tokens, token{text: string(r)})
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// isBreakAnywhere 报告 r 是否为可在任意处断行的表意文字或全角标点。
func isBreakAnywhere(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}

func splitTokenByWidth(ts Typesetter, tok string, limit float64, face Face) ([]string, error) {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{tok}, nil
	}
	var parts []string
	var runes []rune
	for _, r := range tok {
		runes = append(runes, r)
		w, err := ts.TextWidth(string(runes), face)
		if err != nil {
			return nil, fmt.Errorf("测量文本失败: %w", err)
		}
		if w > limit && len(runes) > 1 {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = []rune{r}
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts, nil
}
