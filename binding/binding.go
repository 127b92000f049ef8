// Package binding fills ${path} placeholders in card text from JSON data.
package binding

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/redcanvas/dsl"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Decode reads a JSON document for use as binding data.
func Decode(r io.Reader) (any, error) {
	var data any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("解析绑定数据失败: %w", err)
	}
	return data, nil
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := interpolate(text, data)
	return out
}

// Missing lists the placeholders of text that data cannot resolve.
func Missing(text string, data any) []string {
	_, missing := interpolate(text, data)
	return missing
}

func interpolate(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path != "" && data != nil {
			if val, ok := resolvePath(data, path); ok {
				return format(val)
			}
		}
		missing = append(missing, match)
		return match
	})
	return out, missing
}

// Bind interpolates every text argument of the script in place and returns
// the placeholders that stayed unresolved.
func Bind(script *dsl.Script, data any) []string {
	var missing []string
	bind := func(s *dsl.StringLiteral) {
		if s == nil {
			return
		}
		out, m := interpolate(string(*s), data)
		*s = dsl.StringLiteral(out)
		missing = append(missing, m...)
	}
	for _, st := range script.Statements {
		switch {
		case st.Title != nil:
			bind(st.Title)
		case st.Series != nil:
			bind(st.Series)
		case st.Highlight != nil:
			bind(&st.Highlight.Text)
		case st.Image != nil:
			bind(&st.Image.Ref)
		}
	}
	return missing
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// resolvePath walks a.b[0].c through decoded JSON.
func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, segment != ""
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}
