// Package fonts 提供各字体名对应的 TTF 数据。内置数据来自 Go 字体族，
// 可以通过配置把任意字体名指向本地文件（例如带 CJK 字形的字体）。
package fonts

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrUnknownFont 表示既没有内置数据也没有覆盖路径。
var ErrUnknownFont = errors.New("unknown font")

// Fallback 是找不到字体时使用的名字。
const Fallback = "regular"

var builtin = map[string][]byte{
	"kuaile":  gobold.TTF,
	"sans":    gobold.TTF,
	"serif":   gomonobold.TTF,
	"mashan":  gobolditalic.TTF,
	"zhimang": gomediumitalic.TTF,
	"label":   gobold.TTF,
	"display": goitalic.TTF,
	"medium":  gomedium.TTF,
	Fallback:  goregular.TTF,
}

// Builtin 返回内置字体数据。
func Builtin(name string) ([]byte, error) {
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	return data, nil
}

// Names 返回所有内置字体名（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Set 按名字解析字体，覆盖路径优先于内置数据。
type Set struct {
	overrides map[string]string
}

// NewSet 创建字体集合；overrides 为 名字 → TTF/OTF 文件路径。
func NewSet(overrides map[string]string) *Set {
	o := make(map[string]string, len(overrides))
	for k, v := range overrides {
		if k != "" && v != "" {
			o[k] = v
		}
	}
	return &Set{overrides: o}
}

// Load 返回字体数据。
func (s *Set) Load(name string) ([]byte, error) {
	if s != nil {
		if path, ok := s.overrides[name]; ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %s (%s) 失败: %w", name, path, err)
			}
			return data, nil
		}
	}
	return Builtin(name)
}

// Source 报告 name 的来源："builtin"、覆盖文件路径或空字符串（未知）。
func (s *Set) Source(name string) string {
	if s != nil {
		if path, ok := s.overrides[name]; ok {
			return path
		}
	}
	if _, ok := builtin[name]; ok {
		return "builtin"
	}
	return ""
}
