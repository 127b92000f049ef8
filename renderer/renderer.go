package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ByLCY/redcanvas/layout"
)

// Format 是输出格式。
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
	SVG  Format = "svg"
)

// ParseFormat 解析格式名，空字符串为 png。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Ext 返回不带点的文件扩展名。
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	if f == "" {
		return string(PNG)
	}
	return string(f)
}

// IsVector 报告格式是否与缩放倍数无关。
func (f Format) IsVector() bool { return f == PDF || f == SVG }

// Options 控制一次输出。
type Options struct {
	Scale      float64      // 像素/布局单位，矢量格式忽略
	Background layout.Color // 先于画布内容铺底
	Format     Format
	Quality    int // JPEG 质量，<=0 时使用 90
}

// Output 是编码后的结果，Width/Height 为像素（矢量格式为布局单位取整）。
type Output struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

// Rasterizer 把画布编码为图像或矢量文件。
type Rasterizer interface {
	Rasterize(ctx context.Context, c *layout.Canvas, opts Options) (Output, error)
}

// FontWaiter 确保字体已加载完毕。
type FontWaiter interface {
	Ready(ctx context.Context, fonts []string) error
}
