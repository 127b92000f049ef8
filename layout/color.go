package layout

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color 采用 0-255 的 RGBA 数值（非预乘）。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

var (
	White       = RGB(255, 255, 255)
	Black       = RGB(0, 0, 0)
	Transparent = Color{}
)

// RGB 返回不透明颜色。
func RGB(r, g, b int) Color { return Color{R: r, G: g, B: b, A: 255} }

// RGBA 的 alpha 取 0..1。
func RGBA(r, g, b int, alpha float64) Color {
	return Color{R: r, G: g, B: b, A: clampByte(alpha * 255)}
}

// ParseColor 解析 #rgb 或 #rrggbb。
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB(int(r), int(g), int(b)), nil
}

// MustColor 用于编译期已知合法的颜色常量。
func MustColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorOr 解析失败时返回 fallback。
func ColorOr(hex string, fallback Color) Color {
	c, err := ParseColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// Alpha 返回同色、alpha 为 a (0..1) 的颜色。
func (c Color) Alpha(a float64) Color {
	c.A = clampByte(a * 255)
	return c
}

// Fade 把 alpha 乘以 f。
func (c Color) Fade(f float64) Color {
	c.A = clampByte(float64(c.A) * f)
	return c
}

// Hex 返回 #rrggbb，不含 alpha。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(float64(c.R)), clampByte(float64(c.G)), clampByte(float64(c.B)))
}

func (c Color) IsTransparent() bool { return c.A <= 0 }

func clampByte(v float64) int {
	return int(math.Round(math.Max(0, math.Min(255, v))))
}
