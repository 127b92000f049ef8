package layout

// Face 描述测量文本所需的字体参数，Size 与 Tracking 为布局单位。
// 字重与斜体由字体名本身决定。
type Face struct {
	Font     string
	Size     float64
	Tracking float64
}

// Typesetter 负责测量文本宽度，换行由本包完成。
type Typesetter interface {
	TextWidth(text string, face Face) (float64, error)
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Indent bool // 缩进输出 JSON
}

// 标题以外的辅助字体。标题字体名取自编辑器的字体注册表。
const (
	FontLabel   = "label"   // 粗体无衬线，用于标签与徽章
	FontDisplay = "display" // 斜体衬线，用于期号
)
