package editor

// TemplateConfig 是模板的展示信息，布局本身由 template 包负责。
type TemplateConfig struct {
	ID           TemplateID `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	PreviewColor string     `json:"previewColor"`
}

// FontOption 是字体注册表中的一项。ClassName 保留为样式标记，供调试输出使用。
type FontOption struct {
	ID        FontID `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
}

// Templates 按展示顺序列出全部模板。
var Templates = []TemplateConfig{
	{ID: TemplateClassic, Name: "经典爆款", Description: "文字错落有致，适合干货分享", PreviewColor: "#ff2442"},
	{ID: TemplateMagazine, Name: "时尚杂志", Description: "高级排版，艺术气息浓厚", PreviewColor: "#000000"},
	{ID: TemplateMinimal, Name: "呼吸极简", Description: "极大的留白，突出核心意境", PreviewColor: "#a1a1aa"},
	{ID: TemplateBold, Name: "视觉冲击", Description: "满屏大字，观点性极强", PreviewColor: "#3b82f6"},
	{ID: TemplateFloating, Name: "现代重叠", Description: "层级感分明，拒绝单调", PreviewColor: "#8b5cf6"},
}

// Fonts 列出可选字体。
var Fonts = []FontOption{
	{ID: FontKuaile, Name: "快乐体 (推荐)", ClassName: "font-kuaile"},
	{ID: FontSans, Name: "极黑体", ClassName: "font-sans font-black"},
	{ID: FontSerif, Name: "优雅宋", ClassName: "font-serif-sc font-black"},
	{ID: FontMashan, Name: "书法行草", ClassName: "font-mashan"},
	{ID: FontZhimang, Name: "随性手写", ClassName: "font-zhimang"},
}

// PresetColors are the swatches offered for highlights and the accent.
var PresetColors = []string{
	"#ff2442",
	"#ffd93d",
	"#6bcbff",
	"#b4ff9f",
	"#ff87b2",
	"#ffffff",
	"#000000",
}

func LookupTemplate(id TemplateID) (TemplateConfig, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return TemplateConfig{}, false
}

func LookupFont(id FontID) (FontOption, bool) {
	for _, f := range Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return FontOption{}, false
}

// TemplateOrDefault 在 id 未注册时回退到 classic。
func TemplateOrDefault(id TemplateID) TemplateID {
	if _, ok := LookupTemplate(id); ok {
		return id
	}
	return TemplateClassic
}

// FontOrDefault 在 id 未注册时回退到 kuaile。
func FontOrDefault(id FontID) FontID {
	if _, ok := LookupFont(id); ok {
		return id
	}
	return FontKuaile
}
