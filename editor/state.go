// Package editor 定义封面卡片的编辑状态、命令与静态注册表。
//
// State 是唯一的数据源：渲染链路上的每个组件只读它，
// 所有修改都通过 Command 以值语义完成。
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// TemplateID 标识一种固定模板布局。
type TemplateID string

const (
	TemplateClassic  TemplateID = "classic"
	TemplateMagazine TemplateID = "magazine"
	TemplateMinimal  TemplateID = "minimal"
	TemplateBold     TemplateID = "bold"
	TemplateFloating TemplateID = "floating"
)

// FontID 是字体注册表中的键。
type FontID string

const (
	FontKuaile  FontID = "kuaile"
	FontSans    FontID = "sans"
	FontSerif   FontID = "serif"
	FontMashan  FontID = "mashan"
	FontZhimang FontID = "zhimang"
)

var (
	ErrUnknownTemplate    = errors.New("unknown template")
	ErrUnknownFont        = errors.New("unknown font")
	ErrDuplicateHighlight = errors.New("duplicate highlight id")
	ErrEmptyHighlightID   = errors.New("highlight id is empty")
	ErrInvalidImage       = errors.New("image reference requires a positive aspect ratio")
	ErrInvalidColor       = errors.New("invalid color")
)

// Highlight 是一条（关键词，颜色）高亮规则。Text 为空时合法，但不参与渲染。
type Highlight struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// State 描述要渲染的全部内容。ImageURL 为空表示没有图片。
type State struct {
	Title            string      `json:"title"`
	Highlights       []Highlight `json:"highlights"`
	SeriesNumber     string      `json:"seriesNumber"`
	ImageURL         string      `json:"imageUrl,omitempty"`
	ImageAspectRatio float64     `json:"imageAspectRatio"`
	ShowDeviceFrame  bool        `json:"showDeviceFrame"`
	TemplateID       TemplateID  `json:"templateId"`
	FontFamily       FontID      `json:"fontFamily"`
	AccentColor      string      `json:"accentColor"`
}

// HasImage reports whether the state references an image.
func (s State) HasImage() bool { return s.ImageURL != "" }

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	if s.Highlights != nil {
		out.Highlights = make([]Highlight, len(s.Highlights))
		copy(out.Highlights, s.Highlights)
	}
	return out
}

// Highlight returns the highlight with the given id.
func (s State) Highlight(id string) (Highlight, bool) {
	for _, h := range s.Highlights {
		if h.ID == id {
			return h, true
		}
	}
	return Highlight{}, false
}

// Validate 检查状态不变式：高亮 id 唯一且非空、模板与字体位于注册表内、
// 图片引用与宽高比成对出现、颜色可解析。
func (s State) Validate() error {
	seen := make(map[string]struct{}, len(s.Highlights))
	for i, h := range s.Highlights {
		if h.ID == "" {
			return fmt.Errorf("highlight %d: %w", i, ErrEmptyHighlightID)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("highlight %q: %w", h.ID, ErrDuplicateHighlight)
		}
		seen[h.ID] = struct{}{}
		if err := ValidateColor(h.Color); err != nil {
			return fmt.Errorf("highlight %q: %w", h.ID, err)
		}
	}
	if _, ok := LookupTemplate(s.TemplateID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, s.TemplateID)
	}
	if _, ok := LookupFont(s.FontFamily); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFont, s.FontFamily)
	}
	if s.HasImage() && !(s.ImageAspectRatio > 0) {
		return ErrInvalidImage
	}
	if err := ValidateColor(s.AccentColor); err != nil {
		return fmt.Errorf("accent: %w", err)
	}
	return nil
}

// ValidateColor accepts #rgb and #rrggbb hex colors.
func ValidateColor(c string) error {
	if _, err := colorful.Hex(c); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidColor, c)
	}
	return nil
}

// NewHighlightID returns a fresh opaque highlight id.
func NewHighlightID() string {
	return uuid.NewString()
}

// Default 返回编辑器的初始状态。
func Default() State {
	return State{
		Title: "一天一个\n强大的网站\n互联网时光机",
		Highlights: []Highlight{
			{ID: "1", Text: "强大", Color: "#ff2442"},
			{ID: "2", Text: "网站", Color: "#ff2442"},
			{ID: "3", Text: "时光机", Color: "#6bcbff"},
		},
		SeriesNumber:     "#01",
		ImageURL:         "https://images.unsplash.com/photo-1542314831-068cd1dbfeeb?q=80&w=1000&auto=format&fit=crop",
		ImageAspectRatio: 1.5,
		ShowDeviceFrame:  true,
		TemplateID:       TemplateClassic,
		FontFamily:       FontKuaile,
		AccentColor:      "#ff2442",
	}
}

// Blank is the starting point of a card script: Default's styling with no
// content.
func Blank() State {
	s := Default()
	s.Title = ""
	s.Highlights = nil
	s.SeriesNumber = ""
	s.ImageURL = ""
	s.ImageAspectRatio = 0
	return s
}
