package editor

import (
	"errors"
	"fmt"
	"math"
)

// Command 是对 State 的一次原子修改。实现必须返回新值，不得修改入参共享的切片。
type Command interface {
	Apply(State) (State, error)
}

// Apply 依次执行 cmds。任一命令失败时返回原状态与错误。
func Apply(s State, cmds ...Command) (State, error) {
	next := s.Clone()
	for i, c := range cmds {
		var err error
		next, err = c.Apply(next)
		if err != nil {
			return s, fmt.Errorf("command %d (%T): %w", i, c, err)
		}
	}
	return next, nil
}

type SetTitle struct{ Title string }

func (c SetTitle) Apply(s State) (State, error) {
	s.Title = c.Title
	return s, nil
}

type SetSeriesNumber struct{ Series string }

func (c SetSeriesNumber) Apply(s State) (State, error) {
	s.SeriesNumber = c.Series
	return s, nil
}

// AddHighlight 追加一条规则；Color 为空时使用当前强调色。
type AddHighlight struct {
	ID    string
	Text  string
	Color string
}

func (c AddHighlight) Apply(s State) (State, error) {
	if c.ID == "" {
		return s, ErrEmptyHighlightID
	}
	if _, exists := s.Highlight(c.ID); exists {
		return s, fmt.Errorf("%w: %q", ErrDuplicateHighlight, c.ID)
	}
	color := c.Color
	if color == "" {
		color = s.AccentColor
	}
	if err := ValidateColor(color); err != nil {
		return s, err
	}
	hs := make([]Highlight, 0, len(s.Highlights)+1)
	hs = append(hs, s.Highlights...)
	s.Highlights = append(hs, Highlight{ID: c.ID, Text: c.Text, Color: color})
	return s, nil
}

// UpdateHighlight 只修改非 nil 的字段。未知 id 不报错。
type UpdateHighlight struct {
	ID    string
	Text  *string
	Color *string
}

func (c UpdateHighlight) Apply(s State) (State, error) {
	if c.Color != nil {
		if err := ValidateColor(*c.Color); err != nil {
			return s, err
		}
	}
	hs := make([]Highlight, len(s.Highlights))
	copy(hs, s.Highlights)
	for i := range hs {
		if hs[i].ID != c.ID {
			continue
		}
		if c.Text != nil {
			hs[i].Text = *c.Text
		}
		if c.Color != nil {
			hs[i].Color = *c.Color
		}
	}
	s.Highlights = hs
	return s, nil
}

type RemoveHighlight struct{ ID string }

func (c RemoveHighlight) Apply(s State) (State, error) {
	hs := make([]Highlight, 0, len(s.Highlights))
	for _, h := range s.Highlights {
		if h.ID != c.ID {
			hs = append(hs, h)
		}
	}
	s.Highlights = hs
	return s, nil
}

// SetImage 同时更新图片引用与宽高比，二者不会单独变化。
type SetImage struct {
	URL         string
	AspectRatio float64
}

func (c SetImage) Apply(s State) (State, error) {
	if c.URL == "" || !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		return s, ErrInvalidImage
	}
	s.ImageURL = c.URL
	s.ImageAspectRatio = c.AspectRatio
	return s, nil
}

// ClearImage 移除图片，宽高比一并清零。
type ClearImage struct{}

func (ClearImage) Apply(s State) (State, error) {
	s.ImageURL = ""
	s.ImageAspectRatio = 0
	return s, nil
}

type SetDeviceFrame struct{ Enabled bool }

func (c SetDeviceFrame) Apply(s State) (State, error) {
	s.ShowDeviceFrame = c.Enabled
	return s, nil
}

type SetTemplate struct{ ID TemplateID }

func (c SetTemplate) Apply(s State) (State, error) {
	if _, ok := LookupTemplate(c.ID); !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownTemplate, c.ID)
	}
	s.TemplateID = c.ID
	return s, nil
}

type SetFont struct{ ID FontID }

func (c SetFont) Apply(s State) (State, error) {
	if _, ok := LookupFont(c.ID); !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownFont, c.ID)
	}
	s.FontFamily = c.ID
	return s, nil
}

type SetAccentColor struct{ Color string }

func (c SetAccentColor) Apply(s State) (State, error) {
	if err := ValidateColor(c.Color); err != nil {
		return s, err
	}
	s.AccentColor = c.Color
	return s, nil
}

// IsRejected reports whether err came from a command refusing an invalid value.
func IsRejected(err error) bool {
	for _, target := range []error{
		ErrUnknownTemplate, ErrUnknownFont, ErrDuplicateHighlight,
		ErrEmptyHighlightID, ErrInvalidImage, ErrInvalidColor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
