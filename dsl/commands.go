package dsl

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/redcanvas/editor"
)

// ErrUnresolvedImage is returned when an ImageRef is applied before the
// caller measured the image.
var ErrUnresolvedImage = errors.New("image aspect ratio not resolved")

// ErrSkipImage tells ResolveImages to drop the statement instead of failing.
var ErrSkipImage = errors.New("skip image")

// ImageRef is an `image` statement without a ratio. ResolveImages replaces
// it with an editor.SetImage once the image has been opened.
type ImageRef struct {
	Ref string
}

func (r ImageRef) Apply(s editor.State) (editor.State, error) {
	return s, fmt.Errorf("%w: %s", ErrUnresolvedImage, r.Ref)
}

// Commands converts the script into editor commands, in order.
// newID supplies ids for highlights written without `as`.
func (s *Script) Commands(newID func() string) ([]editor.Command, error) {
	if newID == nil {
		newID = editor.NewHighlightID
	}
	var cmds []editor.Command
	for _, st := range s.Statements {
		cmd, err := st.command(newID)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", st.Pos, st.Kind(), err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (st *Statement) command(newID func() string) (editor.Command, error) {
	switch {
	case st.Title != nil:
		return editor.SetTitle{Title: string(*st.Title)}, nil
	case st.Highlight != nil:
		h := st.Highlight
		cmd := editor.AddHighlight{Text: string(h.Text)}
		if h.Color != nil {
			cmd.Color = *h.Color
		}
		if h.ID != nil {
			cmd.ID = *h.ID
		} else {
			cmd.ID = newID()
		}
		return cmd, nil
	case st.Series != nil:
		return editor.SetSeriesNumber{Series: string(*st.Series)}, nil
	case st.Image != nil:
		if st.Image.Ratio == nil {
			return ImageRef{Ref: string(st.Image.Ref)}, nil
		}
		ratio := *st.Image.Ratio
		if !(ratio > 0) || math.IsInf(ratio, 0) {
			return nil, fmt.Errorf("%w: ratio %g", editor.ErrInvalidImage, ratio)
		}
		return editor.SetImage{URL: string(st.Image.Ref), AspectRatio: ratio}, nil
	case st.NoImage:
		return editor.ClearImage{}, nil
	case st.Frame != nil:
		return editor.SetDeviceFrame{Enabled: st.Frame.On}, nil
	case st.Template != nil:
		return editor.SetTemplate{ID: editor.TemplateID(*st.Template)}, nil
	case st.Font != nil:
		return editor.SetFont{ID: editor.FontID(*st.Font)}, nil
	case st.Accent != nil:
		return editor.SetAccentColor{Color: *st.Accent}, nil
	}
	return nil, errors.New("empty statement")
}

// ResolveImages replaces every ImageRef using ingest. When ingest returns
// ErrSkipImage the statement is dropped and the state keeps its image.
// The returned slice is new.
func ResolveImages(ctx context.Context, cmds []editor.Command, ingest func(ctx context.Context, ref string) (editor.SetImage, error)) ([]editor.Command, error) {
	out := make([]editor.Command, 0, len(cmds))
	for _, cmd := range cmds {
		ref, ok := cmd.(ImageRef)
		if !ok {
			out = append(out, cmd)
			continue
		}
		set, err := ingest(ctx, ref.Ref)
		if errors.Is(err, ErrSkipImage) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	return out, nil
}

// ImageRefs lists the refs still waiting for a ratio.
func ImageRefs(cmds []editor.Command) []string {
	var refs []string
	for _, cmd := range cmds {
		if ref, ok := cmd.(ImageRef); ok {
			refs = append(refs, ref.Ref)
		}
	}
	return refs
}
