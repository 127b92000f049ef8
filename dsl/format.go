package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/redcanvas/editor"
)

// Format writes s as a card script that parses back to the same state
// (starting from editor.Blank).
func Format(s editor.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "template %s\n", s.TemplateID)
	fmt.Fprintf(&b, "font %s\n", s.FontFamily)
	fmt.Fprintf(&b, "accent %s\n", s.AccentColor)
	b.WriteString("\n")
	fmt.Fprintf(&b, "title %s\n", strconv.Quote(s.Title))
	for _, h := range s.Highlights {
		fmt.Fprintf(&b, "highlight %s", strconv.Quote(h.Text))
		if h.Color != "" {
			fmt.Fprintf(&b, " %s", h.Color)
		}
		if isIdent(h.ID) {
			fmt.Fprintf(&b, " as %s", h.ID)
		}
		b.WriteString("\n")
	}
	if s.SeriesNumber != "" {
		fmt.Fprintf(&b, "series %s\n", strconv.Quote(s.SeriesNumber))
	}
	b.WriteString("\n")
	if s.HasImage() {
		fmt.Fprintf(&b, "image %s %s\n", strconv.Quote(s.ImageURL), strconv.FormatFloat(s.ImageAspectRatio, 'f', -1, 64))
	}
	if s.ShowDeviceFrame {
		b.WriteString("frame on\n")
	} else {
		b.WriteString("frame off\n")
	}
	return b.String()
}

// isIdent reports whether id can be written after `as` unquoted.
func isIdent(id string) bool {
	if id == "" {
		return false
	}
	allDigits := true
	for i, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
			allDigits = false
		case (r == '-') && i > 0:
			allDigits = false
		default:
			return false
		}
	}
	if allDigits {
		return true
	}
	c := id[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
