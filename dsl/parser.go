// Package dsl parses card scripts: one editor command per line.
//
//	title "一天一个\n强大的网站"
//	highlight "强大" #ff2442
//	highlight "网站" as site
//	series "#01"
//	image "photo.jpg" 1.5
//	frame on
//	template classic
//	font kuaile
//	accent #ff2442
//
// Comments start with // or #. After accent and inside highlight arguments a
// hash followed by three or six hex digits is a colour, so a comment there
// needs "# " with a space.
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// A hash only reads as a colour in the arguments of accent and highlight;
	// everywhere else it starts a comment.
	scriptLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Ident", Pattern: `(?:accent|highlight)\b`, Action: lexer.Push("Args")},
			lexer.Include("Common"),
		},
		"Args": {
			{Name: "Newline", Pattern: `\n+`, Action: lexer.Pop()},
			{Name: "Symbol", Pattern: `;`, Action: lexer.Pop()},
			{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
			lexer.Include("Common"),
		},
		"Common": {
			{Name: "Whitespace", Pattern: `[ \t\r]+`},
			{Name: "Newline", Pattern: `\n+`},
			{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
			{Name: "LineComment", Pattern: `//[^\n]*`},
			{Name: "HashComment", Pattern: `#[^\n]*`},
			{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
			{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
			{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
			{Name: "Symbol", Pattern: `;`},
		},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Script is the root AST node of a card script.
type Script struct {
	Statements []*Statement `parser:"( Newline | ';' )* ( @@ ( Newline | ';' )* )*"`
}

// Statement is one command. Exactly one field is set.
type Statement struct {
	Pos lexer.Position `parser:"" json:"-"`

	Title     *StringLiteral `parser:"  'title' @String"`
	Highlight *Highlight     `parser:"| 'highlight' @@"`
	Series    *StringLiteral `parser:"| 'series' @String"`
	Image     *Image         `parser:"| 'image' @@"`
	NoImage   bool           `parser:"| @'noimage'"`
	Frame     *Toggle        `parser:"| 'frame' @@"`
	Template  *string        `parser:"| 'template' @Ident"`
	Font      *string        `parser:"| 'font' @Ident"`
	Accent    *string        `parser:"| 'accent' @Color"`
}

// Kind returns the keyword of the statement.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Title != nil:
		return "title"
	case s.Highlight != nil:
		return "highlight"
	case s.Series != nil:
		return "series"
	case s.Image != nil:
		return "image"
	case s.NoImage:
		return "noimage"
	case s.Frame != nil:
		return "frame"
	case s.Template != nil:
		return "template"
	case s.Font != nil:
		return "font"
	case s.Accent != nil:
		return "accent"
	default:
		return "unknown"
	}
}

// Highlight is `highlight "text" [#color] [as id]`.
type Highlight struct {
	Text  StringLiteral `parser:"@String"`
	Color *string       `parser:"@Color?"`
	ID    *string       `parser:"( 'as' @( Ident | Number ) )?"`
}

// Image is `image "ref" [ratio]`.
type Image struct {
	Ref   StringLiteral `parser:"@String"`
	Ratio *float64      `parser:"@Number?"`
}

// Toggle accepts on/off, true/false, yes/no.
type Toggle struct {
	On  bool `parser:"  @( 'on' | 'true' | 'yes' )"`
	Off bool `parser:"| @( 'off' | 'false' | 'no' )"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a card script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a card script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}

// ParseFile parses r, reporting positions against filename.
func ParseFile(filename string, r io.Reader) (*Script, error) {
	return scriptParser.Parse(filename, r)
}
