package main

import (
	"strings"
	"time"
)

// durationFlag parses "600ms" style values.
type durationFlag struct{ time.Duration }

func (d *durationFlag) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d *durationFlag) String() string { return d.Duration.String() }
func (d *durationFlag) Type() string   { return "duration" }

// unescapeNewlines lets shell users write "a\nb" for a two-line title.
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
