package binding

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/redcanvas/dsl"
)

const sampleData = `{
  "issue": 7,
  "site": {"name": "Wayback Machine", "tags": ["archive", "web"]},
  "ratio": 1.25,
  "empty": null
}`

func decode(t *testing.T) any {
	t.Helper()
	data, err := Decode(strings.NewReader(sampleData))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t)
	cases := map[string]string{
		"#0${issue}":               "#07",
		"${site.name}":             "Wayback Machine",
		"${ site.tags[1] }":        "web",
		"${ratio}x":                "1.25x",
		"[${empty}]":               "[]",
		"${site.tags[5]}":          "${site.tags[5]}",
		"${nope}":                  "${nope}",
		"${site.name.first}":       "${site.name.first}",
		"no placeholders":          "no placeholders",
		"${site.tags[x]}":          "${site.tags[x]}",
		"${issue}/${site.tags[0]}": "7/archive",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${issue}", nil); got != "${issue}" {
		t.Fatalf("nil data should keep placeholders, got %q", got)
	}
}

func TestBindScript(t *testing.T) {
	script, err := dsl.ParseString(`
title "今天介绍\n${site.name}"
highlight "${site.name}"
series "#0${issue}"
image "covers/${site.tags[0]}.png" 1.5
template classic
`)
	if err != nil {
		t.Fatal(err)
	}
	missing := Bind(script, decode(t))
	if len(missing) != 0 {
		t.Fatalf("unexpected missing placeholders: %v", missing)
	}
	got := []string{
		string(*script.Statements[0].Title),
		string(script.Statements[1].Highlight.Text),
		string(*script.Statements[2].Series),
		string(script.Statements[3].Image.Ref),
	}
	want := []string{"今天介绍\nWayback Machine", "Wayback Machine", "#07", "covers/archive.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bound text (-want +got):\n%s", diff)
	}
}

func TestBindReportsMissing(t *testing.T) {
	script, err := dsl.ParseString(`title "${a} ${b}"`)
	if err != nil {
		t.Fatal(err)
	}
	missing := Bind(script, map[string]any{"a": "x"})
	if diff := cmp.Diff([]string{"${b}"}, missing); diff != "" {
		t.Fatalf("missing (-want +got):\n%s", diff)
	}
	if got := string(*script.Statements[0].Title); got != "x ${b}" {
		t.Fatalf("title = %q", got)
	}
	if m := Missing("${z}", nil); len(m) != 1 {
		t.Fatalf("Missing = %v", m)
	}
}
