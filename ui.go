package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
	colorBrand  = lipgloss.Color("#ff2442")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
)

// swatch renders a small block in hex colour c.
func swatch(c string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("    ")
}

// row joins a fixed-width label with the rest of the line.
func row(label string, parts ...string) string {
	return styleLabel.Render(label) + " " + strings.Join(parts, " ")
}
