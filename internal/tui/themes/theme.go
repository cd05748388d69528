// Package themes holds the light and dark TUI palettes and the accent colors.
package themes

import (
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Bold         lipgloss.Style
	Faint        lipgloss.Style
	Selected     lipgloss.Style
	Highlighted  lipgloss.Style
	Card         lipgloss.Style
	RoundedBox   lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Expense      lipgloss.Style
	Income       lipgloss.Style
	StatusInfo   lipgloss.Style
	StatusError  lipgloss.Style
	StatusWarn   lipgloss.Style
	StatusOK     lipgloss.Style
	Name         string
	Accent       lipgloss.Color
	AccentAlt    lipgloss.Color
	Foreground   lipgloss.Color
	Background   lipgloss.Color
	Border       lipgloss.Color
	Muted        lipgloss.Color
	Success      lipgloss.Color
	Warning      lipgloss.Color
	Error        lipgloss.Color
	Info         lipgloss.Color
	ExpenseColor lipgloss.Color
	IncomeColor  lipgloss.Color
}

type accent struct {
	primary lipgloss.Color
	alt     lipgloss.Color
}

var accents = map[string]accent{
	"blue":   {"#667eea", "#4facfe"},
	"purple": {"#8e44ad", "#9b59b6"},
	"green":  {"#27ae60", "#2ecc71"},
	"red":    {"#e74c3c", "#ff416c"},
	"orange": {"#f39c12", "#e67e22"},
	"pink":   {"#e91e63", "#f093fb"},
	"teal":   {"#00bcd4", "#4dd0e1"},
	"indigo": {"#3f51b5", "#5c6bc0"},
}

type palette struct {
	foreground lipgloss.Color
	background lipgloss.Color
	border     lipgloss.Color
	muted      lipgloss.Color
	subtle     lipgloss.Color
	highlight  lipgloss.Color
}

var (
	lightPalette = palette{
		foreground: "#2c3e50",
		background: "#f8f9fa",
		border:     "#dee2e6",
		muted:      "#7f8c8d",
		subtle:     "#95a5a6",
		highlight:  "#e9ecef",
	}
	darkPalette = palette{
		foreground: "#ecf0f1",
		background: "#1a1a2e",
		border:     "#404040",
		muted:      "#737373",
		subtle:     "#a3a3a3",
		highlight:  "#2d2d44",
	}
)

// Light returns the light theme with the named accent. Unknown accents fall back to blue.
func Light(accentName string) Theme {
	return build("light", lightPalette, lookupAccent(accentName))
}

// Dark returns the dark theme with the named accent. Unknown accents fall back to blue.
func Dark(accentName string) Theme {
	return build("dark", darkPalette, lookupAccent(accentName))
}

// ForSettings returns the theme selected by the user's settings.
func ForSettings(s model.Settings) Theme {
	if s.Theme == "dark" {
		return Dark(s.AccentColor)
	}
	return Light(s.AccentColor)
}

// Default is the light theme with the blue accent.
var Default = Light("blue")

func lookupAccent(name string) accent {
	if a, ok := accents[name]; ok {
		return a
	}
	return accents["blue"]
}

func build(name string, p palette, a accent) Theme {
	const (
		success = lipgloss.Color("#27ae60")
		warning = lipgloss.Color("#f39c12")
		failure = lipgloss.Color("#e74c3c")
		info    = lipgloss.Color("#3498db")
	)

	return Theme{
		Name:         name,
		Accent:       a.primary,
		AccentAlt:    a.alt,
		Foreground:   p.foreground,
		Background:   p.background,
		Border:       p.border,
		Muted:        p.muted,
		Success:      success,
		Warning:      warning,
		Error:        failure,
		Info:         info,
		ExpenseColor: failure,
		IncomeColor:  success,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(a.primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(a.primary).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.highlight).
			Foreground(p.foreground),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(a.primary).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		Expense: lipgloss.NewStyle().Foreground(failure),
		Income:  lipgloss.NewStyle().Foreground(success),

		StatusOK: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarn: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(failure).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
	}
}

// CategoryIcons maps the stored category icon names to glyphs.
var CategoryIcons = map[string]string{
	"utensils":      "🍽",
	"car":           "🚗",
	"shopping-cart": "🛒",
	"gamepad":       "🎮",
	"heart":         "💊",
	"home":          "🏠",
	"briefcase":     "💼",
	"laptop-code":   "💻",
	"chart-line":    "📈",
	"gift":          "🎁",
	"star":          "⭐",
	"plus":          "➕",
	"tag":           "🏷",
}

// CategoryIcon returns the glyph for an icon name.
func CategoryIcon(name string) string {
	if icon, ok := CategoryIcons[name]; ok {
		return icon
	}
	return "📦"
}
