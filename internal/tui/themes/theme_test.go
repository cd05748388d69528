package themes

import (
	"testing"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestForSettings(t *testing.T) {
	tests := []struct {
		name       string
		theme      string
		accent     string
		wantName   string
		wantAccent lipgloss.Color
	}{
		{name: "defaults", theme: "light", accent: "blue", wantName: "light", wantAccent: "#667eea"},
		{name: "dark teal", theme: "dark", accent: "teal", wantName: "dark", wantAccent: "#00bcd4"},
		{name: "unknown accent falls back", theme: "dark", accent: "chartreuse", wantName: "dark", wantAccent: "#667eea"},
		{name: "unknown theme is light", theme: "sepia", accent: "red", wantName: "light", wantAccent: "#e74c3c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.DefaultSettings()
			s.Theme = tt.theme
			s.AccentColor = tt.accent

			got := ForSettings(s)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantAccent, got.Accent)
		})
	}
}

func TestEveryAccentHasColors(t *testing.T) {
	for _, name := range model.AccentColors {
		_, ok := accents[name]
		assert.True(t, ok, name)
	}
}

func TestCategoryIcon(t *testing.T) {
	for _, c := range append(model.DefaultExpenseCategories(), model.DefaultIncomeCategories()...) {
		assert.NotEqual(t, "📦", CategoryIcon(c.Icon), c.Icon)
	}
	assert.Equal(t, "📦", CategoryIcon("unknown"))
}
