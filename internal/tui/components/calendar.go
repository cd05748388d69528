package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/calendar"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

var weekdayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RenderMonth draws a month grid. Days with events carry a dot; selected is a
// YYYY-MM-DD date to highlight.
func RenderMonth(theme themes.Theme, m calendar.Month, selected string) string {
	const cellWidth = 6

	header := make([]string, 0, 7)
	for _, h := range weekdayHeaders {
		header = append(header, theme.Faint.Width(cellWidth).Align(lipgloss.Center).Render(h))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for r := 0; r < calendar.GridCells/7; r++ {
		cells := make([]string, 0, 7)
		for _, c := range m.Cells[r*7 : r*7+7] {
			cells = append(cells, renderCell(theme, c, selected, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func renderCell(theme themes.Theme, c calendar.Cell, selected string, width int) string {
	label := fmt.Sprintf("%2d", c.Day)
	if c.HasEvents {
		label += "•"
	} else {
		label += " "
	}

	style := theme.Normal
	switch {
	case !c.InMonth:
		style = theme.Faint
	case c.Key() == selected:
		style = theme.Selected
	case c.Today:
		style = theme.Bold.Foreground(theme.Accent).Underline(true)
	}
	return style.Width(width).Align(lipgloss.Center).Render(label)
}

// RenderWeek lists each day of the week with its events at their hour.
func RenderWeek(theme themes.Theme, w calendar.Week, settings model.Settings) string {
	lines := make([]string, 0, len(w.Days)*2)
	for _, d := range w.Days {
		label := fmt.Sprintf("%s %s", d.Date.Format("Mon"), settings.FormatDate(model.FormatDate(d.Date)))
		if d.Today {
			label = theme.Bold.Foreground(theme.Accent).Render(label + " (today)")
		} else {
			label = theme.Bold.Render(label)
		}
		lines = append(lines, label)

		if len(d.Events) == 0 {
			lines = append(lines, theme.Faint.Render("  -"))
			continue
		}
		for _, e := range d.Events {
			lines = append(lines, fmt.Sprintf("  %02d:00  %s", e.Hour, eventLine(theme, e.Event, settings)))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderYear draws the twelve months as compact grids, four per row.
func RenderYear(theme themes.Theme, y calendar.Year, selected string) string {
	months := make([]string, 0, len(y.Months))
	for _, m := range y.Months {
		months = append(months, renderMiniMonth(theme, m, selected))
	}

	rows := make([]string, 0, 3)
	for i := 0; i < len(months); i += 4 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, months[i:min(i+4, len(months))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderMiniMonth(theme themes.Theme, m calendar.Month, selected string) string {
	lines := []string{theme.Bold.Render(m.Month.String())}
	for r := 0; r < calendar.GridCells/7; r++ {
		var b strings.Builder
		for _, c := range m.Cells[r*7 : r*7+7] {
			day := "  "
			if c.InMonth {
				day = fmt.Sprintf("%2d", c.Day)
			}
			style := theme.Faint
			switch {
			case !c.InMonth:
			case c.Key() == selected:
				style = theme.Selected
			case c.Today:
				style = theme.Bold.Foreground(theme.Accent).Underline(true)
			case c.HasEvents:
				style = theme.Bold.Foreground(theme.AccentAlt)
			}
			b.WriteString(style.Render(day) + " ")
		}
		lines = append(lines, b.String())
	}
	return lipgloss.NewStyle().MarginRight(2).MarginBottom(1).Render(strings.Join(lines, "\n"))
}

// RenderDayDetail lists the events of one day with their resolved categories.
func RenderDayDetail(theme themes.Theme, date time.Time, events []calendar.Event, settings model.Settings) string {
	title := theme.Bold.Render(settings.FormatDate(model.FormatDate(date)))
	if len(events) == 0 {
		return title + "\n" + theme.Faint.Render("No transactions on this day")
	}
	lines := []string{title}
	for _, e := range events {
		lines = append(lines, eventLine(theme, e, settings))
	}
	return strings.Join(lines, "\n")
}

func eventLine(theme themes.Theme, e calendar.Event, settings model.Settings) string {
	style := theme.Expense
	if e.Type == model.TypeIncome {
		style = theme.Income
	}
	icon := themes.CategoryIcon("")
	if e.Resolved {
		icon = themes.CategoryIcon(e.Category.Icon)
	}
	return fmt.Sprintf("%s %s %s %s",
		icon,
		e.Description,
		theme.Faint.Render("("+e.CategoryName()+")"),
		style.Render(e.Type.Sign()+settings.FormatCurrency(e.Amount)),
	)
}
