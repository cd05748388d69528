package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// EntryList renders a scrollable table of transactions.
type EntryList struct {
	Theme    themes.Theme
	Settings model.Settings
	Snapshot model.Snapshot
	Entries  []model.Entry
	Selected int
	Height   int
	Width    int
}

// Visible returns the window [start, end) of entries that fits Height with
// Selected kept in view.
func (l EntryList) Visible() (int, int) {
	n := len(l.Entries)
	if l.Height <= 0 || n <= l.Height {
		return 0, n
	}
	start := 0
	if l.Selected >= l.Height {
		start = l.Selected - l.Height + 1
	}
	return start, min(n, start+l.Height)
}

// View renders the table. A negative Selected highlights nothing.
func (l EntryList) View() string {
	if len(l.Entries) == 0 {
		return l.Theme.Faint.Render("No transactions")
	}

	descWidth := max(12, l.Width-64)
	header := l.Theme.Bold.Render(fmt.Sprintf("%-10s  %-*s  %-16s  %-10s  %12s", "Date", descWidth, "Description", "Category", "Detail", "Amount"))

	start, end := l.Visible()
	rows := make([]string, 0, end-start+1)
	rows = append(rows, header)
	for i := start; i < end; i++ {
		rows = append(rows, l.row(i, descWidth))
	}
	if end-start < len(l.Entries) {
		rows = append(rows, l.Theme.Faint.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(l.Entries))))
	}
	return strings.Join(rows, "\n")
}

func (l EntryList) row(i, descWidth int) string {
	e := l.Entries[i]
	amountStyle := l.Theme.Expense
	if e.Type == model.TypeIncome {
		amountStyle = l.Theme.Income
	}
	amount := amountStyle.Render(fmt.Sprintf("%12s", e.Type.Sign()+l.Settings.FormatCurrency(e.Amount)))

	line := fmt.Sprintf("%-10s  %-*s  %-16s  %-10s  %s",
		l.Settings.FormatDate(e.Date),
		descWidth, truncate(e.Description, descWidth),
		truncate(l.Snapshot.CategoryName(e.Type, e.CategoryID), 16),
		truncate(e.Detail(e.Type), 10),
		amount,
	)
	if i == l.Selected {
		return l.Theme.Highlighted.Render(line)
	}
	return line
}

// RenderRecurring renders the recurring transaction table.
func RenderRecurring(theme themes.Theme, settings model.Settings, s model.Snapshot) string {
	if len(s.RecurringTransactions) == 0 {
		return theme.Faint.Render("No recurring transactions")
	}

	lines := []string{theme.Bold.Render(fmt.Sprintf("%-24s  %-8s  %-16s  %-10s  %-10s  %12s", "Description", "Type", "Category", "Frequency", "Start", "Amount"))}
	for _, r := range s.RecurringTransactions {
		style := theme.Expense
		if r.Type == model.TypeIncome {
			style = theme.Income
		}
		status := ""
		if !r.IsActive {
			status = theme.Faint.Render(" (paused)")
		}
		lines = append(lines, fmt.Sprintf("%-24s  %-8s  %-16s  %-10s  %-10s  %s%s",
			truncate(r.Description, 24),
			r.Type.Label(),
			truncate(s.CategoryName(r.Type, r.CategoryID), 16),
			r.Frequency.Label(),
			settings.FormatDate(r.StartDate),
			style.Render(fmt.Sprintf("%12s", settings.FormatCurrency(r.Amount))),
			status,
		))
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
