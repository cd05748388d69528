package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/aggregate"
	"github.com/Veraticus/pocket-ledger/internal/calendar"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/tui/components"
	"github.com/Veraticus/pocket-ledger/internal/update"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.confirm != nil {
		body = m.renderConfirm()
	} else {
		body = m.renderSection()
	}

	parts := []string{m.renderTabs()}
	if toasts := m.renderToasts(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, body)
	if line := m.renderUpdateLine(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for s := SectionDashboard; s < sectionCount; s++ {
		label := fmt.Sprintf("%d %s", s+1, s.Title())
		if s == m.section {
			tabs = append(tabs, m.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(label))
		}
	}
	title := m.theme.Title.UnsetMargins().Render("Pocket Ledger")
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...)) + "\n"
}

func (m Model) renderToasts() string {
	if m.center == nil {
		return ""
	}
	now := m.now()
	toasts := components.RenderToasts(m.theme, m.center.Active(now), now, m.width/2)
	if toasts == "" {
		return ""
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toasts)
}

func (m Model) renderConfirm() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(m.confirm.prompt),
		"",
		m.theme.StatusOK.Render("[y] Yes")+"   "+m.theme.StatusError.Render("[n] No"),
	)
	box := m.theme.RoundedBox.BorderForeground(m.theme.Warning).Render(content)
	return lipgloss.Place(m.width, max(m.bodyHeight(), lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderUpdateLine() string {
	switch m.updateStatus.State {
	case update.StateIdle:
		return ""
	case update.StateDownloading:
		return m.theme.StatusInfo.Render(fmt.Sprintf("%s %d%%", m.updateStatus.State.Label(), m.updateStatus.Progress))
	case update.StateAvailable, update.StateDownloaded:
		label := m.updateStatus.State.Label()
		if m.updateStatus.Info != nil {
			label += " (" + m.updateStatus.Info.Version + ")"
		}
		return m.theme.StatusOK.Render(label) + m.theme.Faint.Render("  press u")
	default:
		return m.theme.StatusInfo.Render(m.updateStatus.State.Label())
	}
}

// bodyHeight is the space left for the section between the tabs and the help line.
func (m Model) bodyHeight() int {
	return max(5, m.height-6)
}

func (m Model) renderSection() string {
	switch m.section {
	case SectionHistory:
		return m.renderHistory()
	case SectionCalendar:
		return m.renderCalendar()
	case SectionRecurring:
		return m.renderRecurring()
	case SectionSearch:
		return m.renderSearch()
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderDashboard() string {
	now := m.now()
	stats := aggregate.Dashboard(m.snapshot, now)
	days := aggregate.TrendPeriods[m.trendPeriod]

	breakdownTitle := "Expenses by category"
	if m.breakdownType == model.TypeIncome {
		breakdownTitle = "Income by category"
	}
	breakdown := aggregate.Breakdown(m.snapshot.Transactions(m.breakdownType), m.snapshot.CategoriesFor(m.breakdownType))

	recent := components.EntryList{
		Theme:    m.theme,
		Settings: m.settings,
		Snapshot: m.snapshot,
		Entries:  model.Tag(aggregate.Recent(m.snapshot.Expenses, aggregate.DefaultRecentCount), model.TypeExpense),
		Selected: -1,
		Width:    m.width,
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderStatCards(m.theme, components.DashboardCards(stats, m.settings), m.width),
		"",
		components.RenderTrend(m.theme, aggregate.Trend(m.snapshot.Expenses, m.snapshot.Incomes, now, days), m.settings, m.width),
		"",
		m.theme.Subtitle.Render(breakdownTitle),
		components.RenderBreakdown(m.theme, breakdown, m.settings, m.width),
		"",
		m.theme.Subtitle.Render("Recent expenses"),
		recent.View(),
	)
}

func (m Model) entryList(entries []model.Entry, reserved int) components.EntryList {
	return components.EntryList{
		Theme:    m.theme,
		Settings: m.settings,
		Snapshot: m.snapshot,
		Entries:  entries,
		Selected: m.selected,
		Height:   max(3, m.bodyHeight()-reserved),
		Width:    m.width,
	}
}

func (m Model) renderHistory() string {
	filter := "All transactions"
	switch m.historyType {
	case model.TypeExpense:
		filter = "Expenses only"
	case model.TypeIncome:
		filter = "Income only"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render(filter),
		m.entryList(m.entries(), 3).View(),
	)
}

func (m Model) renderSearch() string {
	result := aggregate.Search(m.snapshot, m.search.Value())

	var body string
	switch {
	case !result.Active:
		body = m.theme.Faint.Render(fmt.Sprintf("Type at least %d characters", aggregate.MinSearchLength))
	case result.Empty():
		body = m.theme.Faint.Render(fmt.Sprintf("No results for %q", result.Query))
	default:
		body = m.entryList(result.Entries, 4).View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.search.View(), "", body)
}

func (m Model) renderRecurring() string {
	rows := strings.Split(components.RenderRecurring(m.theme, m.settings, m.snapshot), "\n")
	if len(m.snapshot.RecurringTransactions) > 0 && m.selected+1 < len(rows) {
		rows[m.selected+1] = m.theme.Highlighted.Render(rows[m.selected+1])
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderCalendar() string {
	current := m.calendar.Current()
	selected := model.FormatDate(current)
	header := m.theme.Bold.Render(m.calendar.Header())

	switch m.calendar.View() {
	case calendar.ViewWeek:
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			components.RenderWeek(m.theme, m.calendar.Week(m.snapshot), m.settings))
	case calendar.ViewYear:
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			components.RenderYear(m.theme, m.calendar.Year(m.snapshot), selected))
	default:
		grid := components.RenderMonth(m.theme, m.calendar.Month(m.snapshot), selected)
		detail := components.RenderDayDetail(m.theme, current, calendar.EventsForDate(m.snapshot, selected), m.settings)
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", detail))
	}
}
