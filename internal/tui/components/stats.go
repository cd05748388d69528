// Package components renders the ledger's dashboard, tables, calendars and
// notifications as plain strings with lipgloss.
package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/aggregate"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// StatCard is one headline figure on the dashboard.
type StatCard struct {
	Trend decimal.Decimal
	Label string
	Value string
	// HasTrend shows the trend line. InverseTrend marks a rise as bad.
	HasTrend     bool
	InverseTrend bool
}

// DashboardCards builds the dashboard's cards from computed stats.
func DashboardCards(st aggregate.Stats, settings model.Settings) []StatCard {
	return []StatCard{
		{Label: "Balance", Value: settings.FormatCurrency(st.TotalBalance), Trend: st.BalanceTrend, HasTrend: true},
		{Label: "This month expenses", Value: settings.FormatCurrency(st.MonthExpenses), Trend: st.ExpensesTrend, HasTrend: true, InverseTrend: true},
		{Label: "This month income", Value: settings.FormatCurrency(st.MonthIncome), Trend: st.IncomeTrend, HasTrend: true},
		{Label: "Today", Value: settings.FormatCurrency(st.TodayExpenses)},
		{Label: "Daily average", Value: settings.FormatCurrency(st.DailyAverage)},
		{Label: "Transactions", Value: fmt.Sprintf("%d", st.TransactionCount)},
	}
}

// TrendLabel formats a percentage change as "+12.5%" or "-3.0%".
func TrendLabel(pct decimal.Decimal) string {
	sign := ""
	if pct.IsPositive() {
		sign = "+"
	}
	return sign + pct.StringFixed(1) + "%"
}

// RenderStatCards lays the cards out in rows that fit width.
func RenderStatCards(theme themes.Theme, cards []StatCard, width int) string {
	const cardWidth = 24
	perRow := max(1, width/(cardWidth+2))

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		lines := []string{theme.Faint.Render(c.Label), theme.Bold.Render(c.Value)}
		if c.HasTrend {
			style := theme.Income
			if c.Trend.IsNegative() != c.InverseTrend && !c.Trend.IsZero() {
				style = theme.Expense
			}
			if c.Trend.IsZero() {
				style = theme.Faint
			}
			lines = append(lines, style.Render(TrendLabel(c.Trend)+" vs last month"))
		}
		rendered = append(rendered, theme.Card.Width(cardWidth).Render(strings.Join(lines, "\n")))
	}

	rows := make([]string, 0, len(rendered)/perRow+1)
	for i := 0; i < len(rendered); i += perRow {
		end := min(i+perRow, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as block characters, summing adjacent values into
// buckets when there are more values than width. Zero draws a space.
func Sparkline(values []decimal.Decimal, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	buckets := values
	if len(values) > width {
		buckets = make([]decimal.Decimal, width)
		for i := range buckets {
			buckets[i] = decimal.Zero
		}
		for i, v := range values {
			b := i * width / len(values)
			buckets[b] = buckets[b].Add(v)
		}
	}

	peak := decimal.Zero
	for _, v := range buckets {
		if v.GreaterThan(peak) {
			peak = v
		}
	}

	var b strings.Builder
	top := decimal.NewFromInt(int64(len(sparkTicks) - 1))
	for _, v := range buckets {
		if !v.IsPositive() || peak.IsZero() {
			b.WriteRune(' ')
			continue
		}
		idx := int(v.Div(peak).Mul(top).Round(0).IntPart())
		b.WriteRune(sparkTicks[idx])
	}
	return b.String()
}

// RenderTrend draws the expense and income sparklines for a series with their totals.
func RenderTrend(theme themes.Theme, series aggregate.TrendSeries, settings model.Settings, width int) string {
	lineWidth := max(10, width-34)
	title := theme.Subtitle.Render(fmt.Sprintf("Last %d days", series.Len()))
	if series.Len() == 0 {
		return title
	}

	row := func(label string, style lipgloss.Style, values []decimal.Decimal) string {
		total := decimal.Zero
		for _, v := range values {
			total = total.Add(v)
		}
		return fmt.Sprintf("%-9s %s %s",
			label,
			style.Render(Sparkline(values, lineWidth)),
			theme.Bold.Render(settings.FormatCurrency(total)))
	}

	axis := theme.Faint.Render(fmt.Sprintf("%-9s %s → %s", "", series.Labels[0], series.Labels[series.Len()-1]))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		row("Expenses", theme.Expense, series.Expenses),
		row("Income", theme.Income, series.Incomes),
		axis,
	)
}

// RenderBreakdown draws one bar per category, proportional to its share of the total.
func RenderBreakdown(theme themes.Theme, totals []aggregate.CategoryTotal, settings model.Settings, width int) string {
	if len(totals) == 0 {
		return theme.Faint.Render("No data for this period")
	}

	whole := decimal.Zero
	for _, t := range totals {
		whole = whole.Add(t.Total)
	}

	nameWidth := 0
	for _, t := range totals {
		nameWidth = max(nameWidth, lipgloss.Width(t.Name))
	}
	barWidth := max(10, width-nameWidth-30)

	lines := make([]string, 0, len(totals))
	for _, t := range totals {
		share := aggregate.Share(t.Total, whole)
		bar := progress.New(
			progress.WithSolidFill(t.Color),
			progress.WithoutPercentage(),
			progress.WithWidth(barWidth),
		)
		lines = append(lines, fmt.Sprintf("%s %-*s %s %6s%% %s",
			themes.CategoryIcon(t.Icon),
			nameWidth, t.Name,
			bar.ViewAs(share.Div(decimal.NewFromInt(100)).InexactFloat64()),
			share.StringFixed(1),
			theme.Bold.Render(settings.FormatCurrency(t.Total)),
		))
	}
	return strings.Join(lines, "\n")
}
