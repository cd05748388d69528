package components

import (
	"time"

	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// RenderToasts stacks the active notifications, oldest on top, each with a
// bar showing the time it has left.
func RenderToasts(theme themes.Theme, items []notify.Notification, now time.Time, width int) string {
	if len(items) == 0 {
		return ""
	}
	toastWidth := min(max(width, 20), 48)

	toasts := make([]string, 0, len(items))
	for _, n := range items {
		color := levelColor(theme, n.Level)
		heading := lipgloss.NewStyle().Bold(true).Foreground(color).Render(n.Level.Icon() + " " + n.Title())

		bar := progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithoutPercentage(),
			progress.WithWidth(toastWidth-4),
		)

		body := lipgloss.JoinVertical(lipgloss.Left,
			heading,
			theme.Normal.Render(n.Message),
			bar.ViewAs(n.Remaining(now)),
		)
		toasts = append(toasts, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Width(toastWidth).
			Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func levelColor(theme themes.Theme, level notify.Level) lipgloss.Color {
	switch level {
	case notify.LevelSuccess:
		return theme.Success
	case notify.LevelError:
		return theme.Error
	case notify.LevelWarning:
		return theme.Warning
	default:
		return theme.Info
	}
}
