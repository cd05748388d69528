package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/update"
	tea "github.com/charmbracelet/bubbletea"
)

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// save persists the state. The ledger reports the outcome itself.
func (m Model) save() tea.Cmd {
	l, ctx := m.ledger, m.ctx
	return func() tea.Msg {
		return opDoneMsg{action: "save", err: l.Save(ctx)}
	}
}

// deleteSelected deletes the highlighted row after the ledger's confirmation.
func (m Model) deleteSelected() tea.Cmd {
	l, ctx := m.ledger, m.ctx

	if m.section == SectionRecurring {
		if m.selected >= len(m.snapshot.RecurringTransactions) {
			return nil
		}
		id := m.snapshot.RecurringTransactions[m.selected].ID
		return func() tea.Msg {
			return opDoneMsg{action: "delete recurring", err: l.DeleteRecurring(ctx, id)}
		}
	}

	entries := m.entries()
	if m.selected >= len(entries) {
		return nil
	}
	e := entries[m.selected]
	return func() tea.Msg {
		return opDoneMsg{action: "delete " + string(e.Type), err: l.DeleteTransaction(ctx, e.ID, e.Type)}
	}
}

func (m Model) checkUpdate() tea.Cmd {
	u, ctx := m.updater, m.ctx
	return func() tea.Msg {
		_, err := u.Check(ctx)
		return opDoneMsg{action: "check for updates", err: err, reported: true}
	}
}

// advanceUpdate runs the next step of the update flow for the current state.
func (m Model) advanceUpdate() tea.Cmd {
	u, ctx := m.updater, m.ctx
	switch m.updateStatus.State {
	case update.StateAvailable:
		return func() tea.Msg {
			_, err := u.Download(ctx)
			return opDoneMsg{action: "download update", err: err, reported: true}
		}
	case update.StateDownloaded:
		return func() tea.Msg {
			return opDoneMsg{action: "install update", err: u.Install(ctx), reported: true}
		}
	case update.StateIdle:
		return m.checkUpdate()
	default:
		return nil
	}
}

// handleOpDone surfaces errors the ledger and update checker do not report themselves.
func (m *Model) handleOpDone(msg opDoneMsg) {
	if msg.err == nil {
		return
	}
	switch {
	case errors.Is(msg.err, update.ErrInFlight):
		m.notify("Please wait for the current update step to finish", notify.LevelInfo)
		return
	case errors.Is(msg.err, update.ErrInvalidTransition):
		m.notify("Nothing to do: "+m.updateStatus.State.Label(), notify.LevelInfo)
		return
	case reported(msg):
		slog.Debug("Operation ended", "action", msg.action, "error", msg.err)
		return
	}

	slog.Warn("Operation failed", "action", msg.action, "error", msg.err)
	m.notify(fmt.Sprintf("Could not %s: %s", msg.action, common.UserMessage(msg.err)), notify.LevelError)
}

// reported tells whether the component that failed already notified the user.
func reported(msg opDoneMsg) bool {
	return msg.reported || ledger.Reported(msg.err)
}

func (m *Model) notify(message string, level notify.Level) {
	if m.center != nil {
		m.center.Notify(message, level, 0)
	}
}
