package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/testutil"
	"github.com/Veraticus/pocket-ledger/internal/update"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = testutil.DefaultNow

func clock() time.Time { return testNow }

func newTestLedger(t *testing.T) *testutil.TestLedger {
	t.Helper()
	return testutil.SetupTestLedger(t)
}

func newTestModel(t *testing.T, tl *testutil.TestLedger) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Ledger = tl.Ledger
	cfg.Now = clock
	cfg.Location = time.UTC
	cfg.Center = notify.NewCenter(tl.Ledger.Settings(), clock)
	return newModel(context.Background(), cfg, update.NewChecker(nil))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestModel_SwitchIsDebounced(t *testing.T) {
	m := newTestModel(t, newTestLedger(t))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, SectionHistory, m.section)
	assert.True(t, m.switching)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
	assert.Equal(t, SectionHistory, m.section, "second switch ignored while in flight")

	m, _ = press(t, m, switchDoneMsg{})
	assert.False(t, m.switching)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, SectionCalendar, m.section)
}

func TestModel_SectionKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want Section
	}{
		{"number jumps", runes("4"), SectionRecurring},
		{"shift tab wraps", tea.KeyMsg{Type: tea.KeyShiftTab}, SectionSearch},
		{"slash opens search", runes("/"), SectionSearch},
		{"same section is a no-op", runes("1"), SectionDashboard},
	}

	l := newTestLedger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, l)
			m, _ = press(t, m, tt.key)
			assert.Equal(t, tt.want, m.section)
		})
	}
}

func TestModel_SearchInput(t *testing.T) {
	l := newTestLedger(t)
	l.MustAddExpense("Groceries", "42.10", "2024-03-14", "1")
	l.MustAddExpense("Bus ticket", "2.50", "2024-03-13", "1")
	m := newTestModel(t, l)

	m, _ = press(t, m, runes("/"))
	require.True(t, m.searching)

	for _, r := range "groc" {
		m, _ = press(t, m, runes(string(r)))
	}
	assert.Equal(t, "groc", m.search.Value())
	require.Len(t, m.entries(), 1)
	assert.Equal(t, "Groceries", m.entries()[0].Description)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searching)
	assert.Contains(t, m.View(), "Groceries")
}

func TestModel_ConfirmModal(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want bool
	}{
		{"yes", runes("y"), true},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, true},
		{"no", runes("n"), false},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, false},
	}

	l := newTestLedger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, l)
			reply := make(chan bool, 1)

			m, _ = press(t, m, confirmRequestMsg{prompt: "Delete this expense?", reply: reply})
			assert.Contains(t, m.View(), "Delete this expense?")

			// Section keys are swallowed while the modal is open.
			m, _ = press(t, m, runes("2"))
			assert.Equal(t, SectionDashboard, m.section)

			m, _ = press(t, m, tt.key)
			assert.Nil(t, m.confirm)
			assert.Equal(t, tt.want, <-reply)
		})
	}
}

func TestModel_DeleteSelected(t *testing.T) {
	l := newTestLedger(t)
	l.MustAddExpense("Coffee", "3.20", "2024-03-15", "1")
	keep := l.MustAddExpense("Lunch", "12.00", "2024-03-14", "1")
	m := newTestModel(t, l)

	m, _ = press(t, m, runes("2"))
	m, _ = press(t, m, switchDoneMsg{})
	require.Equal(t, 2, m.listLen())

	m, cmd := press(t, m, runes("d"))
	require.NotNil(t, cmd)
	done, ok := cmd().(opDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	m, _ = press(t, m, snapshotMsg{snapshot: l.Ledger.Snapshot()})
	require.Equal(t, 1, m.listLen())
	assert.Equal(t, keep.ID, m.entries()[0].ID)
	assert.Equal(t, 0, m.selected)
}

func TestModel_HistoryFilter(t *testing.T) {
	l := newTestLedger(t)
	l.MustAddExpense("Coffee", "3.20", "2024-03-15", "1")
	l.MustAddIncome("Salary", "1500", "2024-03-01", "inc1")

	m := newTestModel(t, l)
	m, _ = press(t, m, runes("2"))
	assert.Equal(t, 2, m.listLen())

	m, _ = press(t, m, runes("f"))
	assert.Equal(t, model.TypeExpense, m.historyType)
	assert.Equal(t, 1, m.listLen())

	m, _ = press(t, m, runes("f"))
	assert.Equal(t, model.TypeIncome, m.historyType)
	assert.Contains(t, m.View(), "Income only")

	m, _ = press(t, m, runes("f"))
	assert.Equal(t, model.TransactionType(""), m.historyType)
}

func TestModel_DashboardKeys(t *testing.T) {
	m := newTestModel(t, newTestLedger(t))
	start := m.trendPeriod

	m, _ = press(t, m, runes("p"))
	assert.Equal(t, start+1, m.trendPeriod)

	m, _ = press(t, m, runes("b"))
	assert.Equal(t, model.TypeIncome, m.breakdownType)
	assert.Contains(t, m.View(), "Income by category")

	m, _ = press(t, m, runes("b"))
	assert.Equal(t, model.TypeExpense, m.breakdownType)
}

func TestModel_CalendarKeys(t *testing.T) {
	m := newTestModel(t, newTestLedger(t))
	m, _ = press(t, m, runes("3"))

	m, _ = press(t, m, runes("l"))
	assert.Equal(t, time.April, m.calendar.Current().Month())

	m, _ = press(t, m, runes("w"))
	assert.Equal(t, "week", string(m.calendar.View()))

	m, _ = press(t, m, runes("t"))
	assert.Equal(t, 15, m.calendar.Current().Day())
	assert.Equal(t, time.March, m.calendar.Current().Month())

	m, _ = press(t, m, runes("m"))
	assert.Contains(t, m.View(), "March 2024")
}

func TestModel_HandleOpDone(t *testing.T) {
	tests := []struct {
		name    string
		msg     opDoneMsg
		wantMsg string
	}{
		{"success is silent", opDoneMsg{action: "save"}, ""},
		{"cancel is silent", opDoneMsg{action: "delete expense", err: ledger.ErrCancelled}, ""},
		{"reported is silent", opDoneMsg{action: "check for updates", err: errors.New("offline"), reported: true}, ""},
		{"update in flight", opDoneMsg{action: "download update", err: update.ErrInFlight}, "Please wait for the current update step to finish"},
		{"unexpected error", opDoneMsg{action: "delete recurring", err: errors.New("boom")}, "Could not delete recurring: boom"},
	}

	l := newTestLedger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, l)
			m, _ = press(t, m, tt.msg)

			active := m.center.Active(testNow)
			if tt.wantMsg == "" {
				assert.Empty(t, active)
				return
			}
			require.Len(t, active, 1)
			assert.Equal(t, tt.wantMsg, active[0].Message)
		})
	}
}

func TestModel_ViewSections(t *testing.T) {
	l := newTestLedger(t)
	l.MustAddExpense("Coffee", "3.20", "2024-03-15", "1")
	m := newTestModel(t, l)

	view := m.View()
	for s := SectionDashboard; s < sectionCount; s++ {
		assert.Contains(t, view, s.Title())
	}
	assert.Contains(t, view, "Recent expenses")
	assert.Contains(t, view, "Coffee")

	m, _ = press(t, m, runes("q"))
	assert.Empty(t, m.View())
}

func TestModel_UpdateStatusLine(t *testing.T) {
	m := newTestModel(t, newTestLedger(t))
	m, _ = press(t, m, updateStatusMsg{status: update.Status{
		State: update.StateAvailable,
		Info:  &update.Info{Version: "v1.4.0"},
	}})
	assert.Contains(t, m.View(), "v1.4.0")
}

func TestBridge_NotRunning(t *testing.T) {
	b := NewBridge()

	ok, err := b.Confirm(context.Background(), "Delete?")
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrNotRunning)

	// Refresh without a program is dropped.
	b.Refresh(model.Snapshot{})
	b.UpdateChanged(update.Status{})
}

func TestRun_RequiresLedger(t *testing.T) {
	err := Run(context.Background())
	require.Error(t, err)
}
