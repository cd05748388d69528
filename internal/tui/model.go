// Package tui is the interactive terminal interface of the ledger.
package tui

import (
	"context"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/aggregate"
	"github.com/Veraticus/pocket-ledger/internal/calendar"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/Veraticus/pocket-ledger/internal/update"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the TUI state.
type Model struct {
	ctx           context.Context
	theme         themes.Theme
	now           func() time.Time
	ledger        *ledger.Ledger
	center        *notify.Center
	updater       *update.Checker
	calendar      *calendar.Engine
	confirm       *confirmRequestMsg
	keymap        KeyMap
	help          help.Model
	search        textinput.Model
	snapshot      model.Snapshot
	settings      model.Settings
	updateStatus  update.Status
	historyType   model.TransactionType
	breakdownType model.TransactionType
	section       Section
	trendPeriod   int
	selected      int
	width         int
	height        int
	switching     bool
	searching     bool
	quitting      bool
	canUpdate     bool
}

func newModel(ctx context.Context, cfg Config, updater *update.Checker) Model {
	search := textinput.New()
	search.Placeholder = "Search description, category, amount or date"
	search.CharLimit = 64

	snapshot := cfg.Ledger.Snapshot()
	settings := snapshot.Settings

	period := 0
	for i, days := range aggregate.TrendPeriods {
		if days == aggregate.DefaultTrendDays {
			period = i
		}
	}

	return Model{
		ctx:           ctx,
		theme:         themes.ForSettings(settings),
		now:           cfg.Now,
		ledger:        cfg.Ledger,
		center:        cfg.Center,
		updater:       updater,
		calendar:      calendar.NewEngine(calendar.WithClock(cfg.Now), calendar.WithLocation(cfg.Location)),
		keymap:        DefaultKeyMap(),
		help:          help.New(),
		search:        search,
		snapshot:      snapshot,
		settings:      settings,
		updateStatus:  updater.Status(),
		breakdownType: model.TypeExpense,
		trendPeriod:   period,
		width:         cfg.Width,
		height:        cfg.Height,
		canUpdate:     cfg.Host != nil,
	}
}

// Init starts the notification tick and, when enabled, the update check.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.canUpdate && m.settings.AutoUpdateEnabled {
		cmds = append(cmds, m.checkUpdate())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.center != nil {
			m.center.Active(time.Time(msg))
		}
		return m, tick()

	case switchDoneMsg:
		m.switching = false
		return m, nil

	case snapshotMsg:
		m.apply(msg.snapshot)
		return m, nil

	case confirmRequestMsg:
		m.confirm = &msg
		return m, nil

	case updateStatusMsg:
		m.updateStatus = msg.status
		return m, nil

	case opDoneMsg:
		m.handleOpDone(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply replaces the displayed state and keeps the selection in range.
func (m *Model) apply(s model.Snapshot) {
	m.snapshot = s
	if m.settings.Theme != s.Settings.Theme || m.settings.AccentColor != s.Settings.AccentColor {
		m.theme = themes.ForSettings(s.Settings)
	}
	m.settings = s.Settings
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := m.listLen()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// switchTo changes section unless a switch is already in flight. The guard
// clears itself after SwitchDebounce.
func (m *Model) switchTo(s Section) tea.Cmd {
	if m.switching || s == m.section {
		return nil
	}
	m.switching = true
	m.section = s
	m.selected = 0
	if s != SectionSearch {
		m.searching = false
		m.search.Blur()
	}
	return tea.Tick(SwitchDebounce, func(time.Time) tea.Msg {
		return switchDoneMsg{}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		switch {
		case key.Matches(msg, m.keymap.ForceQuit):
			m.answer(false)
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Confirm):
			m.answer(true)
		case key.Matches(msg, m.keymap.Cancel):
			m.answer(false)
		}
		return m, nil
	}

	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.selected = 0
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.NextSection):
		return m, m.switchTo((m.section + 1) % sectionCount)
	case key.Matches(msg, m.keymap.PrevSection):
		return m, m.switchTo((m.section + sectionCount - 1) % sectionCount)
	case key.Matches(msg, m.keymap.Sections):
		return m, m.switchTo(Section(msg.Runes[0] - '1'))
	case key.Matches(msg, m.keymap.Search):
		cmd := m.switchTo(SectionSearch)
		if m.section == SectionSearch {
			m.searching = true
			return m, tea.Batch(cmd, m.search.Focus())
		}
		return m, cmd
	case key.Matches(msg, m.keymap.Save):
		return m, m.save()
	case key.Matches(msg, m.keymap.Update):
		return m, m.advanceUpdate()
	}

	switch m.section {
	case SectionDashboard:
		m.handleDashboardKey(msg)
	case SectionCalendar:
		m.handleCalendarKey(msg)
	default:
		return m, m.handleListKey(msg)
	}
	return m, nil
}

func (m *Model) answer(ok bool) {
	m.confirm.reply <- ok
	m.confirm = nil
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keymap.Period):
		m.trendPeriod = (m.trendPeriod + 1) % len(aggregate.TrendPeriods)
	case key.Matches(msg, m.keymap.Breakdown):
		if m.breakdownType == model.TypeExpense {
			m.breakdownType = model.TypeIncome
		} else {
			m.breakdownType = model.TypeExpense
		}
	}
}

func (m *Model) handleCalendarKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keymap.Left):
		m.calendar.Previous()
	case key.Matches(msg, m.keymap.Right):
		m.calendar.Next()
	case key.Matches(msg, m.keymap.Up):
		m.calendar.SetDate(m.calendar.Current().AddDate(0, 0, -1))
	case key.Matches(msg, m.keymap.Down):
		m.calendar.SetDate(m.calendar.Current().AddDate(0, 0, 1))
	case key.Matches(msg, m.keymap.Today):
		m.calendar.Today()
	case key.Matches(msg, m.keymap.MonthView):
		_ = m.calendar.SwitchView(calendar.ViewMonth)
	case key.Matches(msg, m.keymap.WeekView):
		_ = m.calendar.SwitchView(calendar.ViewWeek)
	case key.Matches(msg, m.keymap.YearView):
		_ = m.calendar.SwitchView(calendar.ViewYear)
	case key.Matches(msg, m.keymap.Select):
		if m.calendar.View() == calendar.ViewYear {
			m.calendar.SelectYearDay(m.calendar.Current())
		}
	}
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.selected < m.listLen()-1 {
			m.selected++
		}
	case key.Matches(msg, m.keymap.Filter):
		if m.section == SectionHistory {
			m.historyType = nextType(m.historyType)
			m.selected = 0
		}
	case key.Matches(msg, m.keymap.Delete):
		return m.deleteSelected()
	}
	return nil
}

// nextType cycles all → expense → income → all.
func nextType(t model.TransactionType) model.TransactionType {
	switch t {
	case "":
		return model.TypeExpense
	case model.TypeExpense:
		return model.TypeIncome
	default:
		return ""
	}
}

// entries returns the list shown by the current section.
func (m Model) entries() []model.Entry {
	switch m.section {
	case SectionHistory:
		return aggregate.History(m.snapshot, aggregate.Filter{Type: m.historyType})
	case SectionSearch:
		return aggregate.Search(m.snapshot, m.search.Value()).Entries
	default:
		return nil
	}
}

func (m Model) listLen() int {
	if m.section == SectionRecurring {
		return len(m.snapshot.RecurringTransactions)
	}
	return len(m.entries())
}
