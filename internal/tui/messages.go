package tui

import (
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/update"
)

// Section is one top-level screen of the TUI.
type Section int

// Sections in tab order.
const (
	SectionDashboard Section = iota
	SectionHistory
	SectionCalendar
	SectionRecurring
	SectionSearch
	sectionCount
)

// Title returns the tab label.
func (s Section) Title() string {
	switch s {
	case SectionHistory:
		return "History"
	case SectionCalendar:
		return "Calendar"
	case SectionRecurring:
		return "Recurring"
	case SectionSearch:
		return "Search"
	default:
		return "Dashboard"
	}
}

// switchDoneMsg clears the section switch guard.
type switchDoneMsg struct{}

// tickMsg drives notification expiry.
type tickMsg time.Time

// snapshotMsg carries the state after a mutation.
type snapshotMsg struct {
	snapshot model.Snapshot
}

// confirmRequestMsg asks the user a yes/no question on behalf of a ledger operation.
type confirmRequestMsg struct {
	reply  chan<- bool
	prompt string
}

// updateStatusMsg reports a change in the update flow.
type updateStatusMsg struct {
	status update.Status
}

// opDoneMsg reports the outcome of a background operation. Reported is set
// when the operation notifies its own failures.
type opDoneMsg struct {
	err      error
	action   string
	reported bool
}
