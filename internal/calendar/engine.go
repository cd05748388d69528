package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
)

// View is the calendar's granularity.
type View string

// Calendar views.
const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewYear  View = "year"
)

// ParseView parses a view name.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewMonth, ViewWeek, ViewYear:
		return v, nil
	default:
		return "", fmt.Errorf("invalid calendar view %q: must be month, week or year", s)
	}
}

// Engine holds the calendar's reference date and view mode.
type Engine struct {
	current time.Time
	now     func() time.Time
	loc     *time.Location
	view    View
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the zone used to place events by creation hour.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// NewEngine creates an engine in month view positioned on today.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.Local, view: ViewMonth}
	for _, opt := range opts {
		opt(e)
	}
	e.current = model.Day(e.now())
	return e
}

// Current returns the reference date.
func (e *Engine) Current() time.Time {
	return e.current
}

// View returns the active view.
func (e *Engine) View() View {
	return e.view
}

// SetDate moves the reference date without changing the view.
func (e *Engine) SetDate(t time.Time) {
	e.current = model.Day(t)
}

// SwitchView changes the view. The reference date is kept.
func (e *Engine) SwitchView(v View) error {
	switch v {
	case ViewMonth, ViewWeek, ViewYear:
		e.view = v
		return nil
	default:
		return fmt.Errorf("invalid calendar view %q", v)
	}
}

// Navigate moves the reference date by direction units of the active view.
func (e *Engine) Navigate(direction int) {
	switch e.view {
	case ViewWeek:
		e.current = e.current.AddDate(0, 0, 7*direction)
	case ViewYear:
		e.current = addMonths(e.current, 12*direction)
	default:
		e.current = addMonths(e.current, direction)
	}
}

// Previous moves back one unit of the active view.
func (e *Engine) Previous() {
	e.Navigate(-1)
}

// Next moves forward one unit of the active view.
func (e *Engine) Next() {
	e.Navigate(1)
}

// Today resets the reference date to the current date, keeping the view.
func (e *Engine) Today() {
	e.current = model.Day(e.now())
}

// SelectYearDay opens the month view on a day picked from the year view.
func (e *Engine) SelectYearDay(date time.Time) {
	e.current = model.Day(date)
	e.view = ViewMonth
}

// Header returns the title for the active view.
func (e *Engine) Header() string {
	return Header(e.view, e.current)
}

// Month builds the month grid for the reference date.
func (e *Engine) Month(s model.Snapshot) Month {
	return BuildMonth(s, e.current, e.now())
}

// Week builds the week containing the reference date.
func (e *Engine) Week(s model.Snapshot) Week {
	return BuildWeek(s, e.current, e.now(), e.loc)
}

// Year builds the year of the reference date.
func (e *Engine) Year(s model.Snapshot) Year {
	return BuildYear(s, e.current, e.now())
}

// Header returns the calendar title for view at ref: "March 2024",
// "March 4-10, 2024" or "26 February - 3 March, 2024", and "2024".
func Header(view View, ref time.Time) string {
	switch view {
	case ViewWeek:
		start := WeekStart(ref)
		end := start.AddDate(0, 0, 6)
		if start.Month() == end.Month() {
			return fmt.Sprintf("%s %d-%d, %d", start.Month(), start.Day(), end.Day(), ref.Year())
		}
		return fmt.Sprintf("%d %s - %d %s, %d", start.Day(), start.Month(), end.Day(), end.Month(), ref.Year())
	case ViewYear:
		return fmt.Sprintf("%d", ref.Year())
	default:
		return fmt.Sprintf("%s %d", ref.Month(), ref.Year())
	}
}

// addMonths shifts t by n calendar months, clamping the day to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := min(t.Day(), DaysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
