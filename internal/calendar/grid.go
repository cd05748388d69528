// Package calendar builds month, week and year grids of transactions and
// tracks the calendar's reference date and view mode.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
)

const (
	// GridCells is the fixed size of every month grid: six rows of seven days.
	GridCells = 42
	// HourSlots is the number of hourly rows in the week view.
	HourSlots = 24
	// SlotHeight is the vertical offset of one hour in the week view.
	SlotHeight = 60
)

// Event is a transaction shown on a calendar day, with its category resolved.
type Event struct {
	model.Entry
	Category model.Category
	Resolved bool
}

// CategoryName returns the category name, or the unknown-category label.
func (e Event) CategoryName() string {
	if e.Resolved {
		return e.Category.Name
	}
	return model.UnknownCategoryName
}

// Cell is one day of a month grid.
type Cell struct {
	Date      time.Time
	Events    []Event
	Day       int
	InMonth   bool
	Today     bool
	HasEvents bool
}

// Key returns the cell's YYYY-MM-DD date.
func (c Cell) Key() string {
	return model.FormatDate(c.Date)
}

// Month is a 42-cell grid for one calendar month, Monday first.
type Month struct {
	Cells []Cell
	Year  int
	Month time.Month
}

// InMonthDays returns the number of cells belonging to the month itself.
func (m Month) InMonthDays() int {
	n := 0
	for _, c := range m.Cells {
		if c.InMonth {
			n++
		}
	}
	return n
}

// WeekEvent is an event placed in the week view by the hour it was created.
type WeekEvent struct {
	Event
	Hour   int
	Offset int
}

// WeekDay is one column of the week view.
type WeekDay struct {
	Date   time.Time
	Events []WeekEvent
	Today  bool
}

// Week is the seven days starting on a Monday.
type Week struct {
	Start time.Time
	End   time.Time
	Days  []WeekDay
}

// Year holds twelve month grids that carry only a has-events flag per day.
type Year struct {
	Months []Month
	Year   int
}

// EventsForDate returns the expenses and incomes dated on date, in creation order.
func EventsForDate(s model.Snapshot, date string) []Event {
	return indexEvents(s, func(d string) bool { return d == date }).on(date)
}

// eventIndex groups events by YYYY-MM-DD date, each group in creation order.
type eventIndex map[string][]Event

// indexEvents walks the snapshot once, keeping entries whose date passes keep.
func indexEvents(s model.Snapshot, keep func(date string) bool) eventIndex {
	idx := make(eventIndex)
	for _, e := range s.Entries() {
		if !keep(e.Date) {
			continue
		}
		cat, ok := s.ResolveCategory(e.Type, e.CategoryID)
		idx[e.Date] = append(idx[e.Date], Event{Entry: e, Category: cat, Resolved: ok})
	}
	for _, events := range idx {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		})
	}
	return idx
}

// between keeps dates in [from, to], both YYYY-MM-DD.
func between(from, to time.Time) func(string) bool {
	lo, hi := model.FormatDate(from), model.FormatDate(to)
	return func(d string) bool { return d >= lo && d <= hi }
}

func (idx eventIndex) on(date string) []Event {
	if events := idx[date]; len(events) > 0 {
		return events
	}
	return make([]Event, 0)
}

// FirstWeekdayOffset returns how many leading days precede the first of the
// month in a Monday-first grid. Monday is 0 and Sunday is 6.
func FirstWeekdayOffset(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonth lays out the 42-cell grid for the month containing ref. In-month
// cells get their events attached and are flagged when they fall on today.
func BuildMonth(s model.Snapshot, ref, today time.Time) Month {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	idx := indexEvents(s, between(first, first.AddDate(0, 1, -1)))
	return buildMonth(idx, ref.Year(), ref.Month(), model.Day(today), true)
}

func buildMonth(idx eventIndex, year int, month time.Month, today time.Time, bind bool) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -FirstWeekdayOffset(year, month))

	m := Month{Year: year, Month: month, Cells: make([]Cell, 0, GridCells)}
	for i := 0; i < GridCells; i++ {
		date := start.AddDate(0, 0, i)
		cell := Cell{Date: date, Day: date.Day(), InMonth: date.Month() == month}
		if cell.InMonth {
			cell.Today = date.Equal(today)
			events := idx.on(cell.Key())
			cell.HasEvents = len(events) > 0
			if bind {
				cell.Events = events
			}
		}
		m.Cells = append(m.Cells, cell)
	}
	return m
}

// WeekStart returns the Monday of the week containing t. A Sunday belongs to
// the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := model.Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// BuildWeek lays out the week containing ref. Events are positioned by the hour
// of their creation time in loc.
func BuildWeek(s model.Snapshot, ref, today time.Time, loc *time.Location) Week {
	if loc == nil {
		loc = time.Local
	}
	start := WeekStart(ref)
	todayDay := model.Day(today)
	idx := indexEvents(s, between(start, start.AddDate(0, 0, 6)))

	w := Week{Start: start, End: start.AddDate(0, 0, 6), Days: make([]WeekDay, 0, 7)}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		day := WeekDay{Date: date, Today: date.Equal(todayDay), Events: make([]WeekEvent, 0)}
		for _, e := range idx.on(model.FormatDate(date)) {
			hour := e.CreatedAt.In(loc).Hour()
			day.Events = append(day.Events, WeekEvent{Event: e, Hour: hour, Offset: hour * SlotHeight})
		}
		w.Days = append(w.Days, day)
	}
	return w
}

// HourLabels returns the labels of the week view's hourly rows.
func HourLabels() []string {
	labels := make([]string, HourSlots)
	for h := 0; h < HourSlots; h++ {
		labels[h] = fmt.Sprintf("%02d:00", h)
	}
	return labels
}

// BuildYear lays out all twelve months of ref's year without binding events.
func BuildYear(s model.Snapshot, ref, today time.Time) Year {
	y := Year{Year: ref.Year(), Months: make([]Month, 0, 12)}
	todayDay := model.Day(today)
	first := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	idx := indexEvents(s, between(first, first.AddDate(1, 0, -1)))
	for m := time.January; m <= time.December; m++ {
		y.Months = append(y.Months, buildMonth(idx, ref.Year(), m, todayDay, false))
	}
	return y
}
