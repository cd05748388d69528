package aggregate

import (
	"fmt"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultTrendDays is the window used when no period is given.
const DefaultTrendDays = 30

// TrendPeriods are the windows offered by the dashboard period switch.
var TrendPeriods = []int{7, 30, 90, 365}

// TrendSeries holds parallel per-day series ending today, oldest first.
type TrendSeries struct {
	Dates    []string
	Labels   []string
	Expenses []decimal.Decimal
	Incomes  []decimal.Decimal
}

// Len returns the number of days in the series.
func (s TrendSeries) Len() int {
	return len(s.Dates)
}

// Trend buckets expenses and incomes per day over the days-long window ending
// on today. Days without transactions hold zero. A non-positive days uses
// DefaultTrendDays.
func Trend(expenses, incomes []model.Transaction, today time.Time, days int) TrendSeries {
	if days <= 0 {
		days = DefaultTrendDays
	}

	day := model.Day(today)
	series := TrendSeries{
		Dates:    make([]string, days),
		Labels:   make([]string, days),
		Expenses: make([]decimal.Decimal, days),
		Incomes:  make([]decimal.Decimal, days),
	}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := day.AddDate(0, 0, i-(days-1))
		key := model.FormatDate(d)
		series.Dates[i] = key
		series.Labels[i] = fmt.Sprintf("%d/%d", d.Day(), int(d.Month()))
		series.Expenses[i] = decimal.Zero
		series.Incomes[i] = decimal.Zero
		index[key] = i
	}

	for _, t := range expenses {
		if i, ok := index[t.Date]; ok {
			series.Expenses[i] = series.Expenses[i].Add(t.Amount)
		}
	}
	for _, t := range incomes {
		if i, ok := index[t.Date]; ok {
			series.Incomes[i] = series.Incomes[i].Add(t.Amount)
		}
	}

	return series
}
