// Package aggregate computes derived statistics over transaction collections.
// Every function is pure: inputs are never mutated and empty inputs reduce to
// zero values or empty slices.
package aggregate

import (
	"strings"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Total sums every amount in txns.
func Total(txns []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// TotalOn sums the amounts dated exactly on date (YYYY-MM-DD).
func TotalOn(txns []model.Transaction, date string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if t.Date == date {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// TotalForMonth sums the amounts whose date starts with month (YYYY-MM).
func TotalForMonth(txns []model.Transaction, month string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if strings.HasPrefix(t.Date, month+"-") {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// MonthKey returns the YYYY-MM key of the month containing t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonthKey returns the YYYY-MM key of the calendar month before the one containing t.
func PreviousMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(first.AddDate(0, -1, 0))
}

// CurrentMonthTotal sums the amounts in the month containing today.
func CurrentMonthTotal(txns []model.Transaction, today time.Time) decimal.Decimal {
	return TotalForMonth(txns, MonthKey(today))
}

// PreviousMonthTotal sums the amounts in the calendar month before today's.
func PreviousMonthTotal(txns []model.Transaction, today time.Time) decimal.Decimal {
	return TotalForMonth(txns, PreviousMonthKey(today))
}

// TrendPercent returns (current - previous) / previous * 100, or zero when previous is zero.
func TrendPercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
