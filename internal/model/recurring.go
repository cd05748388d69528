package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring transaction repeats.
type Frequency string

// Supported frequencies.
const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Label returns the display label for the frequency.
func (f Frequency) Label() string {
	switch f {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Yearly:
		return "Yearly"
	default:
		return string(f)
	}
}

// ParseFrequency parses a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return f, nil
	default:
		return "", fmt.Errorf("invalid frequency %q: must be daily, weekly, monthly or yearly", s)
	}
}

// RecurringTransaction is a declarative template for a transaction that repeats.
// It is informational only: nothing materializes concrete transactions from it.
type RecurringTransaction struct {
	CreatedAt   time.Time       `json:"createdAt"`
	Amount      decimal.Decimal `json:"amount"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   string          `json:"startDate"`
	IsActive    bool            `json:"isActive"`
}
