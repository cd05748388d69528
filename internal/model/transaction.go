// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar-date layout used for every stored date.
const DateLayout = "2006-01-02"

func init() {
	// Amounts are stored as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType distinguishes expenses from incomes.
type TransactionType string

const (
	// TypeExpense marks money going out.
	TypeExpense TransactionType = "expense"
	// TypeIncome marks money coming in.
	TypeIncome TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Label returns the display label for the type.
func (t TransactionType) Label() string {
	switch t {
	case TypeExpense:
		return "Expense"
	case TypeIncome:
		return "Income"
	default:
		return string(t)
	}
}

// Sign returns the prefix used when rendering an amount of this type.
func (t TransactionType) Sign() string {
	if t == TypeExpense {
		return "-"
	}
	return "+"
}

// ParseTransactionType parses "expense" or "income", case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type %q: must be expense or income", s)
	}
	return t, nil
}

// PaymentMethod is how an expense was paid.
type PaymentMethod string

// Payment methods.
const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheck    PaymentMethod = "check"
)

// Label returns the display label, or the raw value for unknown methods.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentTransfer:
		return "Transfer"
	case PaymentCheck:
		return "Check"
	default:
		return string(p)
	}
}

// IncomeSource is where an income came from.
type IncomeSource string

// Income sources.
const (
	SourceSalary     IncomeSource = "salary"
	SourceFreelance  IncomeSource = "freelance"
	SourceInvestment IncomeSource = "investment"
	SourceGift       IncomeSource = "gift"
	SourceOther      IncomeSource = "other"
)

// Label returns the display label, or the raw value for unknown sources.
func (s IncomeSource) Label() string {
	switch s {
	case SourceSalary:
		return "Salary"
	case SourceFreelance:
		return "Freelance"
	case SourceInvestment:
		return "Investment"
	case SourceGift:
		return "Gift"
	case SourceOther:
		return "Other"
	default:
		return string(s)
	}
}

// Transaction represents a single expense or income.
// Records are never mutated after creation; an edit is a delete followed by a new entry.
type Transaction struct {
	CreatedAt     time.Time       `json:"createdAt"`
	Amount        decimal.Decimal `json:"amount"`
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"categoryId"`
	Date          string          `json:"date"` // YYYY-MM-DD
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Source        IncomeSource    `json:"source,omitempty"`
}

// Detail returns the payment method label for expenses and the source label for incomes.
func (t Transaction) Detail(typ TransactionType) string {
	if typ == TypeExpense {
		return t.PaymentMethod.Label()
	}
	return t.Source.Label()
}

// Entry is a transaction tagged with its type, as produced when expenses and
// incomes are listed together.
type Entry struct {
	Transaction
	Type TransactionType `json:"type"`
}

// Tag wraps each transaction in an Entry of the given type.
func Tag(txns []Transaction, typ TransactionType) []Entry {
	entries := make([]Entry, 0, len(txns))
	for _, t := range txns {
		entries = append(entries, Entry{Transaction: t, Type: typ})
	}
	return entries
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats t's calendar date as YYYY-MM-DD, ignoring its clock time.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to its calendar date at UTC midnight, keeping the wall-clock date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
