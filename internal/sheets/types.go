package sheets

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryRow is one labelled figure of the report summary.
type SummaryRow struct {
	Label  string
	Amount decimal.Decimal
}

// CategoryRow represents a single row of a category breakdown.
type CategoryRow struct {
	Name   string
	Type   string
	Amount decimal.Decimal
	Count  int
	Share  float64
}

// TransactionRow represents a single row of the transaction list.
type TransactionRow struct {
	Date        string
	Type        string
	Description string
	Category    string
	Detail      string
	Amount      decimal.Decimal
}

// Report holds everything written to the spreadsheet.
type Report struct {
	GeneratedAt  time.Time
	Title        string
	Month        string
	Currency     string
	Summary      []SummaryRow
	Categories   []CategoryRow
	Transactions []TransactionRow
}
