package aggregate

import (
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Stats are the headline figures shown on the dashboard.
type Stats struct {
	TodayExpenses         decimal.Decimal
	MonthExpenses         decimal.Decimal
	PreviousMonthExpenses decimal.Decimal
	MonthIncome           decimal.Decimal
	PreviousMonthIncome   decimal.Decimal
	TotalExpenses         decimal.Decimal
	TotalIncome           decimal.Decimal
	TotalBalance          decimal.Decimal
	MonthBalance          decimal.Decimal
	DailyAverage          decimal.Decimal
	ExpensesTrend         decimal.Decimal
	IncomeTrend           decimal.Decimal
	BalanceTrend          decimal.Decimal
	TransactionCount      int
	CategoryCount         int
}

// Dashboard computes the dashboard statistics as of today.
func Dashboard(s model.Snapshot, today time.Time) Stats {
	month := MonthKey(today)
	previous := PreviousMonthKey(today)

	st := Stats{
		TodayExpenses:         TotalOn(s.Expenses, model.FormatDate(today)),
		MonthExpenses:         TotalForMonth(s.Expenses, month),
		PreviousMonthExpenses: TotalForMonth(s.Expenses, previous),
		MonthIncome:           TotalForMonth(s.Incomes, month),
		PreviousMonthIncome:   TotalForMonth(s.Incomes, previous),
		TotalExpenses:         Total(s.Expenses),
		TotalIncome:           Total(s.Incomes),
		TransactionCount:      len(s.Expenses) + len(s.Incomes),
		CategoryCount:         len(s.Categories) + len(s.IncomeCategories),
	}

	st.TotalBalance = st.TotalIncome.Sub(st.TotalExpenses)
	st.MonthBalance = st.MonthIncome.Sub(st.MonthExpenses)
	st.DailyAverage = st.MonthExpenses.Div(decimal.NewFromInt(int64(today.Day())))

	st.ExpensesTrend = TrendPercent(st.MonthExpenses, st.PreviousMonthExpenses)
	st.IncomeTrend = TrendPercent(st.MonthIncome, st.PreviousMonthIncome)
	st.BalanceTrend = decimal.Zero
	if st.PreviousMonthIncome.IsPositive() {
		st.BalanceTrend = TrendPercent(st.MonthBalance, st.PreviousMonthIncome.Sub(st.PreviousMonthExpenses))
	}

	return st
}
