package sheets

import (
	"time"

	"github.com/Veraticus/pocket-ledger/internal/aggregate"
	"github.com/Veraticus/pocket-ledger/internal/model"
)

// BuildReport assembles a report of s as of now.
func BuildReport(s model.Snapshot, now time.Time) Report {
	stats := aggregate.Dashboard(s, now)

	r := Report{
		Title:       "Ledger Report",
		GeneratedAt: now,
		Month:       now.Format("January 2006"),
		Currency:    s.Settings.Currency,
		Summary: []SummaryRow{
			{Label: "Month expenses", Amount: stats.MonthExpenses},
			{Label: "Month income", Amount: stats.MonthIncome},
			{Label: "Month balance", Amount: stats.MonthBalance},
			{Label: "Total expenses", Amount: stats.TotalExpenses},
			{Label: "Total income", Amount: stats.TotalIncome},
			{Label: "Total balance", Amount: stats.TotalBalance},
		},
	}

	for _, typ := range []model.TransactionType{model.TypeExpense, model.TypeIncome} {
		txns := s.Transactions(typ)
		whole := aggregate.Total(txns)
		for _, ct := range aggregate.Breakdown(txns, s.CategoriesFor(typ)) {
			share, _ := aggregate.Share(ct.Total, whole).Round(1).Float64()
			r.Categories = append(r.Categories, CategoryRow{
				Name:   ct.Name,
				Type:   typ.Label(),
				Amount: ct.Total,
				Count:  ct.Count,
				Share:  share,
			})
		}
	}

	for _, e := range aggregate.History(s, aggregate.Filter{}) {
		r.Transactions = append(r.Transactions, TransactionRow{
			Date:        e.Date,
			Type:        e.Type.Label(),
			Description: e.Description,
			Category:    s.CategoryName(e.Type, e.CategoryID),
			Detail:      e.Detail(e.Type),
			Amount:      e.Amount,
		})
	}

	return r
}
