package aggregate

import (
	"sort"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the sum of one category's transactions.
type CategoryTotal struct {
	Total decimal.Decimal
	Name  string
	Color string
	Icon  string
	Count int
}

// Breakdown groups txns by resolved category name, largest total first.
// Transactions whose category cannot be resolved are left out.
func Breakdown(txns []model.Transaction, categories []model.Category) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	order := make([]string, 0)

	for _, t := range txns {
		cat, ok := model.FindCategory(categories, t.CategoryID)
		if !ok {
			continue
		}
		entry, seen := byName[cat.Name]
		if !seen {
			entry = &CategoryTotal{Name: cat.Name, Color: cat.Color, Icon: cat.Icon, Total: decimal.Zero}
			byName[cat.Name] = entry
			order = append(order, cat.Name)
		}
		entry.Total = entry.Total.Add(t.Amount)
		entry.Count++
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		result = append(result, *byName[name])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// Share returns part as a percentage of whole, or zero when whole is zero.
func Share(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
