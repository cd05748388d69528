package aggregate

import (
	"slices"
	"sort"

	"github.com/Veraticus/pocket-ledger/internal/model"
)

// DefaultRecentCount is how many expenses the dashboard lists.
const DefaultRecentCount = 5

// Filter narrows the transaction history. Zero-valued fields match everything.
type Filter struct {
	From       string // inclusive YYYY-MM-DD
	To         string // inclusive YYYY-MM-DD
	CategoryID string
	Type       model.TransactionType // empty for both types
}

// Match reports whether e passes the filter.
func (f Filter) Match(e model.Entry) bool {
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}

// History returns the entries matching f, newest first.
func History(s model.Snapshot, f Filter) []model.Entry {
	entries := make([]model.Entry, 0)
	for _, e := range s.Entries() {
		if f.Match(e) {
			entries = append(entries, e)
		}
	}
	SortByDateDesc(entries)
	return entries
}

// Recent returns up to n expenses, newest date first.
func Recent(expenses []model.Transaction, n int) []model.Transaction {
	sorted := slices.Clone(expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []model.Transaction{}
	}
	return sorted
}
