package aggregate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/pocket-ledger/internal/model"
)

// MinSearchLength is the shortest query that triggers a search.
const MinSearchLength = 2

// SearchResult is the outcome of a search. Active is false when the query was
// too short to search at all, which is distinct from an active search with no
// matches.
type SearchResult struct {
	Query   string
	Entries []model.Entry
	Active  bool
}

// Empty reports whether an active search found nothing.
func (r SearchResult) Empty() bool {
	return r.Active && len(r.Entries) == 0
}

// Search matches query case-insensitively against each transaction's
// description, resolved category name, amount and date. Matches from both
// types are returned newest first.
func Search(s model.Snapshot, query string) SearchResult {
	if utf8.RuneCountInString(query) < MinSearchLength {
		return SearchResult{Query: query}
	}

	term := strings.ToLower(query)
	entries := make([]model.Entry, 0)
	for _, e := range s.Entries() {
		if matches(s, e, term) {
			entries = append(entries, e)
		}
	}
	SortByDateDesc(entries)

	return SearchResult{Query: query, Entries: entries, Active: true}
}

func matches(s model.Snapshot, e model.Entry, term string) bool {
	if strings.Contains(strings.ToLower(e.Description), term) {
		return true
	}
	if cat, ok := s.ResolveCategory(e.Type, e.CategoryID); ok && strings.Contains(strings.ToLower(cat.Name), term) {
		return true
	}
	if strings.Contains(e.Amount.String(), term) {
		return true
	}
	return strings.Contains(e.Date, term)
}

// SortByDateDesc orders entries newest date first, most recently created first within a day.
func SortByDateDesc(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
