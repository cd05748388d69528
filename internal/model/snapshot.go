package model

import "slices"

// Snapshot is the complete application state: every persisted collection plus settings.
type Snapshot struct {
	Expenses              []Transaction          `json:"expenses"`
	Incomes               []Transaction          `json:"incomes"`
	Categories            []Category             `json:"categories"`
	IncomeCategories      []Category             `json:"incomeCategories"`
	RecurringTransactions []RecurringTransaction `json:"recurringTransactions"`
	Settings              Settings               `json:"settings"`
}

// NewSnapshot returns an empty snapshot with default settings and non-nil collections.
func NewSnapshot() Snapshot {
	s := Snapshot{Settings: DefaultSettings()}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones so they serialize as [].
func (s *Snapshot) Normalize() {
	if s.Expenses == nil {
		s.Expenses = []Transaction{}
	}
	if s.Incomes == nil {
		s.Incomes = []Transaction{}
	}
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	if s.IncomeCategories == nil {
		s.IncomeCategories = []Category{}
	}
	if s.RecurringTransactions == nil {
		s.RecurringTransactions = []RecurringTransaction{}
	}
}

// Clone returns a copy whose collections do not share backing arrays with s.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Expenses:              slices.Clone(s.Expenses),
		Incomes:               slices.Clone(s.Incomes),
		Categories:            slices.Clone(s.Categories),
		IncomeCategories:      slices.Clone(s.IncomeCategories),
		RecurringTransactions: slices.Clone(s.RecurringTransactions),
		Settings:              s.Settings,
	}
	c.Normalize()
	return c
}

// Transactions returns the collection for the given type.
func (s Snapshot) Transactions(typ TransactionType) []Transaction {
	if typ == TypeIncome {
		return s.Incomes
	}
	return s.Expenses
}

// CategoriesFor returns the category collection matching the transaction type.
func (s Snapshot) CategoriesFor(typ TransactionType) []Category {
	if typ == TypeIncome {
		return s.IncomeCategories
	}
	return s.Categories
}

// ResolveCategory looks up a category of the matching type.
func (s Snapshot) ResolveCategory(typ TransactionType, id string) (Category, bool) {
	return FindCategory(s.CategoriesFor(typ), id)
}

// CategoryName returns the category name, or UnknownCategoryName for a dangling reference.
func (s Snapshot) CategoryName(typ TransactionType, id string) string {
	if c, ok := s.ResolveCategory(typ, id); ok {
		return c.Name
	}
	return UnknownCategoryName
}

// Entries returns every expense and income tagged with its type, expenses first.
func (s Snapshot) Entries() []Entry {
	entries := Tag(s.Expenses, TypeExpense)
	return append(entries, Tag(s.Incomes, TypeIncome)...)
}
