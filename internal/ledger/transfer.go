package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
)

// Document is the export file layout.
type Document struct {
	ExportDate            time.Time                    `json:"exportDate"`
	Version               string                       `json:"version,omitempty"`
	Expenses              []model.Transaction          `json:"expenses"`
	Incomes               []model.Transaction          `json:"incomes"`
	Categories            []model.Category             `json:"categories"`
	IncomeCategories      []model.Category             `json:"incomeCategories"`
	RecurringTransactions []model.RecurringTransaction `json:"recurringTransactions"`
	Settings              model.Settings               `json:"settings"`
}

// ExportFileName returns the default backup file name for the given day.
func ExportFileName(now time.Time) string {
	return "ledger_backup_" + model.FormatDate(now) + ".json"
}

// Export writes the full state as an indented JSON document. State is not modified.
func (l *Ledger) Export(w io.Writer) error {
	s := l.Snapshot()
	doc := Document{
		ExportDate:            l.now().UTC(),
		Version:               l.version,
		Expenses:              s.Expenses,
		Incomes:               s.Incomes,
		Categories:            s.Categories,
		IncomeCategories:      s.IncomeCategories,
		RecurringTransactions: s.RecurringTransactions,
		Settings:              s.Settings,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// imported is a parsed import document. Collections absent from the
// document are empty; recurring is only replaced when present.
type imported struct {
	settings              json.RawMessage
	expenses              []model.Transaction
	incomes               []model.Transaction
	categories            []model.Category
	incomeCategories      []model.Category
	recurringTransactions []model.RecurringTransaction
	hasRecurring          bool
}

// parseImport decodes an import document without touching any state.
func parseImport(data []byte) (*imported, error) {
	data = bytes.TrimSpace(data)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		if err == nil {
			err = fmt.Errorf("document is not an object")
		}
		return nil, common.NewUserError("Error while importing data: the file is not valid JSON",
			fmt.Errorf("%w: %w", ErrMalformedImport, err))
	}

	doc := &imported{settings: fields["settings"]}
	decode := func(key string, dst any) error {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return common.NewUserError("Error while importing data: "+key+" is invalid",
				fmt.Errorf("%w: %s: %w", ErrMalformedImport, key, err))
		}
		return nil
	}

	for key, dst := range map[string]any{
		"expenses":         &doc.expenses,
		"incomes":          &doc.incomes,
		"categories":       &doc.categories,
		"incomeCategories": &doc.incomeCategories,
	} {
		if err := decode(key, dst); err != nil {
			return nil, err
		}
	}
	if _, ok := fields["recurringTransactions"]; ok {
		doc.hasRecurring = true
		if err := decode("recurringTransactions", &doc.recurringTransactions); err != nil {
			return nil, err
		}
	}
	if _, err := model.DefaultSettings().Merge(doc.settings); err != nil {
		return nil, common.NewUserError("Error while importing data: settings are invalid",
			fmt.Errorf("%w: %w", ErrMalformedImport, err))
	}
	return doc, nil
}

// Import replaces the collections with those of the document read from r
// and merges its settings over the current ones. Malformed input leaves
// the state untouched.
func (l *Ledger) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	doc, err := parseImport(data)
	if err != nil {
		l.notifier.Notify(common.UserMessage(err), notify.LevelError, 0)
		return err
	}

	if err := l.confirmAction(ctx, "This will replace all your current data. Continue?"); err != nil {
		return err
	}

	l.mu.Lock()
	settings, err := l.state.Settings.Merge(doc.settings)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	l.state.Expenses = doc.expenses
	l.state.Incomes = doc.incomes
	l.state.Categories = doc.categories
	l.state.IncomeCategories = doc.incomeCategories
	if doc.hasRecurring {
		l.state.RecurringTransactions = doc.recurringTransactions
	}
	l.state.Settings = settings
	l.state.Normalize()
	l.mu.Unlock()

	l.configureNotifier(settings)
	return l.commit(ctx, "Data imported successfully", notify.LevelSuccess)
}
