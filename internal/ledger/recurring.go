package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/shopspring/decimal"
)

// RecurringDraft is the user-entered content of a recurring transaction.
type RecurringDraft struct {
	Amount      decimal.Decimal
	Type        model.TransactionType
	Description string
	CategoryID  string
	Frequency   model.Frequency
	StartDate   string
}

// Validate checks the required fields, the type and the frequency.
func (d RecurringDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if d.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(d.StartDate) == "" {
		missing = append(missing, "start date")
	}
	if len(missing) > 0 {
		return common.NewUserError("Please fill in all required fields",
			fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", ")))
	}
	if d.Amount.IsNegative() {
		return common.NewUserError("The amount must be positive",
			fmt.Errorf("%w: negative amount %s", ErrValidation, d.Amount))
	}
	if _, err := model.ParseDate(d.StartDate); err != nil {
		return common.NewUserError("The start date must be in YYYY-MM-DD format",
			fmt.Errorf("%w: %w", ErrValidation, err))
	}
	if !d.Type.Valid() {
		return common.NewUserError("The type must be expense or income",
			fmt.Errorf("%w: unknown transaction type %q", ErrValidation, d.Type))
	}
	if _, err := model.ParseFrequency(string(d.Frequency)); err != nil {
		return common.NewUserError("The frequency must be daily, weekly, monthly or yearly",
			fmt.Errorf("%w: %w", ErrValidation, err))
	}
	return nil
}

// AddRecurring records a recurring transaction. It is informational only:
// no concrete transactions are ever generated from it.
func (l *Ledger) AddRecurring(ctx context.Context, d RecurringDraft) (model.RecurringTransaction, error) {
	if d.Type == "" {
		d.Type = model.TypeExpense
	}
	if d.Frequency == "" {
		d.Frequency = model.Monthly
	}
	if err := d.Validate(); err != nil {
		l.notifier.Notify(common.UserMessage(err), notify.LevelWarning, 0)
		return model.RecurringTransaction{}, err
	}

	rec := model.RecurringTransaction{
		ID:          l.newID(),
		Type:        d.Type,
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
		CategoryID:  d.CategoryID,
		Frequency:   d.Frequency,
		StartDate:   d.StartDate,
		IsActive:    true,
		CreatedAt:   l.now().UTC(),
	}

	l.mu.Lock()
	l.state.RecurringTransactions = append(l.state.RecurringTransactions, rec)
	l.mu.Unlock()

	return rec, l.commit(ctx, "Recurring transaction added", notify.LevelSuccess)
}

// DeleteRecurring removes a recurring transaction after confirmation.
func (l *Ledger) DeleteRecurring(ctx context.Context, id string) error {
	l.mu.Lock()
	exists := slices.ContainsFunc(l.state.RecurringTransactions, func(r model.RecurringTransaction) bool {
		return r.ID == id
	})
	l.mu.Unlock()

	if !exists {
		return fmt.Errorf("recurring transaction %s: %w", id, common.ErrNotFound)
	}

	if err := l.confirmAction(ctx, "Are you sure you want to delete this recurring transaction?"); err != nil {
		return err
	}

	l.mu.Lock()
	l.state.RecurringTransactions = slices.DeleteFunc(l.state.RecurringTransactions, func(r model.RecurringTransaction) bool {
		return r.ID == id
	})
	l.mu.Unlock()

	return l.commit(ctx, "Recurring transaction deleted", notify.LevelInfo)
}
