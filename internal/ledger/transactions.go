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

// Draft is the user-entered content of a new expense or income.
type Draft struct {
	Amount        decimal.Decimal
	Description   string
	CategoryID    string
	Date          string
	PaymentMethod model.PaymentMethod
	Source        model.IncomeSource
}

// Validate checks the required fields. A zero amount counts as missing.
func (d Draft) Validate() error {
	var missing []string
	if d.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(d.Date) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return common.NewUserError("Please fill in all required fields",
			fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", ")))
	}
	if d.Amount.IsNegative() {
		return common.NewUserError("The amount must be positive", fmt.Errorf("%w: negative amount %s", ErrValidation, d.Amount))
	}
	if _, err := model.ParseDate(d.Date); err != nil {
		return common.NewUserError("The date must be in YYYY-MM-DD format", fmt.Errorf("%w: %w", ErrValidation, err))
	}
	return nil
}

// AddExpense validates d and records it as a new expense.
func (l *Ledger) AddExpense(ctx context.Context, d Draft) (model.Transaction, error) {
	return l.add(ctx, model.TypeExpense, d)
}

// AddIncome validates d and records it as a new income.
func (l *Ledger) AddIncome(ctx context.Context, d Draft) (model.Transaction, error) {
	return l.add(ctx, model.TypeIncome, d)
}

func (l *Ledger) add(ctx context.Context, typ model.TransactionType, d Draft) (model.Transaction, error) {
	if err := d.Validate(); err != nil {
		l.notifier.Notify(common.UserMessage(err), notify.LevelWarning, 0)
		return model.Transaction{}, err
	}

	tx := model.Transaction{
		ID:          l.newID(),
		Amount:      d.Amount,
		Description: strings.TrimSpace(d.Description),
		CategoryID:  d.CategoryID,
		Date:        d.Date,
		CreatedAt:   l.now().UTC(),
	}
	if typ == model.TypeExpense {
		tx.PaymentMethod = d.PaymentMethod
	} else {
		tx.Source = d.Source
	}

	l.mu.Lock()
	if typ == model.TypeExpense {
		l.state.Expenses = append(l.state.Expenses, tx)
	} else {
		l.state.Incomes = append(l.state.Incomes, tx)
	}
	settings := l.state.Settings
	l.mu.Unlock()

	msg := fmt.Sprintf("%s of %s added", typ.Label(), settings.FormatCurrency(tx.Amount))
	return tx, l.commit(ctx, msg, notify.LevelSuccess)
}

// DeleteExpense removes an expense after confirmation.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	return l.DeleteTransaction(ctx, id, model.TypeExpense)
}

// DeleteIncome removes an income after confirmation.
func (l *Ledger) DeleteIncome(ctx context.Context, id string) error {
	return l.DeleteTransaction(ctx, id, model.TypeIncome)
}

// DeleteTransaction removes the expense or income with id after confirmation.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string, typ model.TransactionType) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, typ)
	}
	if _, ok := l.find(id, typ); !ok {
		return fmt.Errorf("%s %s: %w", strings.ToLower(typ.Label()), id, common.ErrNotFound)
	}

	if err := l.confirmAction(ctx, fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(typ.Label()))); err != nil {
		return err
	}

	l.mu.Lock()
	remove := func(t model.Transaction) bool { return t.ID == id }
	if typ == model.TypeExpense {
		l.state.Expenses = slices.DeleteFunc(l.state.Expenses, remove)
	} else {
		l.state.Incomes = slices.DeleteFunc(l.state.Incomes, remove)
	}
	l.mu.Unlock()

	return l.commit(ctx, typ.Label()+" deleted", notify.LevelInfo)
}

// Find returns the expense or income with id.
func (l *Ledger) Find(id string, typ model.TransactionType) (model.Transaction, bool) {
	return l.find(id, typ)
}

func (l *Ledger) find(id string, typ model.TransactionType) (model.Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.state.Transactions(typ) {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// PrefillFrom returns a draft holding an existing transaction's fields.
// Transactions are immutable: an edit deletes the original and adds the
// modified draft as a new record.
func (l *Ledger) PrefillFrom(id string, typ model.TransactionType) (Draft, error) {
	t, ok := l.find(id, typ)
	if !ok {
		return Draft{}, fmt.Errorf("%s %s: %w", strings.ToLower(typ.Label()), id, common.ErrNotFound)
	}
	return Draft{
		Amount:        t.Amount,
		Description:   t.Description,
		CategoryID:    t.CategoryID,
		Date:          t.Date,
		PaymentMethod: t.PaymentMethod,
		Source:        t.Source,
	}, nil
}
