// Package testutil provides test fixtures for code built on the ledger: an
// in-memory store, a ledger with a fixed clock and helpers to seed records.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/storage"
	"github.com/shopspring/decimal"
)

// DefaultNow is the fixed time used when no clock is configured.
var DefaultNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// TestLedger is a ledger over an in-memory store.
type TestLedger struct {
	Ledger *ledger.Ledger
	Store  *storage.SQLiteStorage
	Now    time.Time
	t      *testing.T
}

// TestLedgerOptions configures SetupTestLedgerWithOptions.
type TestLedgerOptions struct {
	Now       time.Time
	Notifier  notify.Notifier
	Confirmer ledger.Confirmer
	Seed      func(context.Context, *ledger.Ledger) error
	Options   []ledger.Option
}

// SetupTestLedger creates a ledger at DefaultNow that discards notifications
// and approves every confirmation.
//
// Example:
//
//	tl := testutil.SetupTestLedger(t)
//	tl.MustAddExpense("Coffee", "3.20", "2024-03-15", "1")
func SetupTestLedger(t *testing.T, opts ...ledger.Option) *TestLedger {
	t.Helper()
	return SetupTestLedgerWithOptions(t, TestLedgerOptions{Options: opts})
}

// SetupTestLedgerWithOptions creates a ledger with custom options. The store
// is migrated before opening and closed on cleanup.
func SetupTestLedgerWithOptions(t *testing.T, opts TestLedgerOptions) *TestLedger {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = DefaultNow
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = ledger.AlwaysConfirm
	}

	base := []ledger.Option{
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithNotifier(notifier),
		ledger.WithConfirmer(confirmer),
	}
	l, err := ledger.Open(ctx, store, append(base, opts.Options...)...)
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}

	if opts.Seed != nil {
		if err := opts.Seed(ctx, l); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	return &TestLedger{Ledger: l, Store: store, Now: now, t: t}
}

// Clock returns the ledger's fixed clock.
func (tl *TestLedger) Clock() func() time.Time {
	now := tl.Now
	return func() time.Time { return now }
}

// MustAddExpense records an expense or fails the test.
func (tl *TestLedger) MustAddExpense(description, amount, date, categoryID string) model.Transaction {
	tl.t.Helper()
	return tl.mustAdd(model.TypeExpense, description, amount, date, categoryID)
}

// MustAddIncome records an income or fails the test.
func (tl *TestLedger) MustAddIncome(description, amount, date, categoryID string) model.Transaction {
	tl.t.Helper()
	return tl.mustAdd(model.TypeIncome, description, amount, date, categoryID)
}

func (tl *TestLedger) mustAdd(typ model.TransactionType, description, amount, date, categoryID string) model.Transaction {
	tl.t.Helper()

	value, err := decimal.NewFromString(amount)
	if err != nil {
		tl.t.Fatalf("invalid amount %q: %v", amount, err)
	}
	draft := ledger.Draft{Amount: value, Description: description, CategoryID: categoryID, Date: date}

	add := tl.Ledger.AddExpense
	if typ == model.TypeIncome {
		add = tl.Ledger.AddIncome
	}
	tx, err := add(context.Background(), draft)
	if err != nil {
		tl.t.Fatalf("failed to add %s %q: %v", typ, description, err)
	}
	return tx
}

// MustReload reopens the ledger from the store, as a restart would.
func (tl *TestLedger) MustReload(opts ...ledger.Option) *ledger.Ledger {
	tl.t.Helper()
	l, err := ledger.Open(context.Background(), tl.Store, append([]ledger.Option{ledger.WithClock(tl.Clock())}, opts...)...)
	if err != nil {
		tl.t.Fatalf("failed to reopen ledger: %v", err)
	}
	return l
}

// String describes the fixture in test failures.
func (tl *TestLedger) String() string {
	s := tl.Ledger.Snapshot()
	return fmt.Sprintf("ledger at %s: %d expenses, %d incomes", model.FormatDate(tl.Now), len(s.Expenses), len(s.Incomes))
}
