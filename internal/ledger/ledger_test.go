package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// recorder captures notifications.
type recorder struct {
	messages []string
	levels   []notify.Level
}

func (r *recorder) Notify(message string, level notify.Level, _ time.Duration) {
	r.messages = append(r.messages, message)
	r.levels = append(r.levels, level)
}

func (r *recorder) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

// failingStore rejects every Save.
type failingStore struct {
	storage.Store
}

func (failingStore) Save(context.Context, model.Snapshot) error {
	return errors.New("disk full")
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *storage.SQLiteStorage, *recorder) {
	t.Helper()
	store := newTestStore(t)
	rec := &recorder{}
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()),
		WithNotifier(rec),
		WithVersion("1.2.3"),
	}
	l, err := Open(context.Background(), store, append(base, opts...)...)
	require.NoError(t, err)
	return l, store, rec
}

func expenseDraft(amount, date string) Draft {
	return Draft{
		Amount:        decimal.RequireFromString(amount),
		Description:   "Groceries",
		CategoryID:    "1",
		Date:          date,
		PaymentMethod: model.PaymentCard,
	}
}

func TestOpen_SeedsDefaults(t *testing.T) {
	ctx := context.Background()
	l, store, _ := newTestLedger(t)

	s := l.Snapshot()
	assert.Len(t, s.Categories, 6)
	assert.Len(t, s.IncomeCategories, 6)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted.Categories, 6, "seeded defaults are persisted")
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()
	refreshed := 0
	l, store, rec := newTestLedger(t, WithRefresh(func(model.Snapshot) { refreshed++ }))

	tx, err := l.AddExpense(ctx, expenseDraft("12.5", "2024-03-14"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", tx.ID)
	assert.Equal(t, testNow, tx.CreatedAt)
	assert.Equal(t, model.PaymentCard, tx.PaymentMethod)
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, "Expense of 12.50 € added", rec.last())

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted.Expenses, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(persisted.Expenses[0].Amount))
}

func TestAddIncome_IgnoresPaymentMethod(t *testing.T) {
	l, _, _ := newTestLedger(t)
	d := expenseDraft("1000", "2024-03-01")
	d.CategoryID = "inc1"
	d.Source = model.SourceSalary

	tx, err := l.AddIncome(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, tx.PaymentMethod)
	assert.Equal(t, model.SourceSalary, tx.Source)
	assert.Len(t, l.Snapshot().Incomes, 1)
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"zero amount", func(d *Draft) { d.Amount = decimal.Zero }},
		{"negative amount", func(d *Draft) { d.Amount = decimal.NewFromInt(-5) }},
		{"blank description", func(d *Draft) { d.Description = "  " }},
		{"missing category", func(d *Draft) { d.CategoryID = "" }},
		{"missing date", func(d *Draft) { d.Date = "" }},
		{"bad date", func(d *Draft) { d.Date = "15/03/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, rec := newTestLedger(t)
			d := expenseDraft("10", "2024-03-01")
			tt.mutate(&d)

			_, err := l.AddExpense(context.Background(), d)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, l.Snapshot().Expenses)
			assert.NotEmpty(t, common.UserMessage(err))
			if tt.name != "negative amount" && tt.name != "bad date" {
				assert.Equal(t, "Please fill in all required fields", rec.last())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		l, _, rec := newTestLedger(t)
		tx, err := l.AddExpense(ctx, expenseDraft("10", "2024-03-01"))
		require.NoError(t, err)

		require.NoError(t, l.DeleteExpense(ctx, tx.ID))
		assert.Empty(t, l.Snapshot().Expenses)
		assert.Equal(t, "Expense deleted", rec.last())
	})

	t.Run("declined", func(t *testing.T) {
		decline := ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
		l, _, _ := newTestLedger(t, WithConfirmer(decline))
		tx, err := l.AddExpense(ctx, expenseDraft("10", "2024-03-01"))
		require.NoError(t, err)

		err = l.DeleteExpense(ctx, tx.ID)
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Len(t, l.Snapshot().Expenses, 1)
	})

	t.Run("not found", func(t *testing.T) {
		l, _, _ := newTestLedger(t)
		err := l.DeleteIncome(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteCategory_Guard(t *testing.T) {
	ctx := context.Background()
	asked := 0
	counting := ConfirmFunc(func(context.Context, string) (bool, error) {
		asked++
		return true, nil
	})
	l, _, _ := newTestLedger(t, WithConfirmer(counting))

	_, err := l.AddExpense(ctx, expenseDraft("10", "2024-03-01"))
	require.NoError(t, err)

	err = l.DeleteCategory(ctx, "1")
	require.ErrorIs(t, err, ErrCategoryInUse)
	assert.Equal(t, 0, asked, "guard is checked before confirmation")
	assert.Len(t, l.Snapshot().Categories, 6)

	require.NoError(t, l.DeleteCategory(ctx, "2"))
	assert.Equal(t, 1, asked)
	assert.Len(t, l.Snapshot().Categories, 5)
}

func TestDeleteCategory_GuardAfterConfirmation(t *testing.T) {
	ctx := context.Background()
	var l *Ledger
	// An expense for the category arrives while the prompt is open.
	racing := ConfirmFunc(func(ctx context.Context, _ string) (bool, error) {
		d := expenseDraft("12", "2024-03-02")
		d.CategoryID = "2"
		_, err := l.AddExpense(ctx, d)
		return true, err
	})
	l, _, rec := newTestLedger(t, WithConfirmer(racing))

	err := l.DeleteCategory(ctx, "2")
	require.ErrorIs(t, err, ErrCategoryInUse)
	assert.True(t, Reported(err))
	assert.Contains(t, rec.last(), "used by expenses")

	s := l.Snapshot()
	assert.Len(t, s.Categories, 6)
	assert.Len(t, s.Expenses, 1)
}

func TestDeleteIncomeCategory_Unguarded(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	d := expenseDraft("500", "2024-03-01")
	d.CategoryID = "inc1"
	_, err := l.AddIncome(ctx, d)
	require.NoError(t, err)

	require.NoError(t, l.DeleteIncomeCategory(ctx, "inc1"))
	s := l.Snapshot()
	assert.Len(t, s.Incomes, 1)
	assert.Equal(t, model.UnknownCategoryName, s.CategoryName(model.TypeIncome, "inc1"))
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	cat, err := l.AddCategory(ctx, CategoryDraft{Name: " Pets "})
	require.NoError(t, err)
	assert.Equal(t, "Pets", cat.Name)
	assert.Equal(t, DefaultCategoryColor, cat.Color)
	assert.Equal(t, DefaultCategoryIcon, cat.Icon)

	found, ok := l.ResolveCategory(model.TypeExpense, "pets")
	require.True(t, ok)
	assert.Equal(t, cat.ID, found.ID)

	_, err = l.AddIncomeCategory(ctx, CategoryDraft{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecurring(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	rec, err := l.AddRecurring(ctx, RecurringDraft{
		Amount:      decimal.NewFromInt(900),
		Description: "Rent",
		CategoryID:  "5",
		StartDate:   "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeExpense, rec.Type)
	assert.Equal(t, model.Monthly, rec.Frequency)
	assert.True(t, rec.IsActive)
	assert.Empty(t, l.Snapshot().Expenses, "recurring entries are not materialized")

	_, err = l.AddRecurring(ctx, RecurringDraft{Description: "Rent"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, l.DeleteRecurring(ctx, rec.ID))
	assert.Empty(t, l.Snapshot().RecurringTransactions)
}

func TestRecurringValidationIsNotified(t *testing.T) {
	tests := []struct {
		name  string
		draft RecurringDraft
		want  string
	}{
		{"negative amount", RecurringDraft{Amount: decimal.NewFromInt(-5), Description: "Gym", CategoryID: "5", StartDate: "2024-01-01"}, "The amount must be positive"},
		{"bad date", RecurringDraft{Amount: decimal.NewFromInt(5), Description: "Gym", CategoryID: "5", StartDate: "01/01/2024"}, "The start date must be in YYYY-MM-DD format"},
		{"bad frequency", RecurringDraft{Amount: decimal.NewFromInt(5), Description: "Gym", CategoryID: "5", StartDate: "2024-01-01", Frequency: "hourly"}, "The frequency must be daily, weekly, monthly or yearly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, rec := newTestLedger(t)
			_, err := l.AddRecurring(context.Background(), tt.draft)
			require.ErrorIs(t, err, ErrValidation)
			assert.True(t, Reported(err))
			assert.Equal(t, tt.want, rec.last())
		})
	}
}

func TestReported(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrCancelled, true},
		{fmt.Errorf("wrapped: %w", ErrPersistence), true},
		{ErrCategoryInUse, true},
		{common.ErrNotFound, false},
		{errors.New("boom"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Reported(tt.err), "%v", tt.err)
	}
}

func TestPrefillFrom(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)
	tx, err := l.AddExpense(ctx, expenseDraft("42", "2024-03-02"))
	require.NoError(t, err)

	d, err := l.PrefillFrom(tx.ID, model.TypeExpense)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", d.Description)
	assert.True(t, d.Amount.Equal(decimal.NewFromInt(42)))

	_, err = l.PrefillFrom(tx.ID, model.TypeIncome)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// assertSameTransactions compares whole records, decimals and times by value.
func assertSameTransactions(t *testing.T, want, got []model.Transaction) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.True(t, w.Amount.Equal(g.Amount), "amount of %s", w.ID)
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "createdAt of %s", w.ID)
		w.Amount, g.Amount = decimal.Zero, decimal.Zero
		w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
		assert.Equal(t, w, g)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _, _ := newTestLedger(t)
	_, err := src.AddExpense(ctx, expenseDraft("50", "2024-03-01"))
	require.NoError(t, err)
	_, err = src.AddExpense(ctx, expenseDraft("30.25", "2024-03-15"))
	require.NoError(t, err)
	_, err = src.AddIncome(ctx, Draft{
		Amount:      decimal.RequireFromString("1500.50"),
		Description: "Salary",
		CategoryID:  "inc1",
		Date:        "2024-03-01",
		Source:      model.SourceSalary,
	})
	require.NoError(t, err)
	_, err = src.AddRecurring(ctx, RecurringDraft{
		Amount:      decimal.RequireFromString("9.99"),
		Type:        model.TypeExpense,
		Description: "Music",
		CategoryID:  "6",
		Frequency:   model.Weekly,
		StartDate:   "2024-01-01",
	})
	require.NoError(t, err)
	_, err = src.AddCategory(ctx, CategoryDraft{Name: "Pets", Color: "#123456", Icon: "paw"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf))
	assert.Contains(t, buf.String(), `"exportDate"`)
	assert.Contains(t, buf.String(), `"version": "1.2.3"`)

	dst, _, _ := newTestLedger(t)
	require.NoError(t, dst.Import(ctx, &buf))

	want, got := src.Snapshot(), dst.Snapshot()
	assertSameTransactions(t, want.Expenses, got.Expenses)
	assertSameTransactions(t, want.Incomes, got.Incomes)
	assert.Equal(t, model.SourceSalary, got.Incomes[0].Source)
	assert.Equal(t, want.Categories, got.Categories)
	assert.Equal(t, want.IncomeCategories, got.IncomeCategories)

	require.Len(t, got.RecurringTransactions, 1)
	w, g := want.RecurringTransactions[0], got.RecurringTransactions[0]
	assert.True(t, w.Amount.Equal(g.Amount))
	assert.True(t, w.CreatedAt.Equal(g.CreatedAt))
	w.Amount, g.Amount = decimal.Zero, decimal.Zero
	w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, w, g)
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed leaves state untouched", func(t *testing.T) {
		l, _, rec := newTestLedger(t)
		_, err := l.AddExpense(ctx, expenseDraft("10", "2024-03-01"))
		require.NoError(t, err)

		for _, doc := range []string{"{not json", "[1,2]", `{"expenses": "nope"}`, `{"settings": 5}`} {
			err := l.Import(ctx, strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrMalformedImport, doc)
		}
		assert.Len(t, l.Snapshot().Expenses, 1)
		assert.Contains(t, rec.last(), "Error while importing data")
	})

	t.Run("missing collections become empty and settings merge", func(t *testing.T) {
		l, _, _ := newTestLedger(t)
		_, err := l.AddRecurring(ctx, RecurringDraft{
			Amount: decimal.NewFromInt(9), Description: "Music", CategoryID: "6", StartDate: "2024-01-01",
		})
		require.NoError(t, err)

		err = l.Import(ctx, strings.NewReader(`{"incomes": [], "settings": {"currency": "$"}}`))
		require.NoError(t, err)

		s := l.Snapshot()
		assert.Empty(t, s.Expenses)
		assert.Empty(t, s.Categories)
		assert.Len(t, s.RecurringTransactions, 1, "absent recurring collection is kept")
		assert.Equal(t, "$", s.Settings.Currency)
		assert.Equal(t, model.DefaultSettings().Theme, s.Settings.Theme)
	})

	t.Run("declined", func(t *testing.T) {
		decline := ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
		l, _, _ := newTestLedger(t, WithConfirmer(decline))

		err := l.Import(ctx, strings.NewReader(`{}`))
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Len(t, l.Snapshot().Categories, 6)
	})
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "ledger_backup_2024-03-15.json", ExportFileName(testNow))
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	l, store, _ := newTestLedger(t)

	_, err := l.AddExpense(ctx, expenseDraft("10", "2024-03-01"))
	require.NoError(t, err)
	settings := l.Settings()
	settings.Currency = "$"
	require.NoError(t, l.UpdateSettings(ctx, settings))
	_, err = l.AddCategory(ctx, CategoryDraft{Name: "Pets"})
	require.NoError(t, err)

	require.NoError(t, l.ClearAll(ctx))

	s := l.Snapshot()
	assert.Empty(t, s.Expenses)
	assert.Len(t, s.Categories, 6)
	assert.Len(t, s.IncomeCategories, 6)
	assert.Equal(t, model.DefaultSettings(), s.Settings)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Expenses)
	assert.Equal(t, "€", persisted.Settings.Currency)
}

func TestPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rec := &recorder{}
	l, err := Open(ctx, store, WithNotifier(rec))
	require.NoError(t, err)
	l.store = failingStore{Store: store}

	_, err = l.AddExpense(ctx, expenseDraft("10", "2024-03-01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "Your changes could not be saved", common.UserMessage(err))
	assert.Len(t, l.Snapshot().Expenses, 1, "in-memory change is kept")
	assert.Equal(t, "Error while saving", rec.last())
	assert.Equal(t, notify.LevelError, rec.levels[len(rec.levels)-1])

	err = l.Save(ctx)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestAutoSaver(t *testing.T) {
	ctx := context.Background()

	t.Run("save now", func(t *testing.T) {
		l, _, rec := newTestLedger(t)
		require.NoError(t, NewAutoSaver(l).SaveNow(ctx))
		assert.Equal(t, "Auto-save complete", rec.last())
	})

	t.Run("disabled returns immediately", func(t *testing.T) {
		l, _, _ := newTestLedger(t)
		settings := l.Settings()
		settings.AutoSave = false
		require.NoError(t, l.UpdateSettings(ctx, settings))

		assert.NoError(t, NewAutoSaver(l).Run(ctx))
	})

	t.Run("runs until cancelled", func(t *testing.T) {
		l, _, _ := newTestLedger(t)
		settings := l.Settings()
		settings.AutoSaveInterval = 5
		require.NoError(t, l.UpdateSettings(ctx, settings))

		runCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		err := NewAutoSaver(l).Run(runCtx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
