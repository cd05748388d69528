package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func sampleSnapshot() model.Snapshot {
	s := model.NewSnapshot()
	s.Categories = model.DefaultExpenseCategories()
	s.IncomeCategories = model.DefaultIncomeCategories()
	s.Expenses = []model.Transaction{{
		ID:            "exp-1",
		Amount:        decimal.RequireFromString("42.10"),
		Description:   "Groceries",
		CategoryID:    "1",
		Date:          "2024-03-15",
		PaymentMethod: model.PaymentCard,
		CreatedAt:     time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}}
	s.Incomes = []model.Transaction{{
		ID:          "inc-1",
		Amount:      decimal.NewFromInt(2500),
		Description: "March salary",
		CategoryID:  "inc1",
		Date:        "2024-03-01",
		Source:      model.SourceSalary,
		CreatedAt:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}}
	s.RecurringTransactions = []model.RecurringTransaction{{
		ID:          "rec-1",
		Type:        model.TypeExpense,
		Description: "Rent",
		Amount:      decimal.NewFromInt(900),
		CategoryID:  "6",
		Frequency:   model.Monthly,
		StartDate:   "2024-01-01",
		IsActive:    true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	s.Settings.Currency = "$"
	return s
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Running again is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	if err := store.Migrate(ctx); err == nil {
		t.Error("Migrate() should refuse a newer schema")
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	snapshot, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snapshot.Expenses == nil || snapshot.Categories == nil || snapshot.RecurringTransactions == nil {
		t.Error("Load() should return non-nil collections")
	}
	if len(snapshot.Expenses) != 0 {
		t.Errorf("Load() expenses = %d, want 0", len(snapshot.Expenses))
	}
	if snapshot.Settings != model.DefaultSettings() {
		t.Errorf("Load() settings = %+v, want defaults", snapshot.Settings)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	want := sampleSnapshot()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(got.Expenses) != 1 || !got.Expenses[0].Amount.Equal(want.Expenses[0].Amount) {
		t.Errorf("expenses = %+v, want %+v", got.Expenses, want.Expenses)
	}
	if got.Expenses[0].Description != "Groceries" || !got.Expenses[0].CreatedAt.Equal(want.Expenses[0].CreatedAt) {
		t.Errorf("expense fields not preserved: %+v", got.Expenses[0])
	}
	if len(got.Incomes) != 1 || got.Incomes[0].Source != model.SourceSalary {
		t.Errorf("incomes = %+v", got.Incomes)
	}
	if len(got.Categories) != 6 || len(got.IncomeCategories) != 6 {
		t.Errorf("categories = %d/%d, want 6/6", len(got.Categories), len(got.IncomeCategories))
	}
	if len(got.RecurringTransactions) != 1 || got.RecurringTransactions[0].Frequency != model.Monthly {
		t.Errorf("recurring = %+v", got.RecurringTransactions)
	}
	if got.Settings.Currency != "$" {
		t.Errorf("settings currency = %q, want $", got.Settings.Currency)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != len(Keys) {
		t.Errorf("Keys() = %v, want all %d keys", keys, len(Keys))
	}
}

func TestSave_EmptyCollectionsAreArrays(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Save(ctx, model.Snapshot{Settings: model.DefaultSettings()}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, ok, err := store.Get(ctx, KeyExpenses)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(raw) != "[]" {
		t.Errorf("expenses document = %s, want []", raw)
	}
}

func TestLoad_MergesPartialSettings(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Put(ctx, KeySettings, []byte(`{"theme":"dark"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snapshot.Settings.Theme != "dark" {
		t.Errorf("theme = %q, want dark", snapshot.Settings.Theme)
	}
	if snapshot.Settings.AutoSaveInterval != 30000 || snapshot.Settings.Currency != "€" {
		t.Errorf("defaults not kept: %+v", snapshot.Settings)
	}
}

func TestLoad_CorruptValue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES ('expenses', '{"not":"an array"}')`); err != nil {
		t.Fatalf("failed to seed corrupt value: %v", err)
	}

	_, err := store.Load(ctx)
	if !errors.Is(err, ErrCorruptValue) {
		t.Errorf("Load() error = %v, want ErrCorruptValue", err)
	}
}

func TestKeyValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"get unknown", func() error { _, _, err := store.Get(ctx, "budgets"); return err }, ErrUnknownKey},
		{"put unknown", func() error { return store.Put(ctx, "budgets", []byte("[]")) }, ErrUnknownKey},
		{"delete unknown", func() error { return store.Delete(ctx, "budgets") }, ErrUnknownKey},
		{"empty key", func() error { _, _, err := store.Get(ctx, " "); return err }, ErrEmptyString},
		{"invalid json", func() error { return store.Put(ctx, KeyIncomes, []byte("{")) }, ErrCorruptValue},
		//nolint:staticcheck // nil context is the case under test
		{"nil context", func() error { _, _, err := store.Get(nil, KeyIncomes); return err }, ErrNilContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPutGetDelete(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, KeyIncomes); ok {
		t.Fatal("Get() on empty store should report missing")
	}
	if err := store.Put(ctx, KeyIncomes, []byte(`[]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(ctx, KeyIncomes, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	raw, ok, err := store.Get(ctx, KeyIncomes)
	if err != nil || !ok || string(raw) != `[{"id":"1"}]` {
		t.Errorf("Get() = %s, %v, %v", raw, ok, err)
	}
	if err := store.Delete(ctx, KeyIncomes); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, KeyIncomes); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, KeyIncomes); ok {
		t.Error("Get() after Delete() should report missing")
	}
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := store.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Errorf("Save() error = %v", err)
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); !errors.Is(err, ErrEmptyString) {
		t.Errorf("NewSQLiteStorage(\"\") error = %v, want ErrEmptyString", err)
	}
}
