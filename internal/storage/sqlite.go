package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/pocket-ledger/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Persisted keys. Each holds one JSON document.
const (
	KeyExpenses              = "expenses"
	KeyIncomes               = "incomes"
	KeyCategories            = "categories"
	KeyIncomeCategories      = "incomeCategories"
	KeyRecurringTransactions = "recurringTransactions"
	KeySettings              = "settings"
)

// Keys lists every valid storage key.
var Keys = []string{
	KeyExpenses,
	KeyIncomes,
	KeyCategories,
	KeyIncomeCategories,
	KeyRecurringTransactions,
	KeySettings,
}

// Store persists the application state as a flat set of named JSON documents.
type Store interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, snapshot model.Snapshot) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// SQLiteStorage implements Store on a single SQLite table.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

var _ Store = (*SQLiteStorage)(nil)

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Get returns the raw document stored under key. The boolean is false when
// nothing has been stored yet.
func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous document.
func (s *SQLiteStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w: %s is not valid JSON", ErrCorruptValue, key)
	}
	return put(ctx, s.db, key, value)
}

// Delete removes the document stored under key. Deleting a missing key is not an error.
func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys returns the keys that currently hold a document, sorted.
func (s *SQLiteStorage) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0, len(Keys))
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Load reads every collection. Missing keys yield empty collections and
// settings are merged over the defaults.
func (s *SQLiteStorage) Load(ctx context.Context) (model.Snapshot, error) {
	snapshot := model.NewSnapshot()

	targets := map[string]any{
		KeyExpenses:              &snapshot.Expenses,
		KeyIncomes:               &snapshot.Incomes,
		KeyCategories:            &snapshot.Categories,
		KeyIncomeCategories:      &snapshot.IncomeCategories,
		KeyRecurringTransactions: &snapshot.RecurringTransactions,
	}

	for _, key := range Keys {
		raw, ok, err := s.Get(ctx, key)
		if err != nil {
			return model.Snapshot{}, err
		}
		if !ok {
			continue
		}

		if key == KeySettings {
			merged, mergeErr := snapshot.Settings.Merge(raw)
			if mergeErr != nil {
				return model.Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, mergeErr)
			}
			snapshot.Settings = merged
			continue
		}

		if err := json.Unmarshal(raw, targets[key]); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
		}
	}

	snapshot.Normalize()
	slog.Debug("Loaded application state",
		"expenses", len(snapshot.Expenses),
		"incomes", len(snapshot.Incomes),
		"categories", len(snapshot.Categories),
		"income_categories", len(snapshot.IncomeCategories),
		"recurring", len(snapshot.RecurringTransactions))

	return snapshot, nil
}

// Save writes every collection in a single transaction.
func (s *SQLiteStorage) Save(ctx context.Context, snapshot model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	snapshot.Normalize()
	documents := map[string]any{
		KeyExpenses:              snapshot.Expenses,
		KeyIncomes:               snapshot.Incomes,
		KeyCategories:            snapshot.Categories,
		KeyIncomeCategories:      snapshot.IncomeCategories,
		KeyRecurringTransactions: snapshot.RecurringTransactions,
		KeySettings:              snapshot.Settings,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range Keys {
		data, err := json.Marshal(documents[key])
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if err := put(ctx, tx, key, data); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, db execer, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
