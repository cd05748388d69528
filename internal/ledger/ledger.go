// Package ledger validates and applies changes to the application state and
// persists them through a storage.Store.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/storage"
	"github.com/google/uuid"
)

// Ledger owns the in-memory application state. Every mutation is persisted
// in full and followed by a refresh callback. It is safe for concurrent use.
type Ledger struct {
	store    storage.Store
	confirm  Confirmer
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
	refresh  func(model.Snapshot)
	logger   *slog.Logger
	version  string
	state    model.Snapshot
	mu       sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithConfirmer sets how destructive operations are confirmed.
func WithConfirmer(c Confirmer) Option {
	return func(l *Ledger) {
		l.confirm = c
	}
}

// WithNotifier sets where user-facing messages go.
func WithNotifier(n notify.Notifier) Option {
	return func(l *Ledger) {
		l.notifier = n
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator sets how new record ids are produced.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) {
		l.newID = gen
	}
}

// WithRefresh registers a callback run with the new state after every mutation.
func WithRefresh(fn func(model.Snapshot)) Option {
	return func(l *Ledger) {
		l.refresh = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithVersion sets the application version written into exports.
func WithVersion(version string) Option {
	return func(l *Ledger) {
		l.version = version
	}
}

// NewID returns a time-ordered unique identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Open loads the state from store and seeds the default categories into
// empty category collections.
func Open(ctx context.Context, store storage.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    store,
		confirm:  AlwaysConfirm,
		notifier: notify.Discard,
		now:      time.Now,
		newID:    NewID,
		logger:   slog.Default(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(l)
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	l.state = state

	if seedDefaults(&l.state) {
		if err := l.persistLocked(ctx); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// seedDefaults fills empty category collections with the defaults. It reports
// whether anything was added.
func seedDefaults(s *model.Snapshot) bool {
	seeded := false
	if len(s.Categories) == 0 {
		s.Categories = model.DefaultExpenseCategories()
		seeded = true
	}
	if len(s.IncomeCategories) == 0 {
		s.IncomeCategories = model.DefaultIncomeCategories()
		seeded = true
	}
	return seeded
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() model.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// Settings returns the current settings.
func (l *Ledger) Settings() model.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Settings
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Version returns the application version written into exports.
func (l *Ledger) Version() string {
	return l.version
}

// persistLocked writes the full state. The caller must hold l.mu.
func (l *Ledger) persistLocked(ctx context.Context) error {
	if err := l.store.Save(ctx, l.state.Clone()); err != nil {
		common.LogError(err, "Failed to persist data", common.Fields{"expenses": len(l.state.Expenses), "incomes": len(l.state.Incomes)})
		return common.NewUserError("Your changes could not be saved", fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	return nil
}

// commit persists the state and, whether or not that succeeded, runs the
// refresh callback. On success msg is sent to the notifier.
func (l *Ledger) commit(ctx context.Context, msg string, level notify.Level) error {
	l.mu.Lock()
	err := l.persistLocked(ctx)
	snapshot := l.state.Clone()
	l.mu.Unlock()

	if l.refresh != nil {
		l.refresh(snapshot)
	}
	if err != nil {
		l.notifier.Notify("Error while saving", notify.LevelError, 0)
		return err
	}
	if msg != "" {
		l.notifier.Notify(msg, level, 0)
	}
	return nil
}

// confirmAction asks the confirmer. A refusal yields ErrCancelled.
func (l *Ledger) confirmAction(ctx context.Context, prompt string) error {
	ok, err := l.confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
