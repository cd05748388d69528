package ledger

import (
	"context"

	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
)

// UpdateSettings replaces the settings and persists them.
func (l *Ledger) UpdateSettings(ctx context.Context, s model.Settings) error {
	l.mu.Lock()
	l.state.Settings = s
	l.mu.Unlock()

	l.configureNotifier(s)
	return l.commit(ctx, "Settings saved", notify.LevelSuccess)
}

// ResetSettings restores the default settings.
func (l *Ledger) ResetSettings(ctx context.Context) error {
	return l.UpdateSettings(ctx, model.DefaultSettings())
}

// ClearAll deletes every record after confirmation, resets the settings and
// reseeds the default categories.
func (l *Ledger) ClearAll(ctx context.Context) error {
	if err := l.confirmAction(ctx, "This will permanently delete all your data. Continue?"); err != nil {
		return err
	}

	l.mu.Lock()
	l.state = model.NewSnapshot()
	seedDefaults(&l.state)
	settings := l.state.Settings
	l.mu.Unlock()

	l.configureNotifier(settings)
	return l.commit(ctx, "All data has been deleted", notify.LevelInfo)
}

// Save persists the current state on demand.
func (l *Ledger) Save(ctx context.Context) error {
	return l.commit(ctx, "Data saved successfully", notify.LevelSuccess)
}

// configurable is implemented by notifiers that honor the notification settings.
type configurable interface {
	Configure(model.Settings)
}

func (l *Ledger) configureNotifier(s model.Settings) {
	if c, ok := l.notifier.(configurable); ok {
		c.Configure(s)
	}
}
