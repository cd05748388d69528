package ledger

import (
	"context"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/notify"
)

// AutoSaveNotice is how long the autosave confirmation stays visible.
const AutoSaveNotice = 2 * time.Second

// AutoSaver periodically persists a Ledger's state.
type AutoSaver struct {
	ledger *Ledger
}

// NewAutoSaver creates an AutoSaver for l.
func NewAutoSaver(l *Ledger) *AutoSaver {
	return &AutoSaver{ledger: l}
}

// Run saves at the configured interval until ctx is done. It returns
// immediately when autosave is disabled. The interval is read once at start.
func (a *AutoSaver) Run(ctx context.Context) error {
	every := a.ledger.Settings().AutoSaveEvery()
	if every <= 0 {
		a.ledger.logger.Debug("Autosave disabled")
		return nil
	}

	a.ledger.logger.Debug("Autosave started", "interval", every)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = a.SaveNow(ctx)
		}
	}
}

// SaveNow performs one autosave.
func (a *AutoSaver) SaveNow(ctx context.Context) error {
	l := a.ledger
	l.mu.Lock()
	err := l.persistLocked(ctx)
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("Autosave failed", "error", err)
		l.notifier.Notify(common.UserMessage(err), notify.LevelError, 0)
		return err
	}
	l.notifier.Notify("Auto-save complete", notify.LevelInfo, AutoSaveNotice)
	return nil
}
