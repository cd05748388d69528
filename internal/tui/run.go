package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/update"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// Autosave runs alongside the program.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Ledger == nil {
		return fmt.Errorf("%w: tui requires a ledger", common.ErrInvalidConfig)
	}
	if cfg.Bridge == nil {
		cfg.Bridge = NewBridge()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var notifier notify.Notifier = notify.Discard
	if cfg.Center != nil {
		notifier = cfg.Center
	}
	settings := cfg.Ledger.Settings()
	checker := update.NewChecker(cfg.Host,
		update.WithNotifier(notifier),
		update.WithAutoDownload(settings.AutoDownloadEnabled),
		update.WithOnChange(cfg.Bridge.UpdateChanged),
	)

	p := tea.NewProgram(newModel(ctx, cfg, checker), tea.WithContext(ctx), tea.WithAltScreen())
	cfg.Bridge.attach(p)
	defer cfg.Bridge.attach(nil)

	go func() {
		if err := ledger.NewAutoSaver(cfg.Ledger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("Autosave stopped", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
