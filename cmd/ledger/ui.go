package main

import (
	"log/slog"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/Veraticus/pocket-ledger/internal/tui"
	"github.com/spf13/cobra"
)

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Long: `Open the full-screen dashboard with history, calendar, recurring
transactions and search. Press ? inside for the key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			bridge := tui.NewBridge()
			center := notify.NewCenter(model.DefaultSettings(), time.Now)

			l, closeFn, err := openLedger(cmd,
				ledger.WithConfirmer(bridge),
				ledger.WithNotifier(center),
				ledger.WithRefresh(bridge.Refresh),
			)
			if err != nil {
				return err
			}
			defer closeFn()
			center.Configure(l.Settings())

			opts := []tui.Option{
				tui.WithLedger(l),
				tui.WithCenter(center),
				tui.WithBridge(bridge),
			}
			if host, err := newUpdateHost(); err != nil {
				slog.Debug("Updates disabled", "error", err)
			} else {
				opts = append(opts, tui.WithUpdateHost(host))
			}

			return tui.Run(ctx, opts...)
		},
	}
}
