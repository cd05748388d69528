package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/config"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// initStorage opens the database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openLedger loads the ledger for a CLI command. Confirmations are asked on
// the command's input and notifications printed to its output. The returned
// function closes the store.
func openLedger(cmd *cobra.Command, opts ...ledger.Option) (*ledger.Ledger, func(), error) {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	base := []ledger.Option{
		ledger.WithConfirmer(cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)),
		ledger.WithNotifier(cli.NewPrinter(cmd.OutOrStdout(), false)),
		ledger.WithLogger(slog.Default()),
		ledger.WithVersion(version),
	}
	l, err := ledger.Open(ctx, store, append(base, opts...)...)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
	return l, closeFn, nil
}

// parseAmount parses a positive decimal amount. A comma is accepted as the
// decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

// parseDateFlag validates an optional YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if _, err := model.ParseDate(value); err != nil {
		return "", fmt.Errorf("invalid --%s: %w", name, err)
	}
	return value, nil
}

// resolveCategory maps a category id or name to its id.
func resolveCategory(l *ledger.Ledger, typ model.TransactionType, idOrName string) (string, error) {
	if idOrName == "" {
		return "", nil
	}
	cat, ok := l.ResolveCategory(typ, idOrName)
	if !ok {
		return "", fmt.Errorf("unknown %s category %q; see 'ledger categories list'", strings.ToLower(typ.Label()), idOrName)
	}
	return cat.ID, nil
}

// entryRows renders entries as table rows.
func entryRows(s model.Snapshot, entries []model.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			s.Settings.FormatDate(e.Date),
			e.Type.Label(),
			e.Description,
			s.CategoryName(e.Type, e.CategoryID),
			e.Detail(e.Type),
			e.Type.Sign() + s.Settings.FormatCurrency(e.Amount),
		})
	}
	return rows
}

var entryHeaders = []string{"ID", "Date", "Type", "Description", "Category", "Detail", "Amount"}

// printEntries writes entries as a table, or emptyMsg when there are none.
func printEntries(cmd *cobra.Command, s model.Snapshot, entries []model.Entry, emptyMsg string) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, cli.FormatInfo(emptyMsg))
		return
	}
	fmt.Fprintln(out, cli.RenderTable(entryHeaders, entryRows(s, entries)))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d transaction(s)", len(entries))))
}
