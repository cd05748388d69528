package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/config"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/ofx"
	"github.com/Veraticus/pocket-ledger/internal/sheets"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to a JSON backup",
		Long: `Write every transaction, category, recurring transaction and the
settings to a JSON file that 'ledger import' can restore.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if output == "" {
				output = ledger.ExportFileName(l.Now())
			}
			if output == "-" {
				return l.Export(cmd.OutOrStdout())
			}

			f, err := os.Create(config.ExpandPath(output))
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := l.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Data exported to "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: ledger_backup_<date>.json)")
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var auth bool

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export a report to Google Sheets",
		Long: `Write a summary, a category breakdown and every transaction to a
Google Sheets spreadsheet.

Credentials come from the sheets.* config keys or GOOGLE_SHEETS_*
environment variables: either a service account key file, or OAuth2
client credentials with a refresh token or token file. Use --auth to run
the browser consent flow and store the token file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadSheetsConfig()
			if err != nil {
				return err
			}

			if auth {
				if cfg.TokenFile == "" {
					return fmt.Errorf("--auth needs sheets.token_file to be configured")
				}
				_, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
					ClientID:     cfg.ClientID,
					ClientSecret: cfg.ClientSecret,
					TokenFile:    cfg.TokenFile,
					OpenURL: func(url string) {
						fmt.Fprintln(cmd.OutOrStdout(), cli.FormatPrompt("Open this URL to authorize access:"))
						fmt.Fprintln(cmd.OutOrStdout(), url)
					},
				})
				if err != nil {
					return fmt.Errorf("authorization failed: %w", err)
				}
			}

			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
			if err != nil {
				return err
			}
			id, err := writer.Write(ctx, sheets.BuildReport(l.Snapshot(), l.Now()))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Report written to https://docs.google.com/spreadsheets/d/"+id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&auth, "auth", false, "run the OAuth2 consent flow first")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore data from a JSON backup",
		Long: `Replace all current data with the contents of a JSON backup made by
'ledger export'. Settings in the backup are merged over the current ones.
A malformed file leaves the data untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(config.ExpandPath(args[0]))
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return l.Import(cmd.Context(), f)
		},
	}

	cmd.AddCommand(importOFXCmd())
	return cmd
}

func importOFXCmd() *cobra.Command {
	var expenseCategory, incomeCategory string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ofx <file>...",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Debits become expenses and credits become income. Transactions already
present with the same date, amount and description are skipped.

Examples:
  ledger import ofx ~/Downloads/statement.qfx --expense-category Shopping --income-category Salary
  ledger import ofx ~/Downloads/*.ofx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			var entries []ofx.Entry
			for _, path := range files {
				parsed, err := parseStatement(cmd, parser, path)
				if err != nil {
					slog.Error("Failed to parse OFX file", "file", path, "error", err)
					continue
				}
				slog.Info("Processed file", "file", filepath.Base(path), "accounts", ofx.Accounts(parsed), "transactions", len(parsed))
				entries = append(entries, parsed...)
			}

			l, closeFn, err := openLedger(cmd, ledger.WithNotifier(cli.NewPrinter(out, true)))
			if err != nil {
				return err
			}
			defer closeFn()

			fresh := dedupe(l.Snapshot(), entries)
			expenses, incomes := ofx.Split(fresh)
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d new expenses and %d new incomes in %d file(s), %d already recorded",
				len(expenses), len(incomes), len(files), len(entries)-len(fresh))))
			if len(fresh) == 0 || dryRun {
				return nil
			}

			categories := map[model.TransactionType]string{}
			if len(expenses) > 0 {
				if categories[model.TypeExpense], err = requireCategory(l, model.TypeExpense, expenseCategory, "expense-category"); err != nil {
					return err
				}
			}
			if len(incomes) > 0 {
				if categories[model.TypeIncome], err = requireCategory(l, model.TypeIncome, incomeCategory, "income-category"); err != nil {
					return err
				}
			}

			prompter := cli.NewCLIPrompter(cmd.InOrStdin(), out, assumeYes)
			ok, err := prompter.Confirm(ctx, fmt.Sprintf("Import %d transactions?", len(fresh)))
			if err != nil {
				return err
			}
			if !ok {
				return ledger.ErrCancelled
			}

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), int64(len(fresh)), "Importing")
			imported := 0
			for _, e := range fresh {
				add := l.AddExpense
				if e.Type == model.TypeIncome {
					add = l.AddIncome
				}
				if _, err := add(ctx, e.Draft(categories[e.Type])); err != nil {
					slog.Warn("Skipped statement transaction", "fitid", e.FITID, "error", err)
				} else {
					imported++
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transactions", imported, len(fresh))))
			return nil
		},
	}

	cmd.Flags().StringVar(&expenseCategory, "expense-category", "", "category id or name for imported expenses")
	cmd.Flags().StringVar(&incomeCategory, "income-category", "", "category id or name for imported income")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "parse and summarize without importing")
	return cmd
}

// expandFiles resolves glob patterns to existing files.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(config.ExpandPath(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseFile(cmd.Context(), f)
}

// dedupe drops entries already recorded with the same type, date, amount and
// description, and repeats within the batch.
func dedupe(s model.Snapshot, entries []ofx.Entry) []ofx.Entry {
	key := func(typ model.TransactionType, date, amount, desc string) string {
		return string(typ) + "|" + date + "|" + amount + "|" + desc
	}

	seen := make(map[string]bool)
	for _, e := range s.Entries() {
		seen[key(e.Type, e.Date, e.Amount.String(), e.Description)] = true
	}

	fresh := make([]ofx.Entry, 0, len(entries))
	for _, e := range entries {
		k := key(e.Type, e.Date, e.Amount.String(), e.Description)
		if seen[k] {
			continue
		}
		seen[k] = true
		fresh = append(fresh, e)
	}
	return fresh
}

func requireCategory(l *ledger.Ledger, typ model.TransactionType, value, flag string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("--%s is required to import %s records", flag, typ)
	}
	return resolveCategory(l, typ, value)
}
