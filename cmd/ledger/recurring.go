package main

import (
	"fmt"

	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/spf13/cobra"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transactions",
		Long: `Record subscriptions, rent, salary and other repeating transactions.

Recurring transactions are reminders only: no expense or income is
created from them automatically.`,
	}

	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(deleteRecurringCmd())

	return cmd
}

func addRecurringCmd() *cobra.Command {
	var amount, typ, description, category, frequency, start string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			draft := ledger.RecurringDraft{
				Description: description,
				Frequency:   model.Frequency(frequency),
				StartDate:   start,
			}
			if draft.Type, err = model.ParseTransactionType(typ); err != nil {
				return err
			}
			if amount != "" {
				if draft.Amount, err = parseAmount(amount); err != nil {
					return err
				}
			}
			if draft.CategoryID, err = resolveCategory(l, draft.Type, category); err != nil {
				return err
			}
			if draft.StartDate == "" {
				draft.StartDate = model.FormatDate(l.Now())
			}

			rec, err := l.AddRecurring(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount (positive)")
	cmd.Flags().StringVarP(&typ, "type", "t", string(model.TypeExpense), "expense or income")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", string(model.Monthly), "daily, weekly, monthly or yearly")
	cmd.Flags().StringVar(&start, "start", "", "start date as YYYY-MM-DD (default: today)")
	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			s := l.Snapshot()
			out := cmd.OutOrStdout()
			if len(s.RecurringTransactions) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No recurring transactions"))
				return nil
			}

			rows := make([][]string, 0, len(s.RecurringTransactions))
			for _, r := range s.RecurringTransactions {
				status := "active"
				if !r.IsActive {
					status = "paused"
				}
				rows = append(rows, []string{
					r.ID,
					r.Description,
					s.CategoryName(r.Type, r.CategoryID),
					r.Frequency.Label(),
					s.Settings.FormatDate(r.StartDate),
					r.Type.Sign() + s.Settings.FormatCurrency(r.Amount),
					status,
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Description", "Category", "Frequency", "Since", "Amount", "Status"}, rows))
			return nil
		},
	}
}

func deleteRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recurring transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return l.DeleteRecurring(cmd.Context(), args[0])
		},
	}
}
