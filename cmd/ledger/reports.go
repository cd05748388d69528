package main

import (
	"fmt"
	"slices"

	"github.com/Veraticus/pocket-ledger/internal/aggregate"
	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/tui/components"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/spf13/cobra"
)

// reportWidth is the rendering width of CLI reports.
const reportWidth = 96

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Long:  `Show today's and this month's totals, balances and month-over-month trends.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			s := l.Snapshot()
			stats := aggregate.Dashboard(s, l.Now())
			theme := themes.ForSettings(s.Settings)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, cli.FormatTitle("Dashboard"))
			fmt.Fprintln(out, components.RenderStatCards(theme, components.DashboardCards(stats, s.Settings), reportWidth))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Total balance %s · %d categories",
				s.Settings.FormatCurrency(stats.TotalBalance), stats.CategoryCount)))
			return nil
		},
	}
}

func trendCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show daily expense and income totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(aggregate.TrendPeriods, days) {
				return fmt.Errorf("invalid --days %d: must be one of %v", days, aggregate.TrendPeriods)
			}

			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			s := l.Snapshot()
			series := aggregate.Trend(s.Expenses, s.Incomes, l.Now(), days)
			fmt.Fprintln(cmd.OutOrStdout(), components.RenderTrend(themes.ForSettings(s.Settings), series, s.Settings, reportWidth))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", aggregate.DefaultTrendDays, fmt.Sprintf("window in days %v", aggregate.TrendPeriods))
	return cmd
}

func breakdownCmd() *cobra.Command {
	var income bool
	var from, to string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			typ := categoryType(income)
			filter, err := buildFilter(l, typ, from, to, "")
			if err != nil {
				return err
			}

			s := l.Snapshot()
			entries := aggregate.History(s, filter)
			txns := make([]model.Transaction, 0, len(entries))
			for _, e := range entries {
				txns = append(txns, e.Transaction)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(typ.Label()+" by category"))
			fmt.Fprintln(out, components.RenderBreakdown(themes.ForSettings(s.Settings),
				aggregate.Breakdown(txns, s.CategoriesFor(typ)), s.Settings, reportWidth))
			return nil
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "break down income instead of expenses")
	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	return cmd
}

func historyCmd() *cobra.Command {
	var from, to, category, typ string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List expenses and income together, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var t model.TransactionType
			if typ != "" {
				var err error
				if t, err = model.ParseTransactionType(typ); err != nil {
					return err
				}
			}

			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			filter, err := buildFilter(l, t, from, to, category)
			if err != nil {
				return err
			}

			s := l.Snapshot()
			printEntries(cmd, s, aggregate.History(s, filter), "No transactions match these filters")
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name (requires --type)")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "expense or income")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search descriptions, categories, amounts and dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			s := l.Snapshot()
			result := aggregate.Search(s, args[0])
			if !result.Active {
				return fmt.Errorf("search needs at least %d characters", aggregate.MinSearchLength)
			}
			printEntries(cmd, s, result.Entries, fmt.Sprintf("No results for %q", result.Query))
			return nil
		},
	}
}
