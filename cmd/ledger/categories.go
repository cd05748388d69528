package main

import (
	"fmt"

	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage expense and income categories",
		Long:    `List, add and delete categories. Use --income to work on income categories.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func categoryType(income bool) model.TransactionType {
	if income {
		return model.TypeIncome
	}
	return model.TypeExpense
}

func listCategoriesCmd() *cobra.Command {
	var income bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			s := l.Snapshot()
			typ := categoryType(income)
			counts := make(map[string]int)
			for _, t := range s.Transactions(typ) {
				counts[t.CategoryID]++
			}

			rows := make([][]string, 0)
			for _, c := range s.CategoriesFor(typ) {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
				rows = append(rows, []string{c.ID, swatch + " " + c.Name, c.Icon, fmt.Sprintf("%d", counts[c.ID])})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No categories found. Use 'ledger categories add' to create one."))
				return nil
			}
			fmt.Fprintln(out, cli.FormatTitle(typ.Label()+" categories"))
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Icon", "Transactions"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "list income categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		income bool
		draft  ledger.CategoryDraft
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			draft.Name = args[0]
			add := l.AddCategory
			if income {
				add = l.AddIncomeCategory
			}
			cat, err := add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cat.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "add an income category")
	cmd.Flags().StringVar(&draft.Color, "color", ledger.DefaultCategoryColor, "hex color")
	cmd.Flags().StringVar(&draft.Icon, "icon", ledger.DefaultCategoryIcon, "icon name")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var income bool

	cmd := &cobra.Command{
		Use:     "delete <id-or-name>",
		Aliases: []string{"rm"},
		Short:   "Delete a category",
		Long: `Delete a category. An expense category cannot be deleted while
expenses still use it. Incomes of a deleted income category are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			typ := categoryType(income)
			id, err := resolveCategory(l, typ, args[0])
			if err != nil {
				return err
			}
			if income {
				return l.DeleteIncomeCategory(cmd.Context(), id)
			}
			return l.DeleteCategory(cmd.Context(), id)
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "delete an income category")
	return cmd
}
