package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/aggregate"
	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/spf13/cobra"
)

var (
	paymentMethods = []model.PaymentMethod{model.PaymentCash, model.PaymentCard, model.PaymentTransfer, model.PaymentCheck}
	incomeSources  = []model.IncomeSource{model.SourceSalary, model.SourceFreelance, model.SourceInvestment, model.SourceGift, model.SourceOther}
)

// transactionCmd builds the command group for one transaction type.
func transactionCmd(typ model.TransactionType) *cobra.Command {
	name := string(typ)
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Manage %s records", name),
		Long:  fmt.Sprintf(`Add, list and delete %s records.`, name),
	}

	cmd.AddCommand(addTransactionCmd(typ))
	cmd.AddCommand(listTransactionsCmd(typ))
	cmd.AddCommand(deleteTransactionCmd(typ))

	return cmd
}

type transactionFlags struct {
	amount      string
	description string
	category    string
	date        string
	detail      string
	from        string
}

func addTransactionCmd(typ model.TransactionType) *cobra.Command {
	var flags transactionFlags
	detailFlag := "method"
	if typ == model.TypeIncome {
		detailFlag = "source"
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Record a new %s", typ),
		Long: fmt.Sprintf(`Record a new %[1]s.

The category may be given by id or name. The date defaults to today.
Use --from to start from an existing %[1]s's fields.

Examples:
  ledger %[1]s add --amount 12.50 --description "Lunch" --category Food
  ledger %[1]s add --from <id> --date 2024-03-01`, typ),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			draft, err := buildDraft(cmd, l, typ, flags, detailFlag)
			if err != nil {
				return err
			}

			add := l.AddExpense
			if typ == model.TypeIncome {
				add = l.AddIncome
			}
			tx, err := add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.amount, "amount", "a", "", "amount (positive)")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&flags.date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&flags.from, "from", "", fmt.Sprintf("copy the fields of an existing %s", typ))
	if typ == model.TypeIncome {
		cmd.Flags().StringVar(&flags.detail, detailFlag, string(model.SourceSalary), "income source (salary, freelance, investment, gift, other)")
	} else {
		cmd.Flags().StringVar(&flags.detail, detailFlag, string(model.PaymentCard), "payment method (cash, card, transfer, check)")
	}

	return cmd
}

// buildDraft assembles a draft from flags, starting from a copied record
// when --from is set. Only explicitly set flags override copied fields.
func buildDraft(cmd *cobra.Command, l *ledger.Ledger, typ model.TransactionType, flags transactionFlags, detailFlag string) (ledger.Draft, error) {
	draft := ledger.Draft{Date: model.FormatDate(l.Now())}
	if typ == model.TypeIncome {
		draft.Source = model.IncomeSource(flags.detail)
	} else {
		draft.PaymentMethod = model.PaymentMethod(flags.detail)
	}

	if flags.from != "" {
		copied, err := l.PrefillFrom(flags.from, typ)
		if err != nil {
			return ledger.Draft{}, err
		}
		draft = copied
	}

	changed := cmd.Flags().Changed
	if flags.from == "" || changed("amount") {
		if flags.amount != "" {
			amount, err := parseAmount(flags.amount)
			if err != nil {
				return ledger.Draft{}, err
			}
			draft.Amount = amount
		}
	}
	if flags.from == "" || changed("description") {
		draft.Description = flags.description
	}
	if flags.from == "" || changed("category") {
		id, err := resolveCategory(l, typ, flags.category)
		if err != nil {
			return ledger.Draft{}, err
		}
		draft.CategoryID = id
	}
	if changed("date") {
		draft.Date = flags.date
	}
	if changed(detailFlag) {
		if typ == model.TypeIncome {
			source := model.IncomeSource(strings.ToLower(flags.detail))
			if !slices.Contains(incomeSources, source) {
				return ledger.Draft{}, fmt.Errorf("invalid --source %q", flags.detail)
			}
			draft.Source = source
		} else {
			method := model.PaymentMethod(strings.ToLower(flags.detail))
			if !slices.Contains(paymentMethods, method) {
				return ledger.Draft{}, fmt.Errorf("invalid --method %q", flags.detail)
			}
			draft.PaymentMethod = method
		}
	}
	return draft, nil
}

func listTransactionsCmd(typ model.TransactionType) *cobra.Command {
	var from, to, category string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s records, newest first", typ),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			filter, err := buildFilter(l, typ, from, to, category)
			if err != nil {
				return err
			}

			s := l.Snapshot()
			entries := aggregate.History(s, filter)
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			printEntries(cmd, s, entries, fmt.Sprintf("No %s records found", typ))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n records")

	return cmd
}

// buildFilter validates history filter flags.
func buildFilter(l *ledger.Ledger, typ model.TransactionType, from, to, category string) (aggregate.Filter, error) {
	var err error
	filter := aggregate.Filter{Type: typ}
	if filter.From, err = parseDateFlag("from", from); err != nil {
		return aggregate.Filter{}, err
	}
	if filter.To, err = parseDateFlag("to", to); err != nil {
		return aggregate.Filter{}, err
	}
	if category != "" {
		if typ == "" {
			return aggregate.Filter{}, fmt.Errorf("--category requires --type")
		}
		if filter.CategoryID, err = resolveCategory(l, typ, category); err != nil {
			return aggregate.Filter{}, err
		}
	}
	return filter, nil
}

func deleteTransactionCmd(typ model.TransactionType) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", typ),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return l.DeleteTransaction(cmd.Context(), args[0], typ)
		},
	}
}
