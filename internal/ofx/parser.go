// Package ofx turns OFX/QFX bank and credit-card statements into expense
// and income drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Entry is one statement transaction, classified as expense or income.
type Entry struct {
	Amount        decimal.Decimal
	FITID         string
	AccountID     string
	Type          model.TransactionType
	Description   string
	Date          string
	PaymentMethod model.PaymentMethod
	Source        model.IncomeSource
}

// Draft converts the entry into a ledger draft filed under categoryID.
func (e Entry) Draft(categoryID string) ledger.Draft {
	return ledger.Draft{
		Amount:        e.Amount,
		Description:   e.Description,
		CategoryID:    categoryID,
		Date:          e.Date,
		PaymentMethod: e.PaymentMethod,
		Source:        e.Source,
	}
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its transactions in file order.
// Debits become expenses and credits become incomes.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []Entry {
	if list == nil {
		return nil
	}

	entries := make([]Entry, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		entry, err := p.convertTransaction(ofxTx, accountID)
		if err != nil {
			slog.Warn("Skipping OFX transaction", "fitid", ofxTx.FiTID, "account", accountID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// convertTransaction converts an OFX transaction to an entry. Amounts are
// absolute; the sign picks expense or income.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) (Entry, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsZero() {
		return Entry{}, fmt.Errorf("zero amount")
	}

	trnType := strings.ToUpper(fmt.Sprintf("%v", ofxTx.TrnType))
	entry := Entry{
		FITID:       string(ofxTx.FiTID),
		AccountID:   accountID,
		Amount:      amount.Abs(),
		Description: p.extractMerchantName(ofxTx),
		Date:        model.FormatDate(ofxTx.DtPosted.Time),
	}
	if entry.Description == "" {
		entry.Description = trnType
	}

	if amount.IsNegative() {
		entry.Type = model.TypeExpense
		entry.PaymentMethod = paymentMethod(trnType)
	} else {
		entry.Type = model.TypeIncome
		entry.Source = model.SourceOther
	}
	return entry, nil
}

// paymentMethod maps an OFX transaction type to how the expense was paid.
func paymentMethod(trnType string) model.PaymentMethod {
	switch trnType {
	case "CHECK":
		return model.PaymentCheck
	case "ATM", "CASH":
		return model.PaymentCash
	case "XFER", "DIRECTDEP":
		return model.PaymentTransfer
	default:
		return model.PaymentCard
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// MEMO sometimes carries the merchant when NAME is generic.
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(strings.TrimSpace(name))
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

// Accounts returns the distinct account IDs of entries in first-seen order.
func Accounts(entries []Entry) []string {
	seen := make(map[string]bool)
	var accounts []string
	for _, e := range entries {
		if e.AccountID != "" && !seen[e.AccountID] {
			seen[e.AccountID] = true
			accounts = append(accounts, e.AccountID)
		}
	}
	return accounts
}

// Split separates entries into expenses and incomes, preserving order.
func Split(entries []Entry) (expenses, incomes []Entry) {
	for _, e := range entries {
		if e.Type == model.TypeIncome {
			incomes = append(incomes, e)
		} else {
			expenses = append(expenses, e)
		}
	}
	return expenses, incomes
}
