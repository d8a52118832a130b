// Package ledger writes plain-text double-entry journal files, one file per
// month under a year directory.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// accountColumn is the column amounts are aligned to when formatting.
const accountColumn = 60

// Transaction is one journal entry.
type Transaction struct {
	Date      string // YYYY-MM-DD
	Flag      string // "*" cleared, "!" pending; empty defaults to "*"
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Metadata  map[string]string
	Postings  []Posting
}

// Posting is one leg of a transaction. Positive amounts debit the account,
// negative amounts credit it.
type Posting struct {
	Account  string // colon-delimited, e.g. "Assets:Bank:Current"
	Amount   decimal.Decimal
	Currency string
	Comment  string
}

// Balanced reports whether the postings sum to zero within each currency.
func (t Transaction) Balanced() bool {
	sums := make(map[string]decimal.Decimal)
	for _, p := range t.Postings {
		sums[p.Currency] = sums[p.Currency].Add(p.Amount)
	}
	for _, sum := range sums {
		if !sum.IsZero() {
			return false
		}
	}
	return true
}

// Format renders the transaction in journal syntax, ready to append to a
// month file.
func (t Transaction) Format() string {
	var sb strings.Builder

	sb.WriteString(t.Date)
	flag := t.Flag
	if flag == "" {
		flag = "*"
	}
	sb.WriteString(" ")
	sb.WriteString(flag)
	if t.Payee != "" {
		fmt.Fprintf(&sb, " %q", t.Payee)
	}
	fmt.Fprintf(&sb, " %q", t.Narration)
	for _, tag := range t.Tags {
		sb.WriteString(" #")
		sb.WriteString(tag)
	}
	for _, link := range t.Links {
		sb.WriteString(" ^")
		sb.WriteString(link)
	}
	sb.WriteString("\n")

	// Metadata lines come before postings, sorted for stable output.
	keys := make([]string, 0, len(t.Metadata))
	for k := range t.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %q\n", k, t.Metadata[k])
	}

	for _, p := range t.Postings {
		sb.WriteString("  ")
		sb.WriteString(p.Account)

		amount := p.Amount.StringFixed(2) + " " + p.Currency
		pad := accountColumn - 2 - len(p.Account) - len(amount)
		if pad < 1 {
			pad = 1
		}
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString(amount)

		if p.Comment != "" {
			sb.WriteString(" ; ")
			sb.WriteString(p.Comment)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
