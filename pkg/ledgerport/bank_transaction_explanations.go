package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// BankTransactionExplanation matches money on a bank line to an accounting
// entry: a spend against a category, a receipt against an invoice, a payment
// against a bill, or a transfer to another account.
//
// Exactly one of Category, PaidInvoice, PaidBill or TransferBankAccount
// should be set. The service rejects explanations that name more than one.
type BankTransactionExplanation struct {
	URL             string `json:"url,omitempty"`
	BankTransaction string `json:"bank_transaction,omitempty"`
	BankAccount     string `json:"bank_account,omitempty"`
	DatedOn         Date   `json:"dated_on"`
	// Amount keeps the sign of the bank line it explains.
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	GrossValue  *decimal.Decimal `json:"gross_value,omitempty"`
	Description string           `json:"description,omitempty"`
	// Category posts the amount to a nominal account.
	Category *string `json:"category,omitempty"`
	// PaidInvoice marks an invoice as paid by this money in.
	PaidInvoice *string `json:"paid_invoice,omitempty"`
	// PaidBill marks a bill as paid by this money out.
	PaidBill *string `json:"paid_bill,omitempty"`
	// TransferBankAccount moves the amount to another of the company's
	// accounts.
	TransferBankAccount  *string          `json:"transfer_bank_account,omitempty"`
	Project              *string          `json:"project,omitempty"`
	SalesTaxRate         *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	SalesTaxValue        *decimal.Decimal `json:"sales_tax_value,omitempty"`
	ForeignCurrencyValue *decimal.Decimal `json:"foreign_currency_value,omitempty"`
	ECStatus             ECStatus         `json:"ec_status,omitempty"`
	Attachment           *Attachment      `json:"attachment,omitempty"`
	MarkedForReview      *bool            `json:"marked_for_review,omitempty"`
	CreatedAt            *time.Time       `json:"created_at,omitempty"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`
}

// BankTransactionExplanationRoot is the envelope for a single explanation.
type BankTransactionExplanationRoot struct {
	BankTransactionExplanation BankTransactionExplanation `json:"bank_transaction_explanation"`
}

// BankTransactionExplanationsRoot is the envelope for a list of explanations.
type BankTransactionExplanationsRoot struct {
	BankTransactionExplanations []BankTransactionExplanation `json:"bank_transaction_explanations"`
}

// ListBankTransactionExplanationsOptions filters explanation listings.
// One of BankAccount or BankTransaction is required.
type ListBankTransactionExplanationsOptions struct {
	ListOptions
	BankAccount     string
	BankTransaction string
	FromDate        *Date
	ToDate          *Date
	UpdatedSince    *time.Time
}

func (o ListBankTransactionExplanationsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.BankAccount != "" {
		q.Set("bank_account", o.BankAccount)
	}
	if o.BankTransaction != "" {
		q.Set("bank_transaction", o.BankTransaction)
	}
	dateRangeQuery(q, o.FromDate, o.ToDate)
	if o.UpdatedSince != nil {
		q.Set("updated_since", o.UpdatedSince.UTC().Format(time.RFC3339))
	}
	return q
}

// ListBankTransactionExplanations returns one page of explanations.
func (c *Client) ListBankTransactionExplanations(ctx context.Context, opts *ListBankTransactionExplanationsOptions) ([]BankTransactionExplanation, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root BankTransactionExplanationsRoot
	if err := c.get(ctx, "/bank_transaction_explanations", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list bank transaction explanations: %w", err)
	}
	return root.BankTransactionExplanations, nil
}

// FetchAllBankTransactionExplanations pages through every explanation
// matching opts.
func (c *Client) FetchAllBankTransactionExplanations(ctx context.Context, opts *ListBankTransactionExplanationsOptions) ([]BankTransactionExplanation, error) {
	var all []BankTransactionExplanation
	merged := ListBankTransactionExplanationsOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		explanations, err := c.ListBankTransactionExplanations(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list bank transaction explanations (page=%d): %w", page, err)
		}
		if len(explanations) == 0 {
			break
		}
		all = append(all, explanations...)
		if len(explanations) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetBankTransactionExplanation fetches a single explanation.
func (c *Client) GetBankTransactionExplanation(ctx context.Context, id string) (*BankTransactionExplanation, error) {
	var root BankTransactionExplanationRoot
	if err := c.get(ctx, "/bank_transaction_explanations/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get bank transaction explanation %s: %w", id, err)
	}
	return &root.BankTransactionExplanation, nil
}

// CreateBankTransactionExplanation explains part or all of a bank line.
func (c *Client) CreateBankTransactionExplanation(ctx context.Context, explanation *BankTransactionExplanation) (*BankTransactionExplanation, error) {
	var root BankTransactionExplanationRoot
	body := BankTransactionExplanationRoot{BankTransactionExplanation: *explanation}
	if err := c.post(ctx, "/bank_transaction_explanations", body, &root); err != nil {
		return nil, fmt.Errorf("failed to create bank transaction explanation: %w", err)
	}
	return &root.BankTransactionExplanation, nil
}

// UpdateBankTransactionExplanation updates an explanation and returns the
// stored version.
func (c *Client) UpdateBankTransactionExplanation(ctx context.Context, id string, explanation *BankTransactionExplanation) (*BankTransactionExplanation, error) {
	var root BankTransactionExplanationRoot
	body := BankTransactionExplanationRoot{BankTransactionExplanation: *explanation}
	if err := c.put(ctx, "/bank_transaction_explanations/"+id, body, &root); err != nil {
		return nil, fmt.Errorf("failed to update bank transaction explanation %s: %w", id, err)
	}
	return &root.BankTransactionExplanation, nil
}

// DeleteBankTransactionExplanation removes an explanation, returning the
// explained amount to the bank line's unexplained balance.
func (c *Client) DeleteBankTransactionExplanation(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/bank_transaction_explanations/"+id); err != nil {
		return fmt.Errorf("failed to delete bank transaction explanation %s: %w", id, err)
	}
	return nil
}
