package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// BankTransactionStatus says how much of a bank line has been matched to
// accounting entries.
type BankTransactionStatus string

const (
	BankTransactionStatusUnexplained     BankTransactionStatus = "unexplained"
	BankTransactionStatusExplained       BankTransactionStatus = "explained"
	BankTransactionStatusMarkedForReview BankTransactionStatus = "marked_for_review"
)

// BankTransaction is one line on a bank statement. Lines arrive from bank
// feeds or statement uploads and are matched to entries by explanations.
//
// Negative amounts are money out, positive amounts money in.
type BankTransaction struct {
	URL         string           `json:"url,omitempty"`
	BankAccount string           `json:"bank_account,omitempty"`
	DatedOn     Date             `json:"dated_on"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	// Description is the bank's own narrative for the line.
	Description string `json:"description,omitempty"`
	// FullDescription appends the running balance when the feed supplies one.
	FullDescription   *string               `json:"full_description,omitempty"`
	UnexplainedAmount *decimal.Decimal      `json:"unexplained_amount,omitempty"`
	Status            BankTransactionStatus `json:"status,omitempty"`
	IsManual          *bool                 `json:"is_manual,omitempty"`
	// TransactionID is the bank's identifier for the line, when the feed
	// supplies one. Uploads may set it to make re-uploads idempotent.
	TransactionID *string                      `json:"transaction_id,omitempty"`
	Explanations  []BankTransactionExplanation `json:"bank_transaction_explanations,omitempty"`
	CreatedAt     *time.Time                   `json:"created_at,omitempty"`
	UpdatedAt     *time.Time                   `json:"updated_at,omitempty"`
}

// BankTransactionRoot is the envelope for a single bank transaction.
type BankTransactionRoot struct {
	BankTransaction BankTransaction `json:"bank_transaction"`
}

// BankTransactionsRoot is the envelope for a list of bank transactions.
type BankTransactionsRoot struct {
	BankTransactions []BankTransaction `json:"bank_transactions"`
}

// StatementRow is one line of a manually uploaded statement.
type StatementRow struct {
	DatedOn       Date            `json:"dated_on"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	TransactionID *string         `json:"transaction_id,omitempty"`
}

// statementRoot is the envelope for a statement upload.
type statementRoot struct {
	Statement []StatementRow `json:"statement"`
}

// ListBankTransactionsOptions filters and paginates bank transaction
// listings. BankAccount is required.
type ListBankTransactionsOptions struct {
	ListOptions
	BankAccount string
	// View narrows by match state: all, unexplained, explained,
	// marked_for_review.
	View         string
	FromDate     *Date
	ToDate       *Date
	UpdatedSince *time.Time
}

func (o ListBankTransactionsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.BankAccount != "" {
		q.Set("bank_account", o.BankAccount)
	}
	if o.View != "" {
		q.Set("view", o.View)
	}
	dateRangeQuery(q, o.FromDate, o.ToDate)
	if o.UpdatedSince != nil {
		q.Set("updated_since", o.UpdatedSince.UTC().Format(time.RFC3339))
	}
	return q
}

// ListBankTransactions returns one page of bank transactions for an account.
func (c *Client) ListBankTransactions(ctx context.Context, opts *ListBankTransactionsOptions) ([]BankTransaction, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root BankTransactionsRoot
	if err := c.get(ctx, "/bank_transactions", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list bank transactions: %w", err)
	}
	return root.BankTransactions, nil
}

// FetchAllBankTransactions pages through every bank transaction matching
// opts.
func (c *Client) FetchAllBankTransactions(ctx context.Context, opts *ListBankTransactionsOptions) ([]BankTransaction, error) {
	var all []BankTransaction
	merged := ListBankTransactionsOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		transactions, err := c.ListBankTransactions(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list bank transactions (page=%d): %w", page, err)
		}
		if len(transactions) == 0 {
			break
		}
		all = append(all, transactions...)
		if len(transactions) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetBankTransaction fetches a single bank transaction with its
// explanations nested.
func (c *Client) GetBankTransaction(ctx context.Context, id string) (*BankTransaction, error) {
	var root BankTransactionRoot
	if err := c.get(ctx, "/bank_transactions/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get bank transaction %s: %w", id, err)
	}
	return &root.BankTransaction, nil
}

// UploadBankStatement adds statement rows to a bank account. Rows with a
// transaction_id already present on the account are skipped, so re-uploading
// an overlapping statement is safe.
func (c *Client) UploadBankStatement(ctx context.Context, bankAccount string, rows []StatementRow) error {
	q := url.Values{}
	q.Set("bank_account", bankAccount)
	path := "/bank_transactions/statement?" + q.Encode()
	if err := c.post(ctx, path, statementRoot{Statement: rows}, nil); err != nil {
		return fmt.Errorf("failed to upload bank statement: %w", err)
	}
	return nil
}

// DeleteBankTransaction deletes a manually entered bank transaction. Feed
// lines cannot be deleted.
func (c *Client) DeleteBankTransaction(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/bank_transactions/"+id); err != nil {
		return fmt.Errorf("failed to delete bank transaction %s: %w", id, err)
	}
	return nil
}
