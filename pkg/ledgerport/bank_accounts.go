package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// BankAccountType distinguishes the kinds of money accounts the service
// tracks.
type BankAccountType string

const (
	BankAccountTypeStandard   BankAccountType = "standard_bank_account"
	BankAccountTypeCreditCard BankAccountType = "credit_card_account"
	BankAccountTypePaypal     BankAccountType = "paypal_account"
)

// BankAccount is a bank, credit card or PayPal account money moves through.
//
// current_balance and latest_activity_date are maintained by the service and
// are read-only.
type BankAccount struct {
	URL           string          `json:"url,omitempty"`
	Type          BankAccountType `json:"type,omitempty"`
	Name          string          `json:"name,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	IsPersonal    *bool           `json:"is_personal,omitempty"`
	IsPrimary     *bool           `json:"is_primary,omitempty"`
	BankName      *string         `json:"bank_name,omitempty"`
	AccountNumber *string         `json:"account_number,omitempty"`
	SortCode      *string         `json:"sort_code,omitempty"`
	IBAN          *string         `json:"iban,omitempty"`
	BIC           *string         `json:"bic,omitempty"`
	// Email identifies the account holder for paypal_account types.
	Email              *string          `json:"email,omitempty"`
	OpeningBalance     *decimal.Decimal `json:"opening_balance,omitempty"`
	CurrentBalance     *decimal.Decimal `json:"current_balance,omitempty"`
	LatestActivityDate *Date            `json:"latest_activity_date,omitempty"`
	CreatedAt          *time.Time       `json:"created_at,omitempty"`
	UpdatedAt          *time.Time       `json:"updated_at,omitempty"`
}

// BankAccountRoot is the envelope for a single bank account.
type BankAccountRoot struct {
	BankAccount BankAccount `json:"bank_account"`
}

// BankAccountsRoot is the envelope for a list of bank accounts.
type BankAccountsRoot struct {
	BankAccounts []BankAccount `json:"bank_accounts"`
}

// ListBankAccountsOptions filters bank account listings.
type ListBankAccountsOptions struct {
	ListOptions
	// View narrows by type: all, standard_bank_accounts,
	// credit_card_accounts, paypal_accounts.
	View string
}

func (o ListBankAccountsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	return q
}

// ListBankAccounts returns the company's bank accounts.
func (c *Client) ListBankAccounts(ctx context.Context, opts *ListBankAccountsOptions) ([]BankAccount, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root BankAccountsRoot
	if err := c.get(ctx, "/bank_accounts", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	return root.BankAccounts, nil
}

// GetBankAccount fetches a single bank account.
func (c *Client) GetBankAccount(ctx context.Context, id string) (*BankAccount, error) {
	var root BankAccountRoot
	if err := c.get(ctx, "/bank_accounts/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get bank account %s: %w", id, err)
	}
	return &root.BankAccount, nil
}

// CreateBankAccount creates a bank account and returns the stored version.
func (c *Client) CreateBankAccount(ctx context.Context, account *BankAccount) (*BankAccount, error) {
	var root BankAccountRoot
	if err := c.post(ctx, "/bank_accounts", BankAccountRoot{BankAccount: *account}, &root); err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}
	return &root.BankAccount, nil
}

// UpdateBankAccount updates a bank account and returns the stored version.
// Accounts with recorded activity cannot be deleted through the API, only
// renamed or marked personal.
func (c *Client) UpdateBankAccount(ctx context.Context, id string, account *BankAccount) (*BankAccount, error) {
	var root BankAccountRoot
	if err := c.put(ctx, "/bank_accounts/"+id, BankAccountRoot{BankAccount: *account}, &root); err != nil {
		return nil, fmt.Errorf("failed to update bank account %s: %w", id, err)
	}
	return &root.BankAccount, nil
}
