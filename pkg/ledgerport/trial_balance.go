package ledgerport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one category's closing balance. DebitValue is positive
// for debit balances and negative for credit balances.
//
// The rows of a consistent ledger sum to zero. The service guarantees this;
// the value here is whatever it returned.
type TrialBalanceRow struct {
	Category    string          `json:"category,omitempty"`
	NominalCode string          `json:"nominal_code,omitempty"`
	Description string          `json:"description,omitempty"`
	DebitValue  decimal.Decimal `json:"debit_value"`
}

// TrialBalanceRoot is the envelope for a trial balance report.
type TrialBalanceRoot struct {
	TrialBalance []TrialBalanceRow `json:"trial_balance"`
}

// GetTrialBalance fetches every category's balance as at the given date, or
// as at today when asAt is nil.
func (c *Client) GetTrialBalance(ctx context.Context, asAt *Date) ([]TrialBalanceRow, error) {
	q := url.Values{}
	if asAt != nil {
		q.Set("as_at_date", asAt.String())
	}
	var root TrialBalanceRoot
	if err := c.get(ctx, "/accounting/trial_balance/summary", q, &root); err != nil {
		return nil, fmt.Errorf("failed to get trial balance: %w", err)
	}
	return root.TrialBalance, nil
}
