package ledgerport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// ReportLine is one category's contribution to an accounting report.
type ReportLine struct {
	Category    string          `json:"category,omitempty"`
	NominalCode string          `json:"nominal_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`
}

// BalanceSheet is the company's financial position at a date. All values
// are computed by the service.
//
// net_assets always equals total_capital_and_reserves on a consistent
// ledger; the report repeats both sides rather than asserting it.
type BalanceSheet struct {
	AsAtDate Date `json:"as_at_date"`

	FixedAssets        []ReportLine `json:"fixed_assets"`
	CurrentAssets      []ReportLine `json:"current_assets"`
	Liabilities        []ReportLine `json:"liabilities"`
	CapitalAndReserves []ReportLine `json:"capital_and_reserves"`

	TotalFixedAssets        decimal.Decimal `json:"total_fixed_assets"`
	TotalCurrentAssets      decimal.Decimal `json:"total_current_assets"`
	TotalLiabilities        decimal.Decimal `json:"total_liabilities"`
	NetAssets               decimal.Decimal `json:"net_assets"`
	TotalCapitalAndReserves decimal.Decimal `json:"total_capital_and_reserves"`
}

// BalanceSheetRoot is the envelope for a balance sheet report.
type BalanceSheetRoot struct {
	BalanceSheet BalanceSheet `json:"balance_sheet"`
}

// GetBalanceSheet fetches the balance sheet as at the given date, or as at
// today when asAt is nil.
func (c *Client) GetBalanceSheet(ctx context.Context, asAt *Date) (*BalanceSheet, error) {
	q := url.Values{}
	if asAt != nil {
		q.Set("as_at_date", asAt.String())
	}
	var root BalanceSheetRoot
	if err := c.get(ctx, "/accounting/balance_sheet", q, &root); err != nil {
		return nil, fmt.Errorf("failed to get balance sheet: %w", err)
	}
	return &root.BalanceSheet, nil
}
