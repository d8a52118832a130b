package ledgerport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// ProfitAndLoss is the company's trading result over a date range. All
// values are computed by the service.
type ProfitAndLoss struct {
	FromDate Date `json:"from_date"`
	ToDate   Date `json:"to_date"`

	Income        []ReportLine `json:"income"`
	CostOfSales   []ReportLine `json:"cost_of_sales"`
	AdminExpenses []ReportLine `json:"admin_expenses"`

	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalCostOfSales   decimal.Decimal `json:"total_cost_of_sales"`
	GrossProfit        decimal.Decimal `json:"gross_profit"`
	TotalAdminExpenses decimal.Decimal `json:"total_admin_expenses"`
	OperatingProfit    decimal.Decimal `json:"operating_profit"`
	// RetainedProfit is the result after corporation tax and dividends.
	CorporationTax decimal.Decimal `json:"corporation_tax"`
	Dividends      decimal.Decimal `json:"dividends"`
	RetainedProfit decimal.Decimal `json:"retained_profit"`
}

// ProfitAndLossRoot is the envelope for a profit and loss report.
type ProfitAndLossRoot struct {
	ProfitAndLoss ProfitAndLoss `json:"profit_and_loss"`
}

// GetProfitAndLoss fetches the profit and loss report between two dates.
// Nil bounds default to the current accounting year.
func (c *Client) GetProfitAndLoss(ctx context.Context, from, to *Date) (*ProfitAndLoss, error) {
	q := url.Values{}
	dateRangeQuery(q, from, to)
	var root ProfitAndLossRoot
	if err := c.get(ctx, "/accounting/profit_and_loss", q, &root); err != nil {
		return nil, fmt.Errorf("failed to get profit and loss: %w", err)
	}
	return &root.ProfitAndLoss, nil
}
