package ledgerport

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VATReturn is one VAT accounting period with the nine box values the
// return is filed from. The service computes the boxes; the API exposes
// returns read-only.
//
// Box numbering follows the standard return: 1 VAT due on sales, 2 VAT due
// on acquisitions, 3 total VAT due, 4 VAT reclaimed on purchases, 5 net VAT
// due, 6 total sales ex VAT, 7 total purchases ex VAT, 8 goods supplied ex
// VAT, 9 acquisitions ex VAT.
type VATReturn struct {
	URL            string       `json:"url,omitempty"`
	PeriodStartsOn Date         `json:"period_starts_on"`
	PeriodEndsOn   Date         `json:"period_ends_on"`
	FilingDueOn    *Date        `json:"filing_due_on,omitempty"`
	FilingStatus   FilingStatus `json:"filing_status,omitempty"`
	FiledAt        *time.Time   `json:"filed_at,omitempty"`

	VATDueOnSales          *decimal.Decimal `json:"vat_due_on_sales,omitempty"`
	VATDueOnAcquisitions   *decimal.Decimal `json:"vat_due_on_acquisitions,omitempty"`
	TotalVATDue            *decimal.Decimal `json:"total_vat_due,omitempty"`
	VATReclaimed           *decimal.Decimal `json:"vat_reclaimed,omitempty"`
	NetVATDue              *decimal.Decimal `json:"net_vat_due,omitempty"`
	TotalSalesExVAT        *decimal.Decimal `json:"total_sales_ex_vat,omitempty"`
	TotalPurchasesExVAT    *decimal.Decimal `json:"total_purchases_ex_vat,omitempty"`
	TotalSuppliesExVAT     *decimal.Decimal `json:"total_supplies_ex_vat,omitempty"`
	TotalAcquisitionsExVAT *decimal.Decimal `json:"total_acquisitions_ex_vat,omitempty"`
}

// VATReturnRoot is the envelope for a single VAT return.
type VATReturnRoot struct {
	VATReturn VATReturn `json:"vat_return"`
}

// VATReturnsRoot is the envelope for a list of VAT returns.
type VATReturnsRoot struct {
	VATReturns []VATReturn `json:"vat_returns"`
}

// ListVATReturns returns the company's VAT returns, newest period first.
func (c *Client) ListVATReturns(ctx context.Context) ([]VATReturn, error) {
	var root VATReturnsRoot
	if err := c.get(ctx, "/vat_returns", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to list VAT returns: %w", err)
	}
	return root.VATReturns, nil
}

// GetVATReturn fetches a single VAT return.
func (c *Client) GetVATReturn(ctx context.Context, id string) (*VATReturn, error) {
	var root VATReturnRoot
	if err := c.get(ctx, "/vat_returns/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get VAT return %s: %w", id, err)
	}
	return &root.VATReturn, nil
}
