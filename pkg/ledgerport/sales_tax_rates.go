package ledgerport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// TaxBand names a sales tax band.
type TaxBand string

const (
	TaxBandStandard TaxBand = "standard"
	TaxBandReduced  TaxBand = "reduced"
	TaxBandZero     TaxBand = "zero"
	TaxBandExempt   TaxBand = "exempt"
)

// SalesTaxRate is one band's percentage on a given date. Rates change when
// the tax authority changes them, hence the date parameter on listing.
type SalesTaxRate struct {
	Band       TaxBand         `json:"band,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	IsDefault  *bool           `json:"is_default,omitempty"`
}

// SalesTaxRatesRoot is the envelope for the applicable sales tax rates.
type SalesTaxRatesRoot struct {
	SalesTaxRates []SalesTaxRate `json:"sales_tax_rates"`
}

// ListSalesTaxRates returns the rates in force on a date, or today when
// date is nil.
func (c *Client) ListSalesTaxRates(ctx context.Context, date *Date) ([]SalesTaxRate, error) {
	q := url.Values{}
	if date != nil {
		q.Set("date", date.String())
	}
	var root SalesTaxRatesRoot
	if err := c.get(ctx, "/sales_tax_rates", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list sales tax rates: %w", err)
	}
	return root.SalesTaxRates, nil
}
