package ledgerport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// Category is one nominal account in the chart of accounts. Categories are
// addressed by nominal code rather than by numeric ID, so a category URL
// ends in its code: .../categories/285.
//
// Nominal codes group accounts by range: 001-049 income, 100-199 cost of
// sales, 200-399 admin expenses, 600-699 current assets, 700-799
// liabilities, 900-999 capital and reserves. The service maintains these
// ranges; clients only ever read them.
type Category struct {
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	NominalCode string `json:"nominal_code,omitempty"`
	// GroupDescription names the reporting group the category rolls up
	// into on the profit and loss report.
	GroupDescription *string          `json:"group_description,omitempty"`
	AllowableForTax  *bool            `json:"allowable_for_tax,omitempty"`
	TaxReportingName *string          `json:"tax_reporting_name,omitempty"`
	AutoSalesTaxRate *decimal.Decimal `json:"auto_sales_tax_rate,omitempty"`
}

// CategoryRoot is the envelope for a single category.
type CategoryRoot struct {
	Category Category `json:"category"`
}

// CategoriesRoot is the envelope for the chart of accounts. The service
// returns categories pre-sorted into their reporting groups rather than as
// one flat list.
type CategoriesRoot struct {
	IncomeCategories        []Category `json:"income_categories"`
	CostOfSalesCategories   []Category `json:"cost_of_sales_categories"`
	AdminExpensesCategories []Category `json:"admin_expenses_categories"`
	GeneralCategories       []Category `json:"general_categories"`
}

// All flattens the grouped chart of accounts into a single list, income
// first, in the order the service returned each group.
func (r *CategoriesRoot) All() []Category {
	all := make([]Category, 0,
		len(r.IncomeCategories)+len(r.CostOfSalesCategories)+
			len(r.AdminExpensesCategories)+len(r.GeneralCategories))
	all = append(all, r.IncomeCategories...)
	all = append(all, r.CostOfSalesCategories...)
	all = append(all, r.AdminExpensesCategories...)
	all = append(all, r.GeneralCategories...)
	return all
}

// ListCategoriesOptions controls which parts of the chart are returned.
type ListCategoriesOptions struct {
	// SubAccounts includes user-created sub-accounts beneath each standard
	// category.
	SubAccounts bool
}

func (o ListCategoriesOptions) values() url.Values {
	q := url.Values{}
	if o.SubAccounts {
		q.Set("sub_accounts", "true")
	}
	return q
}

// ListCategories fetches the company's chart of accounts. Categories are not
// paginated; the full chart comes back in one response.
func (c *Client) ListCategories(ctx context.Context, opts *ListCategoriesOptions) (*CategoriesRoot, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root CategoriesRoot
	if err := c.get(ctx, "/categories", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &root, nil
}

// GetCategory fetches a single category by nominal code.
func (c *Client) GetCategory(ctx context.Context, nominalCode string) (*Category, error) {
	var root CategoryRoot
	if err := c.get(ctx, "/categories/"+nominalCode, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", nominalCode, err)
	}
	return &root.Category, nil
}
