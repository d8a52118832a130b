package ledgerport

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CompanyType classifies the legal form of the business.
type CompanyType string

const (
	CompanyTypeSoleTrader     CompanyType = "sole_trader"
	CompanyTypePartnership    CompanyType = "partnership"
	CompanyTypeLimitedCompany CompanyType = "limited_company"
	CompanyTypeLLP            CompanyType = "llp"
)

// AccountingBasis selects how the company recognises income and expenses.
type AccountingBasis string

const (
	AccountingBasisAccrual AccountingBasis = "accrual"
	AccountingBasisCash    AccountingBasis = "cash"
)

// SalesTaxScheme is the VAT scheme the company reports under.
type SalesTaxScheme string

const (
	SalesTaxSchemeStandard  SalesTaxScheme = "standard"
	SalesTaxSchemeCashBasis SalesTaxScheme = "cash_basis"
	SalesTaxSchemeFlatRate  SalesTaxScheme = "flat_rate"
	SalesTaxSchemeExempt    SalesTaxScheme = "exempt"
)

// Company is the account-wide business record. There is exactly one per
// Ledgerport account.
type Company struct {
	URL                        string           `json:"url,omitempty"`
	Name                       string           `json:"name"`
	Subdomain                  string           `json:"subdomain,omitempty"`
	Type                       CompanyType      `json:"type,omitempty"`
	Currency                   string           `json:"currency,omitempty"`
	AccountingBasis            AccountingBasis  `json:"accounting_basis,omitempty"`
	MileageUnits               *string          `json:"mileage_units,omitempty"`
	CompanyStartDate           *Date            `json:"company_start_date,omitempty"`
	CompanyRegistrationNumber  *string          `json:"company_registration_number,omitempty"`
	FirstAccountingYearEnd     *Date            `json:"first_accounting_year_end,omitempty"`
	SalesTaxRegistrationStatus *string          `json:"sales_tax_registration_status,omitempty"`
	SalesTaxRegistrationNumber *string          `json:"sales_tax_registration_number,omitempty"`
	SalesTaxScheme             SalesTaxScheme   `json:"sales_tax_scheme,omitempty"`
	SalesTaxRate               *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	Address1                   *string          `json:"address1,omitempty"`
	Address2                   *string          `json:"address2,omitempty"`
	Address3                   *string          `json:"address3,omitempty"`
	Town                       *string          `json:"town,omitempty"`
	Region                     *string          `json:"region,omitempty"`
	Postcode                   *string          `json:"postcode,omitempty"`
	Country                    *string          `json:"country,omitempty"`
	ContactEmail               *string          `json:"contact_email,omitempty"`
	ContactPhone               *string          `json:"contact_phone,omitempty"`
	Website                    *string          `json:"website,omitempty"`
	BusinessCategory           *string          `json:"business_category,omitempty"`
	ShortDateFormat            *string          `json:"short_date_format,omitempty"`
	CreatedAt                  *time.Time       `json:"created_at,omitempty"`
	UpdatedAt                  *time.Time       `json:"updated_at,omitempty"`
}

// CompanyRoot is the envelope for the company resource.
type CompanyRoot struct {
	Company Company `json:"company"`
}

// GetCompany fetches the business record for the authenticated account.
func (c *Client) GetCompany(ctx context.Context) (*Company, error) {
	var root CompanyRoot
	if err := c.get(ctx, "/company", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &root.Company, nil
}

// UpdateCompany updates the business record and returns the stored version.
func (c *Client) UpdateCompany(ctx context.Context, company *Company) (*Company, error) {
	var root CompanyRoot
	if err := c.put(ctx, "/company", CompanyRoot{Company: *company}, &root); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return &root.Company, nil
}
