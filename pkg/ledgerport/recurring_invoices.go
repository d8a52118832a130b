package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringFrequency is how often a recurring invoice generates a new draft.
type RecurringFrequency string

const (
	RecurringFrequencyWeekly     RecurringFrequency = "weekly"
	RecurringFrequencyTwoWeekly  RecurringFrequency = "two_weekly"
	RecurringFrequencyFourWeekly RecurringFrequency = "four_weekly"
	RecurringFrequencyMonthly    RecurringFrequency = "monthly"
	RecurringFrequencyTwoMonthly RecurringFrequency = "two_monthly"
	RecurringFrequencyQuarterly  RecurringFrequency = "quarterly"
	RecurringFrequencyBiannually RecurringFrequency = "biannually"
	RecurringFrequencyAnnually   RecurringFrequency = "annually"
)

// RecurringInvoiceStatus is the schedule state of a recurring profile.
type RecurringInvoiceStatus string

const (
	RecurringInvoiceStatusActive   RecurringInvoiceStatus = "active"
	RecurringInvoiceStatusInactive RecurringInvoiceStatus = "inactive"
	RecurringInvoiceStatusDraft    RecurringInvoiceStatus = "draft"
)

// RecurringInvoice is a template that the service turns into real invoices on
// a schedule. Profiles are managed in the service UI; the API exposes them
// read-only.
type RecurringInvoice struct {
	URL                  string                 `json:"url,omitempty"`
	Contact              string                 `json:"contact,omitempty"`
	Project              *string                `json:"project,omitempty"`
	Reference            string                 `json:"reference,omitempty"`
	DatedOn              Date                   `json:"dated_on"`
	NextRecursOn         *Date                  `json:"next_recurs_on,omitempty"`
	RecursUntil          *Date                  `json:"recurs_until,omitempty"`
	Frequency            RecurringFrequency     `json:"frequency,omitempty"`
	Status               RecurringInvoiceStatus `json:"status,omitempty"`
	PaymentTermsInDays   *int                   `json:"payment_terms_in_days,omitempty"`
	Currency             string                 `json:"currency,omitempty"`
	ECStatus             ECStatus               `json:"ec_status,omitempty"`
	Comments             *string                `json:"comments,omitempty"`
	POReference          *string                `json:"po_reference,omitempty"`
	DiscountPercent      *decimal.Decimal       `json:"discount_percent,omitempty"`
	NetValue             *decimal.Decimal       `json:"net_value,omitempty"`
	SalesTaxValue        *decimal.Decimal       `json:"sales_tax_value,omitempty"`
	TotalValue           *decimal.Decimal       `json:"total_value,omitempty"`
	SendNewInvoiceEmails *bool                  `json:"send_new_invoice_emails,omitempty"`
	InvoiceItems         []InvoiceItem          `json:"invoice_items,omitempty"`
	CreatedAt            *time.Time             `json:"created_at,omitempty"`
	UpdatedAt            *time.Time             `json:"updated_at,omitempty"`
}

// RecurringInvoiceRoot is the envelope for a single recurring invoice.
type RecurringInvoiceRoot struct {
	RecurringInvoice RecurringInvoice `json:"recurring_invoice"`
}

// RecurringInvoicesRoot is the envelope for a list of recurring invoices.
type RecurringInvoicesRoot struct {
	RecurringInvoices []RecurringInvoice `json:"recurring_invoices"`
}

// ListRecurringInvoicesOptions filters recurring invoice listings.
type ListRecurringInvoicesOptions struct {
	ListOptions
	// View narrows by schedule state: all, active, inactive, draft.
	View    string
	Contact string
}

func (o ListRecurringInvoicesOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	if o.Contact != "" {
		q.Set("contact", o.Contact)
	}
	return q
}

// ListRecurringInvoices returns one page of recurring invoice profiles.
func (c *Client) ListRecurringInvoices(ctx context.Context, opts *ListRecurringInvoicesOptions) ([]RecurringInvoice, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root RecurringInvoicesRoot
	if err := c.get(ctx, "/recurring_invoices", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list recurring invoices: %w", err)
	}
	return root.RecurringInvoices, nil
}

// GetRecurringInvoice fetches a single recurring invoice profile.
func (c *Client) GetRecurringInvoice(ctx context.Context, id string) (*RecurringInvoice, error) {
	var root RecurringInvoiceRoot
	if err := c.get(ctx, "/recurring_invoices/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get recurring invoice %s: %w", id, err)
	}
	return &root.RecurringInvoice, nil
}
