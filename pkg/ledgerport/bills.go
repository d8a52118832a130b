package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the payment state of a bill. Overdue is derived by the
// service from the due date.
type BillStatus string

const (
	BillStatusOpen     BillStatus = "open"
	BillStatusOverdue  BillStatus = "overdue"
	BillStatusPaid     BillStatus = "paid"
	BillStatusRefunded BillStatus = "refunded"
)

// RebillType says how a bill passed on to a project is priced when it is
// rebilled to the client.
type RebillType string

const (
	// RebillTypeCost rebills at the amount on the bill.
	RebillTypeCost RebillType = "cost"
	// RebillTypeMarkup rebills at cost plus a percentage in rebill_factor.
	RebillTypeMarkup RebillType = "markup"
	// RebillTypePrice rebills at the fixed amount in rebill_factor.
	RebillTypePrice RebillType = "price"
)

// BillItem is one line on a bill. Unlike invoice lines, bill lines carry the
// gross amount rather than quantity times price.
type BillItem struct {
	URL           string           `json:"url,omitempty"`
	Bill          string           `json:"bill,omitempty"`
	Category      string           `json:"category,omitempty"`
	Description   string           `json:"description,omitempty"`
	TotalValue    *decimal.Decimal `json:"total_value,omitempty"`
	SalesTaxRate  *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	SalesTaxValue *decimal.Decimal `json:"sales_tax_value,omitempty"`
	Project       *string          `json:"project,omitempty"`
	StockItem     *string          `json:"stock_item,omitempty"`
	// StockAlteringQuantity is the number of stock units this line adds,
	// when the line purchases a stock item.
	StockAlteringQuantity *decimal.Decimal `json:"stock_altering_quantity,omitempty"`
}

// Bill is a purchase invoice received from a supplier contact.
type Bill struct {
	URL             string           `json:"url,omitempty"`
	Contact         string           `json:"contact,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	DatedOn         Date             `json:"dated_on"`
	DueOn           *Date            `json:"due_on,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate,omitempty"`
	NetValue        *decimal.Decimal `json:"net_value,omitempty"`
	SalesTaxValue   *decimal.Decimal `json:"sales_tax_value,omitempty"`
	TotalValue      *decimal.Decimal `json:"total_value,omitempty"`
	DueValue        *decimal.Decimal `json:"due_value,omitempty"`
	PaidValue       *decimal.Decimal `json:"paid_value,omitempty"`
	PaidOn          *Date            `json:"paid_on,omitempty"`
	Status          BillStatus       `json:"status,omitempty"`
	ECStatus        ECStatus         `json:"ec_status,omitempty"`
	Comments        *string          `json:"comments,omitempty"`
	Project         *string          `json:"project,omitempty"`
	RebillType      RebillType       `json:"rebill_type,omitempty"`
	RebillFactor    *decimal.Decimal `json:"rebill_factor,omitempty"`
	RebillToProject *string          `json:"rebill_to_project,omitempty"`
	// RebilledOnInvoiceItem links the invoice line that passed this bill on
	// to a client, once rebilling has happened.
	RebilledOnInvoiceItem *string    `json:"rebilled_on_invoice_item,omitempty"`
	Attachment            *string    `json:"attachment,omitempty"`
	BillItems             []BillItem `json:"bill_items,omitempty"`
	CreatedAt             *time.Time `json:"created_at,omitempty"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

// BillRoot is the envelope for a single bill.
type BillRoot struct {
	Bill Bill `json:"bill"`
}

// BillsRoot is the envelope for a list of bills.
type BillsRoot struct {
	Bills []Bill `json:"bills"`
}

// ListBillsOptions filters and paginates bill listings.
type ListBillsOptions struct {
	ListOptions
	// View narrows by state: all, open, overdue, open_or_overdue, paid,
	// recent.
	View     string
	Contact  string
	Project  string
	FromDate *Date
	ToDate   *Date
	// UpdatedSince returns only bills touched after the given instant.
	UpdatedSince *time.Time
}

func (o ListBillsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	if o.Contact != "" {
		q.Set("contact", o.Contact)
	}
	if o.Project != "" {
		q.Set("project", o.Project)
	}
	dateRangeQuery(q, o.FromDate, o.ToDate)
	if o.UpdatedSince != nil {
		q.Set("updated_since", o.UpdatedSince.UTC().Format(time.RFC3339))
	}
	return q
}

// ListBills returns one page of bills.
func (c *Client) ListBills(ctx context.Context, opts *ListBillsOptions) ([]Bill, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root BillsRoot
	if err := c.get(ctx, "/bills", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return root.Bills, nil
}

// FetchAllBills pages through every bill matching opts.
func (c *Client) FetchAllBills(ctx context.Context, opts *ListBillsOptions) ([]Bill, error) {
	var all []Bill
	merged := ListBillsOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		bills, err := c.ListBills(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list bills (page=%d): %w", page, err)
		}
		if len(bills) == 0 {
			break
		}
		all = append(all, bills...)
		if len(bills) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetBill fetches a single bill, including its items.
func (c *Client) GetBill(ctx context.Context, id string) (*Bill, error) {
	var root BillRoot
	if err := c.get(ctx, "/bills/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get bill %s: %w", id, err)
	}
	return &root.Bill, nil
}

// CreateBill creates a bill and returns the stored version.
func (c *Client) CreateBill(ctx context.Context, bill *Bill) (*Bill, error) {
	var root BillRoot
	if err := c.post(ctx, "/bills", BillRoot{Bill: *bill}, &root); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return &root.Bill, nil
}

// UpdateBill updates a bill and returns the stored version.
func (c *Client) UpdateBill(ctx context.Context, id string, bill *Bill) (*Bill, error) {
	var root BillRoot
	if err := c.put(ctx, "/bills/"+id, BillRoot{Bill: *bill}, &root); err != nil {
		return nil, fmt.Errorf("failed to update bill %s: %w", id, err)
	}
	return &root.Bill, nil
}

// DeleteBill deletes a bill.
func (c *Client) DeleteBill(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/bills/"+id); err != nil {
		return fmt.Errorf("failed to delete bill %s: %w", id, err)
	}
	return nil
}
