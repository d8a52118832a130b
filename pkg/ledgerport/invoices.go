package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice. Overdue is derived by
// the service from the due date and is never accepted on input.
type InvoiceStatus string

const (
	InvoiceStatusDraft      InvoiceStatus = "draft"
	InvoiceStatusScheduled  InvoiceStatus = "scheduled"
	InvoiceStatusOpen       InvoiceStatus = "open"
	InvoiceStatusOverdue    InvoiceStatus = "overdue"
	InvoiceStatusPaid       InvoiceStatus = "paid"
	InvoiceStatusOverpaid   InvoiceStatus = "overpaid"
	InvoiceStatusRefunded   InvoiceStatus = "refunded"
	InvoiceStatusWrittenOff InvoiceStatus = "written_off"
	InvoiceStatusCancelled  InvoiceStatus = "cancelled"
)

// ECStatus is the EC VAT treatment of a line or document.
type ECStatus string

const (
	ECStatusUK            ECStatus = "uk"
	ECStatusNonEC         ECStatus = "non_ec"
	ECStatusECGoods       ECStatus = "ec_goods"
	ECStatusECServices    ECStatus = "ec_services"
	ECStatusReverseCharge ECStatus = "reverse_charge"
)

// ItemType says what an invoice line's quantity counts.
type ItemType string

const (
	ItemTypeHours    ItemType = "hours"
	ItemTypeDays     ItemType = "days"
	ItemTypeWeeks    ItemType = "weeks"
	ItemTypeMonths   ItemType = "months"
	ItemTypeYears    ItemType = "years"
	ItemTypeProducts ItemType = "products"
	ItemTypeServices ItemType = "services"
	ItemTypeExpenses ItemType = "expenses"
	ItemTypeDiscount ItemType = "discount"
	ItemTypeComment  ItemType = "comment"
)

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	URL           string           `json:"url,omitempty"`
	Position      *int             `json:"position,omitempty"`
	ItemType      ItemType         `json:"item_type,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category,omitempty"`
	SalesTaxRate  *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	SalesTaxValue *decimal.Decimal `json:"sales_tax_value,omitempty"`
	StockItem     *string          `json:"stock_item,omitempty"`
	Project       *string          `json:"project,omitempty"`
}

// Invoice is a sales invoice issued to a contact.
//
// Monetary totals (net_value, sales_tax_value, total_value, due_value,
// paid_value) are derived by the service from the invoice items and are
// read-only; values supplied on input are ignored.
type Invoice struct {
	URL                  string           `json:"url,omitempty"`
	Contact              string           `json:"contact,omitempty"`
	Project              *string          `json:"project,omitempty"`
	Reference            string           `json:"reference,omitempty"`
	DatedOn              Date             `json:"dated_on"`
	DueOn                *Date            `json:"due_on,omitempty"`
	PaymentTermsInDays   *int             `json:"payment_terms_in_days,omitempty"`
	Currency             string           `json:"currency,omitempty"`
	ExchangeRate         *decimal.Decimal `json:"exchange_rate,omitempty"`
	NetValue             *decimal.Decimal `json:"net_value,omitempty"`
	SalesTaxValue        *decimal.Decimal `json:"sales_tax_value,omitempty"`
	TotalValue           *decimal.Decimal `json:"total_value,omitempty"`
	DueValue             *decimal.Decimal `json:"due_value,omitempty"`
	PaidValue            *decimal.Decimal `json:"paid_value,omitempty"`
	PaidOn               *Date            `json:"paid_on,omitempty"`
	WrittenOffDate       *Date            `json:"written_off_date,omitempty"`
	Status               InvoiceStatus    `json:"status,omitempty"`
	Comments             *string          `json:"comments,omitempty"`
	POReference          *string          `json:"po_reference,omitempty"`
	ClientContactName    *string          `json:"client_contact_name,omitempty"`
	BankAccount          *string          `json:"bank_account,omitempty"`
	ECStatus             ECStatus         `json:"ec_status,omitempty"`
	DiscountPercent      *decimal.Decimal `json:"discount_percent,omitempty"`
	SendReminderEmails   *bool            `json:"send_reminder_emails,omitempty"`
	OmitHeader           *bool            `json:"omit_header,omitempty"`
	AlwaysShowBICAndIBAN *bool            `json:"always_show_bic_and_iban,omitempty"`
	PaymentURL           *string          `json:"payment_url,omitempty"`
	InvoiceItems         []InvoiceItem    `json:"invoice_items,omitempty"`
	CreatedAt            *time.Time       `json:"created_at,omitempty"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`
}

// InvoiceRoot is the envelope for a single invoice.
type InvoiceRoot struct {
	Invoice Invoice `json:"invoice"`
}

// InvoicesRoot is the envelope for a list of invoices.
type InvoicesRoot struct {
	Invoices []Invoice `json:"invoices"`
}

// EmailDetails is the message used when the service emails a document on the
// sender's behalf.
type EmailDetails struct {
	To            string `json:"to,omitempty"`
	From          string `json:"from,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Body          string `json:"body,omitempty"`
	EmailToSender *bool  `json:"email_to_sender,omitempty"`
	Attachment    *bool  `json:"attachment,omitempty"`
}

// invoiceEmailRoot nests the email message the way the service expects:
// {"invoice": {"email": {...}}}.
type invoiceEmailRoot struct {
	Invoice struct {
		Email EmailDetails `json:"email"`
	} `json:"invoice"`
}

// PDFData carries a base64-encoded PDF rendering of a document.
type PDFData struct {
	Content string `json:"content"`
}

// PDFRoot is the envelope for a PDF rendering.
type PDFRoot struct {
	PDF PDFData `json:"pdf"`
}

// ListInvoicesOptions filters and paginates invoice listings.
type ListInvoicesOptions struct {
	ListOptions
	// View narrows by state: all, recent_open_or_overdue, open, overdue,
	// open_or_overdue, draft, scheduled_to_email, thank_you_emails,
	// reminder_emails, last_N_months.
	View string
	// Contact and Project restrict to one parent resource URL each.
	Contact string
	Project string
	// Sort orders results; prefix with "-" for descending. Recognised keys:
	// created_at, updated_at, dated_on, due_on, reference.
	Sort string
	// NestedInvoiceItems includes each invoice's items in list output.
	NestedInvoiceItems bool
	FromDate           *Date
	ToDate             *Date
}

func (o ListInvoicesOptions) values() url.Values {
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
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.NestedInvoiceItems {
		q.Set("nested_invoice_items", "true")
	}
	dateRangeQuery(q, o.FromDate, o.ToDate)
	return q
}

// ListInvoices returns one page of invoices.
func (c *Client) ListInvoices(ctx context.Context, opts *ListInvoicesOptions) ([]Invoice, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root InvoicesRoot
	if err := c.get(ctx, "/invoices", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return root.Invoices, nil
}

// FetchAllInvoices pages through every invoice matching opts.
func (c *Client) FetchAllInvoices(ctx context.Context, opts *ListInvoicesOptions) ([]Invoice, error) {
	var all []Invoice
	merged := ListInvoicesOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		invoices, err := c.ListInvoices(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list invoices (page=%d): %w", page, err)
		}
		if len(invoices) == 0 {
			break
		}
		all = append(all, invoices...)
		if len(invoices) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetInvoice fetches a single invoice, including its items.
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var root InvoiceRoot
	if err := c.get(ctx, "/invoices/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get invoice %s: %w", id, err)
	}
	return &root.Invoice, nil
}

// CreateInvoice creates an invoice and returns the stored version with
// service-derived totals filled in.
func (c *Client) CreateInvoice(ctx context.Context, invoice *Invoice) (*Invoice, error) {
	var root InvoiceRoot
	if err := c.post(ctx, "/invoices", InvoiceRoot{Invoice: *invoice}, &root); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &root.Invoice, nil
}

// UpdateInvoice updates a draft invoice and returns the stored version.
func (c *Client) UpdateInvoice(ctx context.Context, id string, invoice *Invoice) (*Invoice, error) {
	var root InvoiceRoot
	if err := c.put(ctx, "/invoices/"+id, InvoiceRoot{Invoice: *invoice}, &root); err != nil {
		return nil, fmt.Errorf("failed to update invoice %s: %w", id, err)
	}
	return &root.Invoice, nil
}

// DeleteInvoice deletes a draft invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/invoices/"+id); err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", id, err)
	}
	return nil
}

// MarkInvoiceAsSent transitions a draft invoice to open.
func (c *Client) MarkInvoiceAsSent(ctx context.Context, id string) error {
	if err := c.put(ctx, "/invoices/"+id+"/transitions/mark_as_sent", nil, nil); err != nil {
		return fmt.Errorf("failed to mark invoice %s as sent: %w", id, err)
	}
	return nil
}

// MarkInvoiceAsDraft transitions an open invoice back to draft.
func (c *Client) MarkInvoiceAsDraft(ctx context.Context, id string) error {
	if err := c.put(ctx, "/invoices/"+id+"/transitions/mark_as_draft", nil, nil); err != nil {
		return fmt.Errorf("failed to mark invoice %s as draft: %w", id, err)
	}
	return nil
}

// MarkInvoiceAsCancelled cancels an open invoice.
func (c *Client) MarkInvoiceAsCancelled(ctx context.Context, id string) error {
	if err := c.put(ctx, "/invoices/"+id+"/transitions/mark_as_cancelled", nil, nil); err != nil {
		return fmt.Errorf("failed to mark invoice %s as cancelled: %w", id, err)
	}
	return nil
}

// EmailInvoice asks the service to email the invoice to its contact.
func (c *Client) EmailInvoice(ctx context.Context, id string, email EmailDetails) error {
	var body invoiceEmailRoot
	body.Invoice.Email = email
	if err := c.post(ctx, "/invoices/"+id+"/send_email", body, nil); err != nil {
		return fmt.Errorf("failed to email invoice %s: %w", id, err)
	}
	return nil
}

// GetInvoicePDF fetches the base64-encoded PDF rendering of an invoice.
func (c *Client) GetInvoicePDF(ctx context.Context, id string) (*PDFData, error) {
	var root PDFRoot
	if err := c.get(ctx, "/invoices/"+id+"/pdf", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get invoice %s PDF: %w", id, err)
	}
	return &root.PDF, nil
}
