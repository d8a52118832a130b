package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// EstimateStatus is the lifecycle state of an estimate.
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusApproved EstimateStatus = "approved"
	EstimateStatusRejected EstimateStatus = "rejected"
	EstimateStatusInvoiced EstimateStatus = "invoiced"
)

// EstimateType controls the heading the document is rendered under.
type EstimateType string

const (
	EstimateTypeEstimate EstimateType = "estimate"
	EstimateTypeQuote    EstimateType = "quote"
	EstimateTypeProposal EstimateType = "proposal"
)

// EstimateItem is one line on an estimate.
type EstimateItem struct {
	URL          string           `json:"url,omitempty"`
	Position     *int             `json:"position,omitempty"`
	ItemType     ItemType         `json:"item_type,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Description  string           `json:"description,omitempty"`
	SalesTaxRate *decimal.Decimal `json:"sales_tax_rate,omitempty"`
}

// Estimate is a quotation offered to a contact before any invoice exists.
type Estimate struct {
	URL               string           `json:"url,omitempty"`
	Contact           string           `json:"contact,omitempty"`
	Project           *string          `json:"project,omitempty"`
	Reference         string           `json:"reference,omitempty"`
	DatedOn           Date             `json:"dated_on"`
	EstimateType      EstimateType     `json:"estimate_type,omitempty"`
	Status            EstimateStatus   `json:"status,omitempty"`
	Currency          string           `json:"currency,omitempty"`
	NetValue          *decimal.Decimal `json:"net_value,omitempty"`
	SalesTaxValue     *decimal.Decimal `json:"sales_tax_value,omitempty"`
	TotalValue        *decimal.Decimal `json:"total_value,omitempty"`
	DiscountPercent   *decimal.Decimal `json:"discount_percent,omitempty"`
	ClientContactName *string          `json:"client_contact_name,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
	// Invoice links the invoice this estimate was converted into, once
	// status reaches invoiced.
	Invoice       *string        `json:"invoice,omitempty"`
	EstimateItems []EstimateItem `json:"estimate_items,omitempty"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// EstimateRoot is the envelope for a single estimate.
type EstimateRoot struct {
	Estimate Estimate `json:"estimate"`
}

// EstimatesRoot is the envelope for a list of estimates.
type EstimatesRoot struct {
	Estimates []Estimate `json:"estimates"`
}

// estimateEmailRoot nests the email message as {"estimate": {"email": {...}}}.
type estimateEmailRoot struct {
	Estimate struct {
		Email EmailDetails `json:"email"`
	} `json:"estimate"`
}

// ListEstimatesOptions filters estimate listings.
type ListEstimatesOptions struct {
	ListOptions
	// View narrows by state: all, recent, draft, sent, approved, rejected,
	// invoiced.
	View     string
	Contact  string
	Project  string
	FromDate *Date
	ToDate   *Date
}

func (o ListEstimatesOptions) values() url.Values {
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
	return q
}

// ListEstimates returns one page of estimates.
func (c *Client) ListEstimates(ctx context.Context, opts *ListEstimatesOptions) ([]Estimate, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root EstimatesRoot
	if err := c.get(ctx, "/estimates", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}
	return root.Estimates, nil
}

// GetEstimate fetches a single estimate, including its items.
func (c *Client) GetEstimate(ctx context.Context, id string) (*Estimate, error) {
	var root EstimateRoot
	if err := c.get(ctx, "/estimates/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get estimate %s: %w", id, err)
	}
	return &root.Estimate, nil
}

// CreateEstimate creates an estimate and returns the stored version.
func (c *Client) CreateEstimate(ctx context.Context, estimate *Estimate) (*Estimate, error) {
	var root EstimateRoot
	if err := c.post(ctx, "/estimates", EstimateRoot{Estimate: *estimate}, &root); err != nil {
		return nil, fmt.Errorf("failed to create estimate: %w", err)
	}
	return &root.Estimate, nil
}

// UpdateEstimate updates an estimate and returns the stored version.
func (c *Client) UpdateEstimate(ctx context.Context, id string, estimate *Estimate) (*Estimate, error) {
	var root EstimateRoot
	if err := c.put(ctx, "/estimates/"+id, EstimateRoot{Estimate: *estimate}, &root); err != nil {
		return nil, fmt.Errorf("failed to update estimate %s: %w", id, err)
	}
	return &root.Estimate, nil
}

// DeleteEstimate deletes an estimate.
func (c *Client) DeleteEstimate(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/estimates/"+id); err != nil {
		return fmt.Errorf("failed to delete estimate %s: %w", id, err)
	}
	return nil
}

// MarkEstimateAsSent transitions a draft estimate to sent.
func (c *Client) MarkEstimateAsSent(ctx context.Context, id string) error {
	if err := c.put(ctx, "/estimates/"+id+"/transitions/mark_as_sent", nil, nil); err != nil {
		return fmt.Errorf("failed to mark estimate %s as sent: %w", id, err)
	}
	return nil
}

// MarkEstimateAsApproved records the contact's approval.
func (c *Client) MarkEstimateAsApproved(ctx context.Context, id string) error {
	if err := c.put(ctx, "/estimates/"+id+"/transitions/mark_as_approved", nil, nil); err != nil {
		return fmt.Errorf("failed to mark estimate %s as approved: %w", id, err)
	}
	return nil
}

// MarkEstimateAsRejected records the contact's rejection.
func (c *Client) MarkEstimateAsRejected(ctx context.Context, id string) error {
	if err := c.put(ctx, "/estimates/"+id+"/transitions/mark_as_rejected", nil, nil); err != nil {
		return fmt.Errorf("failed to mark estimate %s as rejected: %w", id, err)
	}
	return nil
}

// MarkEstimateAsDraft pulls an estimate back to draft.
func (c *Client) MarkEstimateAsDraft(ctx context.Context, id string) error {
	if err := c.put(ctx, "/estimates/"+id+"/transitions/mark_as_draft", nil, nil); err != nil {
		return fmt.Errorf("failed to mark estimate %s as draft: %w", id, err)
	}
	return nil
}

// ConvertEstimateToInvoice turns an approved estimate into a draft invoice
// and returns the new invoice.
func (c *Client) ConvertEstimateToInvoice(ctx context.Context, id string) (*Invoice, error) {
	var root InvoiceRoot
	if err := c.post(ctx, "/estimates/"+id+"/convert_to_invoice", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to convert estimate %s to invoice: %w", id, err)
	}
	return &root.Invoice, nil
}

// EmailEstimate asks the service to email the estimate to its contact.
func (c *Client) EmailEstimate(ctx context.Context, id string, email EmailDetails) error {
	var body estimateEmailRoot
	body.Estimate.Email = email
	if err := c.post(ctx, "/estimates/"+id+"/send_email", body, nil); err != nil {
		return fmt.Errorf("failed to email estimate %s: %w", id, err)
	}
	return nil
}

// GetEstimatePDF fetches the base64-encoded PDF rendering of an estimate.
func (c *Client) GetEstimatePDF(ctx context.Context, id string) (*PDFData, error) {
	var root PDFRoot
	if err := c.get(ctx, "/estimates/"+id+"/pdf", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get estimate %s PDF: %w", id, err)
	}
	return &root.PDF, nil
}
