package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// CreditNoteStatus is the lifecycle state of a credit note.
type CreditNoteStatus string

const (
	CreditNoteStatusDraft      CreditNoteStatus = "draft"
	CreditNoteStatusOpen       CreditNoteStatus = "open"
	CreditNoteStatusRefunded   CreditNoteStatus = "refunded"
	CreditNoteStatusWrittenOff CreditNoteStatus = "written_off"
)

// CreditNoteItem is one line on a credit note. Quantities and prices are
// positive; the document as a whole credits the contact.
type CreditNoteItem struct {
	URL           string           `json:"url,omitempty"`
	Position      *int             `json:"position,omitempty"`
	ItemType      ItemType         `json:"item_type,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category,omitempty"`
	SalesTaxRate  *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	SalesTaxValue *decimal.Decimal `json:"sales_tax_value,omitempty"`
}

// CreditNote reverses all or part of a previously issued invoice.
type CreditNote struct {
	URL               string           `json:"url,omitempty"`
	Contact           string           `json:"contact,omitempty"`
	Project           *string          `json:"project,omitempty"`
	Reference         string           `json:"reference,omitempty"`
	DatedOn           Date             `json:"dated_on"`
	Currency          string           `json:"currency,omitempty"`
	ExchangeRate      *decimal.Decimal `json:"exchange_rate,omitempty"`
	NetValue          *decimal.Decimal `json:"net_value,omitempty"`
	SalesTaxValue     *decimal.Decimal `json:"sales_tax_value,omitempty"`
	TotalValue        *decimal.Decimal `json:"total_value,omitempty"`
	DueValue          *decimal.Decimal `json:"due_value,omitempty"`
	Status            CreditNoteStatus `json:"status,omitempty"`
	ECStatus          ECStatus         `json:"ec_status,omitempty"`
	Comments          *string          `json:"comments,omitempty"`
	ClientContactName *string          `json:"client_contact_name,omitempty"`
	RefundedOn        *Date            `json:"refunded_on,omitempty"`
	// Invoice links the invoice this credit note offsets, when known.
	Invoice         *string          `json:"invoice,omitempty"`
	CreditNoteItems []CreditNoteItem `json:"credit_note_items,omitempty"`
	CreatedAt       *time.Time       `json:"created_at,omitempty"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
}

// CreditNoteRoot is the envelope for a single credit note.
type CreditNoteRoot struct {
	CreditNote CreditNote `json:"credit_note"`
}

// CreditNotesRoot is the envelope for a list of credit notes.
type CreditNotesRoot struct {
	CreditNotes []CreditNote `json:"credit_notes"`
}

// creditNoteEmailRoot nests the email message as
// {"credit_note": {"email": {...}}}.
type creditNoteEmailRoot struct {
	CreditNote struct {
		Email EmailDetails `json:"email"`
	} `json:"credit_note"`
}

// ListCreditNotesOptions filters credit note listings.
type ListCreditNotesOptions struct {
	ListOptions
	// View narrows by state: all, draft, open, refunded, written_off.
	View     string
	Contact  string
	FromDate *Date
	ToDate   *Date
}

func (o ListCreditNotesOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	if o.Contact != "" {
		q.Set("contact", o.Contact)
	}
	dateRangeQuery(q, o.FromDate, o.ToDate)
	return q
}

// ListCreditNotes returns one page of credit notes.
func (c *Client) ListCreditNotes(ctx context.Context, opts *ListCreditNotesOptions) ([]CreditNote, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root CreditNotesRoot
	if err := c.get(ctx, "/credit_notes", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list credit notes: %w", err)
	}
	return root.CreditNotes, nil
}

// GetCreditNote fetches a single credit note, including its items.
func (c *Client) GetCreditNote(ctx context.Context, id string) (*CreditNote, error) {
	var root CreditNoteRoot
	if err := c.get(ctx, "/credit_notes/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get credit note %s: %w", id, err)
	}
	return &root.CreditNote, nil
}

// CreateCreditNote creates a credit note and returns the stored version.
func (c *Client) CreateCreditNote(ctx context.Context, creditNote *CreditNote) (*CreditNote, error) {
	var root CreditNoteRoot
	if err := c.post(ctx, "/credit_notes", CreditNoteRoot{CreditNote: *creditNote}, &root); err != nil {
		return nil, fmt.Errorf("failed to create credit note: %w", err)
	}
	return &root.CreditNote, nil
}

// UpdateCreditNote updates a draft credit note and returns the stored version.
func (c *Client) UpdateCreditNote(ctx context.Context, id string, creditNote *CreditNote) (*CreditNote, error) {
	var root CreditNoteRoot
	if err := c.put(ctx, "/credit_notes/"+id, CreditNoteRoot{CreditNote: *creditNote}, &root); err != nil {
		return nil, fmt.Errorf("failed to update credit note %s: %w", id, err)
	}
	return &root.CreditNote, nil
}

// DeleteCreditNote deletes a draft credit note.
func (c *Client) DeleteCreditNote(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/credit_notes/"+id); err != nil {
		return fmt.Errorf("failed to delete credit note %s: %w", id, err)
	}
	return nil
}

// MarkCreditNoteAsSent transitions a draft credit note to open.
func (c *Client) MarkCreditNoteAsSent(ctx context.Context, id string) error {
	if err := c.put(ctx, "/credit_notes/"+id+"/transitions/mark_as_sent", nil, nil); err != nil {
		return fmt.Errorf("failed to mark credit note %s as sent: %w", id, err)
	}
	return nil
}

// MarkCreditNoteAsDraft pulls a credit note back to draft.
func (c *Client) MarkCreditNoteAsDraft(ctx context.Context, id string) error {
	if err := c.put(ctx, "/credit_notes/"+id+"/transitions/mark_as_draft", nil, nil); err != nil {
		return fmt.Errorf("failed to mark credit note %s as draft: %w", id, err)
	}
	return nil
}

// EmailCreditNote asks the service to email the credit note to its contact.
func (c *Client) EmailCreditNote(ctx context.Context, id string, email EmailDetails) error {
	var body creditNoteEmailRoot
	body.CreditNote.Email = email
	if err := c.post(ctx, "/credit_notes/"+id+"/send_email", body, nil); err != nil {
		return fmt.Errorf("failed to email credit note %s: %w", id, err)
	}
	return nil
}
