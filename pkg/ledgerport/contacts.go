package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeSalesTax controls whether invoices to a contact carry sales tax.
type ChargeSalesTax string

const (
	ChargeSalesTaxAuto   ChargeSalesTax = "auto"
	ChargeSalesTaxAlways ChargeSalesTax = "always"
	ChargeSalesTaxNever  ChargeSalesTax = "never"
)

// ContactStatus reflects whether a contact is usable on new paperwork.
type ContactStatus string

const (
	ContactStatusActive ContactStatus = "active"
	ContactStatusHidden ContactStatus = "hidden"
)

// ContactView selects which slice of contacts a list call returns.
type ContactView string

const (
	ContactViewAll           ContactView = "all"
	ContactViewActive        ContactView = "active"
	ContactViewClients       ContactView = "clients"
	ContactViewSuppliers     ContactView = "suppliers"
	ContactViewOpenClients   ContactView = "open_clients"
	ContactViewOpenSuppliers ContactView = "open_suppliers"
	ContactViewHidden        ContactView = "hidden"
)

// Contact is a client or supplier of the business. A contact is an
// organisation, a person, or both; unused halves stay null.
type Contact struct {
	URL                        string           `json:"url,omitempty"`
	OrganisationName           *string          `json:"organisation_name,omitempty"`
	FirstName                  *string          `json:"first_name,omitempty"`
	LastName                   *string          `json:"last_name,omitempty"`
	ContactNameOnInvoices      *bool            `json:"contact_name_on_invoices,omitempty"`
	Email                      *string          `json:"email,omitempty"`
	BillingEmail               *string          `json:"billing_email,omitempty"`
	PhoneNumber                *string          `json:"phone_number,omitempty"`
	Mobile                     *string          `json:"mobile,omitempty"`
	Address1                   *string          `json:"address1,omitempty"`
	Address2                   *string          `json:"address2,omitempty"`
	Address3                   *string          `json:"address3,omitempty"`
	Town                       *string          `json:"town,omitempty"`
	Region                     *string          `json:"region,omitempty"`
	Postcode                   *string          `json:"postcode,omitempty"`
	Country                    *string          `json:"country,omitempty"`
	ChargeSalesTax             ChargeSalesTax   `json:"charge_sales_tax,omitempty"`
	SalesTaxRegistrationNumber *string          `json:"sales_tax_registration_number,omitempty"`
	DefaultPaymentTermsInDays  *int             `json:"default_payment_terms_in_days,omitempty"`
	Locale                     *string          `json:"locale,omitempty"`
	AccountBalance             *decimal.Decimal `json:"account_balance,omitempty"`
	UsesContactInvoiceSequence *bool            `json:"uses_contact_invoice_sequence,omitempty"`
	Status                     ContactStatus    `json:"status,omitempty"`
	ActiveProjectsCount        *int             `json:"active_projects_count,omitempty"`
	CreatedAt                  *time.Time       `json:"created_at,omitempty"`
	UpdatedAt                  *time.Time       `json:"updated_at,omitempty"`
}

// ContactRoot is the envelope for a single contact.
type ContactRoot struct {
	Contact Contact `json:"contact"`
}

// ContactsRoot is the envelope for a list of contacts.
type ContactsRoot struct {
	Contacts []Contact `json:"contacts"`
}

// ListContactsOptions filters and paginates contact listings.
type ListContactsOptions struct {
	ListOptions
	View ContactView
	// Sort orders results; prefix with "-" for descending. Recognised keys:
	// name, created_at, updated_at.
	Sort string
}

func (o ListContactsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", string(o.View))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	return q
}

// ListContacts returns one page of contacts.
func (c *Client) ListContacts(ctx context.Context, opts *ListContactsOptions) ([]Contact, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root ContactsRoot
	if err := c.get(ctx, "/contacts", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return root.Contacts, nil
}

// FetchAllContacts pages through every contact matching opts.
func (c *Client) FetchAllContacts(ctx context.Context, opts *ListContactsOptions) ([]Contact, error) {
	var all []Contact
	merged := ListContactsOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		contacts, err := c.ListContacts(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list contacts (page=%d): %w", page, err)
		}
		if len(contacts) == 0 {
			break
		}
		all = append(all, contacts...)
		if len(contacts) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetContact fetches a single contact by identifier.
func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	var root ContactRoot
	if err := c.get(ctx, "/contacts/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}
	return &root.Contact, nil
}

// CreateContact creates a contact and returns the stored version.
func (c *Client) CreateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	var root ContactRoot
	if err := c.post(ctx, "/contacts", ContactRoot{Contact: *contact}, &root); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &root.Contact, nil
}

// UpdateContact updates a contact and returns the stored version.
func (c *Client) UpdateContact(ctx context.Context, id string, contact *Contact) (*Contact, error) {
	var root ContactRoot
	if err := c.put(ctx, "/contacts/"+id, ContactRoot{Contact: *contact}, &root); err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
	}
	return &root.Contact, nil
}

// DeleteContact deletes a contact. The service rejects deletion of contacts
// with paperwork attached; hide those instead by updating their status.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/contacts/"+id); err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	return nil
}
