package ledgerport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// WebhookEventType names a change a webhook subscription can listen for, as
// resource.action.
type WebhookEventType string

const (
	WebhookEventInvoiceCreated         WebhookEventType = "invoice.created"
	WebhookEventInvoiceUpdated         WebhookEventType = "invoice.updated"
	WebhookEventInvoiceDeleted         WebhookEventType = "invoice.deleted"
	WebhookEventBillCreated            WebhookEventType = "bill.created"
	WebhookEventBillUpdated            WebhookEventType = "bill.updated"
	WebhookEventBillDeleted            WebhookEventType = "bill.deleted"
	WebhookEventContactCreated         WebhookEventType = "contact.created"
	WebhookEventContactUpdated         WebhookEventType = "contact.updated"
	WebhookEventBankTransactionCreated WebhookEventType = "bank_transaction.created"
	WebhookEventExpenseCreated         WebhookEventType = "expense.created"
	WebhookEventJournalSetCreated      WebhookEventType = "journal_set.created"
)

// Webhook is a subscription asking the service to POST events to an
// endpoint. Secret is write-only; the service uses it to sign deliveries
// and never returns it.
type Webhook struct {
	URL      string             `json:"url,omitempty"`
	Endpoint string             `json:"endpoint,omitempty"`
	Events   []WebhookEventType `json:"events,omitempty"`
	Active   *bool              `json:"active,omitempty"`
	Secret   *string            `json:"secret,omitempty"`
	// LastDeliveryAt and LastDeliveryStatus report the most recent
	// delivery attempt.
	LastDeliveryAt     *time.Time `json:"last_delivery_at,omitempty"`
	LastDeliveryStatus *int       `json:"last_delivery_status,omitempty"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// WebhookRoot is the envelope for a single webhook subscription.
type WebhookRoot struct {
	Webhook Webhook `json:"webhook"`
}

// WebhooksRoot is the envelope for a list of webhook subscriptions.
type WebhooksRoot struct {
	Webhooks []Webhook `json:"webhooks"`
}

// WebhookEvent is the body the service POSTs to a subscribed endpoint. ID
// is unique per event, so redeliveries can be spotted. Payload is the
// affected resource in its usual root envelope, left raw so callers decode
// it into the type matching EventType.
type WebhookEvent struct {
	ID          string           `json:"id"`
	EventType   WebhookEventType `json:"event_type"`
	OccurredAt  time.Time        `json:"occurred_at"`
	Company     string           `json:"company,omitempty"`
	ResourceURL string           `json:"resource_url,omitempty"`
	Payload     json.RawMessage  `json:"payload,omitempty"`
}

// WebhookEventRoot is the envelope around a delivered event.
type WebhookEventRoot struct {
	Event WebhookEvent `json:"event"`
}

// ParseWebhookEvent decodes a delivery body into its event.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var root WebhookEventRoot
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &root.Event, nil
}

// ListWebhooks returns the company's webhook subscriptions.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var root WebhooksRoot
	if err := c.get(ctx, "/webhooks", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return root.Webhooks, nil
}

// GetWebhook fetches a single webhook subscription.
func (c *Client) GetWebhook(ctx context.Context, id string) (*Webhook, error) {
	var root WebhookRoot
	if err := c.get(ctx, "/webhooks/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get webhook %s: %w", id, err)
	}
	return &root.Webhook, nil
}

// CreateWebhook registers a new subscription and returns the stored
// version.
func (c *Client) CreateWebhook(ctx context.Context, webhook *Webhook) (*Webhook, error) {
	var root WebhookRoot
	if err := c.post(ctx, "/webhooks", WebhookRoot{Webhook: *webhook}, &root); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return &root.Webhook, nil
}

// UpdateWebhook changes a subscription's endpoint, events or active flag.
func (c *Client) UpdateWebhook(ctx context.Context, id string, webhook *Webhook) (*Webhook, error) {
	var root WebhookRoot
	if err := c.put(ctx, "/webhooks/"+id, WebhookRoot{Webhook: *webhook}, &root); err != nil {
		return nil, fmt.Errorf("failed to update webhook %s: %w", id, err)
	}
	return &root.Webhook, nil
}

// DeleteWebhook removes a subscription. In-flight deliveries may still
// arrive after deletion.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/webhooks/"+id); err != nil {
		return fmt.Errorf("failed to delete webhook %s: %w", id, err)
	}
	return nil
}

// PingWebhook asks the service to send a test event to the subscription's
// endpoint.
func (c *Client) PingWebhook(ctx context.Context, id string) error {
	if err := c.post(ctx, "/webhooks/"+id+"/ping", nil, nil); err != nil {
		return fmt.Errorf("failed to ping webhook %s: %w", id, err)
	}
	return nil
}
