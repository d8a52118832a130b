package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// PriceListItem is a reusable line template for invoices and estimates.
type PriceListItem struct {
	URL string `json:"url,omitempty"`
	// Code is the short handle typed into a document to pull the item in.
	Code         string           `json:"code,omitempty"`
	ItemType     ItemType         `json:"item_type,omitempty"`
	Description  string           `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	SalesTaxRate *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	Category     *string          `json:"category,omitempty"`
	CreatedAt    *time.Time       `json:"created_at,omitempty"`
	UpdatedAt    *time.Time       `json:"updated_at,omitempty"`
}

// PriceListItemRoot is the envelope for a single price list item.
type PriceListItemRoot struct {
	PriceListItem PriceListItem `json:"price_list_item"`
}

// PriceListItemsRoot is the envelope for a list of price list items.
type PriceListItemsRoot struct {
	PriceListItems []PriceListItem `json:"price_list_items"`
}

// ListPriceListItems returns one page of price list items.
func (c *Client) ListPriceListItems(ctx context.Context, opts *ListOptions) ([]PriceListItem, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root PriceListItemsRoot
	if err := c.get(ctx, "/price_list_items", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list price list items: %w", err)
	}
	return root.PriceListItems, nil
}

// GetPriceListItem fetches a single price list item.
func (c *Client) GetPriceListItem(ctx context.Context, id string) (*PriceListItem, error) {
	var root PriceListItemRoot
	if err := c.get(ctx, "/price_list_items/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get price list item %s: %w", id, err)
	}
	return &root.PriceListItem, nil
}

// CreatePriceListItem creates a price list item and returns the stored
// version.
func (c *Client) CreatePriceListItem(ctx context.Context, item *PriceListItem) (*PriceListItem, error) {
	var root PriceListItemRoot
	if err := c.post(ctx, "/price_list_items", PriceListItemRoot{PriceListItem: *item}, &root); err != nil {
		return nil, fmt.Errorf("failed to create price list item: %w", err)
	}
	return &root.PriceListItem, nil
}

// UpdatePriceListItem updates a price list item and returns the stored
// version.
func (c *Client) UpdatePriceListItem(ctx context.Context, id string, item *PriceListItem) (*PriceListItem, error) {
	var root PriceListItemRoot
	if err := c.put(ctx, "/price_list_items/"+id, PriceListItemRoot{PriceListItem: *item}, &root); err != nil {
		return nil, fmt.Errorf("failed to update price list item %s: %w", id, err)
	}
	return &root.PriceListItem, nil
}

// DeletePriceListItem removes a price list item. Documents that already use
// it keep their copied lines.
func (c *Client) DeletePriceListItem(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/price_list_items/"+id); err != nil {
		return fmt.Errorf("failed to delete price list item %s: %w", id, err)
	}
	return nil
}
