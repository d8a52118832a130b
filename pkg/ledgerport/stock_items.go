package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is a tracked physical good. StockOnHand is maintained by the
// service from opening quantity plus stock-altering bill and invoice lines,
// and is read-only.
type StockItem struct {
	URL             string           `json:"url,omitempty"`
	Description     string           `json:"description,omitempty"`
	OpeningQuantity *decimal.Decimal `json:"opening_quantity,omitempty"`
	OpeningBalance  *decimal.Decimal `json:"opening_balance,omitempty"`
	StockOnHand     *decimal.Decimal `json:"stock_on_hand,omitempty"`
	// CostOfSaleCategory is the nominal account consumed stock posts to.
	CostOfSaleCategory *string          `json:"cost_of_sale_category,omitempty"`
	SellingPrice       *decimal.Decimal `json:"selling_price,omitempty"`
	CreatedAt          *time.Time       `json:"created_at,omitempty"`
	UpdatedAt          *time.Time       `json:"updated_at,omitempty"`
}

// StockItemRoot is the envelope for a single stock item.
type StockItemRoot struct {
	StockItem StockItem `json:"stock_item"`
}

// StockItemsRoot is the envelope for a list of stock items.
type StockItemsRoot struct {
	StockItems []StockItem `json:"stock_items"`
}

// ListStockItems returns one page of stock items.
func (c *Client) ListStockItems(ctx context.Context, opts *ListOptions) ([]StockItem, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root StockItemsRoot
	if err := c.get(ctx, "/stock_items", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	return root.StockItems, nil
}

// GetStockItem fetches a single stock item.
func (c *Client) GetStockItem(ctx context.Context, id string) (*StockItem, error) {
	var root StockItemRoot
	if err := c.get(ctx, "/stock_items/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get stock item %s: %w", id, err)
	}
	return &root.StockItem, nil
}

// CreateStockItem starts tracking a stock item and returns the stored
// version.
func (c *Client) CreateStockItem(ctx context.Context, item *StockItem) (*StockItem, error) {
	var root StockItemRoot
	if err := c.post(ctx, "/stock_items", StockItemRoot{StockItem: *item}, &root); err != nil {
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}
	return &root.StockItem, nil
}

// UpdateStockItem updates a stock item and returns the stored version.
func (c *Client) UpdateStockItem(ctx context.Context, id string, item *StockItem) (*StockItem, error) {
	var root StockItemRoot
	if err := c.put(ctx, "/stock_items/"+id, StockItemRoot{StockItem: *item}, &root); err != nil {
		return nil, fmt.Errorf("failed to update stock item %s: %w", id, err)
	}
	return &root.StockItem, nil
}

// DeleteStockItem stops tracking a stock item with no recorded movements.
func (c *Client) DeleteStockItem(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/stock_items/"+id); err != nil {
		return fmt.Errorf("failed to delete stock item %s: %w", id, err)
	}
	return nil
}
