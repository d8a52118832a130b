package ledgerport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// DepreciationMethod is how a capital asset loses value over its life.
type DepreciationMethod string

const (
	DepreciationStraightLine    DepreciationMethod = "straight_line"
	DepreciationReducingBalance DepreciationMethod = "reducing_balance"
)

// DepreciationProfile describes the write-down schedule of a capital asset.
// Rate is a percentage for reducing_balance and unused for straight_line,
// where AssetLifeYears drives the schedule.
type DepreciationProfile struct {
	Method         DepreciationMethod `json:"method,omitempty"`
	AssetLifeYears *int               `json:"asset_life_years,omitempty"`
	Rate           *decimal.Decimal   `json:"rate,omitempty"`
}

// CapitalAsset is a fixed asset the service depreciates. Assets come into
// being through bill or explanation lines against capital categories, so
// the API exposes them read-only.
type CapitalAsset struct {
	URL                 string               `json:"url,omitempty"`
	Description         string               `json:"description,omitempty"`
	AssetType           *string              `json:"asset_type,omitempty"`
	PurchasedOn         Date                 `json:"purchased_on"`
	PurchaseValue       *decimal.Decimal     `json:"purchase_value,omitempty"`
	DepreciationProfile *DepreciationProfile `json:"depreciation_profile,omitempty"`
	// BookValue is the remaining undepreciated value.
	BookValue  *decimal.Decimal `json:"book_value,omitempty"`
	DisposedOn *Date            `json:"disposed_on,omitempty"`
}

// CapitalAssetRoot is the envelope for a single capital asset.
type CapitalAssetRoot struct {
	CapitalAsset CapitalAsset `json:"capital_asset"`
}

// CapitalAssetsRoot is the envelope for a list of capital assets.
type CapitalAssetsRoot struct {
	CapitalAssets []CapitalAsset `json:"capital_assets"`
}

// ListCapitalAssetsOptions filters capital asset listings.
type ListCapitalAssetsOptions struct {
	ListOptions
	// View narrows by disposal state: all, disposed, un_disposed.
	View string
}

func (o ListCapitalAssetsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	return q
}

// ListCapitalAssets returns one page of capital assets.
func (c *Client) ListCapitalAssets(ctx context.Context, opts *ListCapitalAssetsOptions) ([]CapitalAsset, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root CapitalAssetsRoot
	if err := c.get(ctx, "/capital_assets", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list capital assets: %w", err)
	}
	return root.CapitalAssets, nil
}

// GetCapitalAsset fetches a single capital asset.
func (c *Client) GetCapitalAsset(ctx context.Context, id string) (*CapitalAsset, error) {
	var root CapitalAssetRoot
	if err := c.get(ctx, "/capital_assets/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get capital asset %s: %w", id, err)
	}
	return &root.CapitalAsset, nil
}
