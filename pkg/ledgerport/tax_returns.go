package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// TaxTimelineItem is one upcoming filing or payment obligation on the
// company's tax calendar.
type TaxTimelineItem struct {
	Description string `json:"description,omitempty"`
	// Nature says what kind of obligation this is, for example
	// "Corporation Tax Payment" or "VAT Return Filing".
	Nature    string           `json:"nature,omitempty"`
	DatedOn   Date             `json:"dated_on"`
	AmountDue *decimal.Decimal `json:"amount_due,omitempty"`
	// IsPersonal marks obligations that fall on a user rather than the
	// company, such as self assessment payments.
	IsPersonal *bool `json:"is_personal,omitempty"`
}

// TaxTimelineRoot is the envelope for the company's tax calendar.
type TaxTimelineRoot struct {
	TimelineItems []TaxTimelineItem `json:"timeline_items"`
}

// CorporationTaxReturn is the company's tax return for one accounting
// period. Returns are prepared and filed by the service; the API exposes
// them read-only.
type CorporationTaxReturn struct {
	URL            string           `json:"url,omitempty"`
	PeriodStartsOn Date             `json:"period_starts_on"`
	PeriodEndsOn   Date             `json:"period_ends_on"`
	FilingDueOn    *Date            `json:"filing_due_on,omitempty"`
	PaymentDueOn   *Date            `json:"payment_due_on,omitempty"`
	FilingStatus   FilingStatus     `json:"filing_status,omitempty"`
	FiledAt        *time.Time       `json:"filed_at,omitempty"`
	TaxDue         *decimal.Decimal `json:"tax_due,omitempty"`
}

// CorporationTaxReturnRoot is the envelope for a single corporation tax
// return.
type CorporationTaxReturnRoot struct {
	CorporationTaxReturn CorporationTaxReturn `json:"corporation_tax_return"`
}

// CorporationTaxReturnsRoot is the envelope for a list of corporation tax
// returns.
type CorporationTaxReturnsRoot struct {
	CorporationTaxReturns []CorporationTaxReturn `json:"corporation_tax_returns"`
}

// SelfAssessmentReturn is one user's personal tax return for a tax year,
// read-only through the API.
type SelfAssessmentReturn struct {
	URL           string           `json:"url,omitempty"`
	User          string           `json:"user,omitempty"`
	TaxYearEndsOn Date             `json:"tax_year_ends_on"`
	FilingDueOn   *Date            `json:"filing_due_on,omitempty"`
	FilingStatus  FilingStatus     `json:"filing_status,omitempty"`
	FiledAt       *time.Time       `json:"filed_at,omitempty"`
	TotalTaxDue   *decimal.Decimal `json:"total_tax_due,omitempty"`
}

// SelfAssessmentReturnsRoot is the envelope for a list of self assessment
// returns.
type SelfAssessmentReturnsRoot struct {
	SelfAssessmentReturns []SelfAssessmentReturn `json:"self_assessment_returns"`
}

// GetTaxTimeline fetches the company's upcoming tax obligations, soonest
// first.
func (c *Client) GetTaxTimeline(ctx context.Context) ([]TaxTimelineItem, error) {
	var root TaxTimelineRoot
	if err := c.get(ctx, "/company/tax_timeline", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get tax timeline: %w", err)
	}
	return root.TimelineItems, nil
}

// ListCorporationTaxReturns returns the company's corporation tax returns,
// newest period first.
func (c *Client) ListCorporationTaxReturns(ctx context.Context) ([]CorporationTaxReturn, error) {
	var root CorporationTaxReturnsRoot
	if err := c.get(ctx, "/corporation_tax_returns", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to list corporation tax returns: %w", err)
	}
	return root.CorporationTaxReturns, nil
}

// GetCorporationTaxReturn fetches a single corporation tax return.
func (c *Client) GetCorporationTaxReturn(ctx context.Context, id string) (*CorporationTaxReturn, error) {
	var root CorporationTaxReturnRoot
	if err := c.get(ctx, "/corporation_tax_returns/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get corporation tax return %s: %w", id, err)
	}
	return &root.CorporationTaxReturn, nil
}

// ListSelfAssessmentReturns returns self assessment returns, optionally
// restricted to one user's.
func (c *Client) ListSelfAssessmentReturns(ctx context.Context, user string) ([]SelfAssessmentReturn, error) {
	q := url.Values{}
	if user != "" {
		q.Set("user", user)
	}
	var root SelfAssessmentReturnsRoot
	if err := c.get(ctx, "/self_assessment_returns", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list self assessment returns: %w", err)
	}
	return root.SelfAssessmentReturns, nil
}
