package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one posting within a journal set. DebitValue is positive
// to debit the category and negative to credit it.
type JournalEntry struct {
	URL         string           `json:"url,omitempty"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
	DebitValue  *decimal.Decimal `json:"debit_value,omitempty"`
}

// JournalSet is a balanced group of postings entered directly against the
// chart of accounts, dated to a single day.
//
// The entries' debit values must sum to zero; the service rejects
// unbalanced sets. This library does not check the sum before sending.
type JournalSet struct {
	URL            string         `json:"url,omitempty"`
	DatedOn        Date           `json:"dated_on"`
	Description    string         `json:"description,omitempty"`
	JournalEntries []JournalEntry `json:"journal_entries,omitempty"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}

// JournalSetRoot is the envelope for a single journal set.
type JournalSetRoot struct {
	JournalSet JournalSet `json:"journal_set"`
}

// JournalSetsRoot is the envelope for a list of journal sets.
type JournalSetsRoot struct {
	JournalSets []JournalSet `json:"journal_sets"`
}

// ListJournalSetsOptions filters journal set listings.
type ListJournalSetsOptions struct {
	ListOptions
	FromDate     *Date
	ToDate       *Date
	UpdatedSince *time.Time
}

func (o ListJournalSetsOptions) values() url.Values {
	q := o.ListOptions.values()
	dateRangeQuery(q, o.FromDate, o.ToDate)
	if o.UpdatedSince != nil {
		q.Set("updated_since", o.UpdatedSince.UTC().Format(time.RFC3339))
	}
	return q
}

// ListJournalSets returns one page of journal sets.
func (c *Client) ListJournalSets(ctx context.Context, opts *ListJournalSetsOptions) ([]JournalSet, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root JournalSetsRoot
	if err := c.get(ctx, "/journal_sets", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list journal sets: %w", err)
	}
	return root.JournalSets, nil
}

// FetchAllJournalSets pages through every journal set matching opts.
func (c *Client) FetchAllJournalSets(ctx context.Context, opts *ListJournalSetsOptions) ([]JournalSet, error) {
	var all []JournalSet
	merged := ListJournalSetsOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		sets, err := c.ListJournalSets(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list journal sets (page=%d): %w", page, err)
		}
		if len(sets) == 0 {
			break
		}
		all = append(all, sets...)
		if len(sets) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetJournalSet fetches a single journal set with its entries.
func (c *Client) GetJournalSet(ctx context.Context, id string) (*JournalSet, error) {
	var root JournalSetRoot
	if err := c.get(ctx, "/journal_sets/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get journal set %s: %w", id, err)
	}
	return &root.JournalSet, nil
}

// CreateJournalSet posts a balanced journal set.
func (c *Client) CreateJournalSet(ctx context.Context, set *JournalSet) (*JournalSet, error) {
	var root JournalSetRoot
	if err := c.post(ctx, "/journal_sets", JournalSetRoot{JournalSet: *set}, &root); err != nil {
		return nil, fmt.Errorf("failed to create journal set: %w", err)
	}
	return &root.JournalSet, nil
}

// UpdateJournalSet replaces a journal set's entries and returns the stored
// version.
func (c *Client) UpdateJournalSet(ctx context.Context, id string, set *JournalSet) (*JournalSet, error) {
	var root JournalSetRoot
	if err := c.put(ctx, "/journal_sets/"+id, JournalSetRoot{JournalSet: *set}, &root); err != nil {
		return nil, fmt.Errorf("failed to update journal set %s: %w", id, err)
	}
	return &root.JournalSet, nil
}

// DeleteJournalSet deletes a journal set.
func (c *Client) DeleteJournalSet(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/journal_sets/"+id); err != nil {
		return fmt.Errorf("failed to delete journal set %s: %w", id, err)
	}
	return nil
}
