package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Timer marks a timeslip as currently running. It is present on a timeslip
// only while its timer is active.
type Timer struct {
	Running   bool       `json:"running,omitempty"`
	StartFrom *time.Time `json:"start_from,omitempty"`
}

// Timeslip records time spent by a user on a task.
type Timeslip struct {
	URL             string          `json:"url,omitempty"`
	User            string          `json:"user,omitempty"`
	Project         string          `json:"project,omitempty"`
	Task            string          `json:"task,omitempty"`
	DatedOn         Date            `json:"dated_on"`
	Hours           decimal.Decimal `json:"hours"`
	Comment         *string         `json:"comment,omitempty"`
	BilledOnInvoice *string         `json:"billed_on_invoice,omitempty"`
	Timer           *Timer          `json:"timer,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// TimeslipRoot is the envelope for a single timeslip.
type TimeslipRoot struct {
	Timeslip Timeslip `json:"timeslip"`
}

// TimeslipsRoot is the envelope for a list of timeslips. Create accepts the
// plural form too, so several timeslips can be logged in one call.
type TimeslipsRoot struct {
	Timeslips []Timeslip `json:"timeslips"`
}

// ListTimeslipsOptions filters and paginates timeslip listings.
type ListTimeslipsOptions struct {
	ListOptions
	FromDate *Date
	ToDate   *Date
	// User, Project and Task restrict to one parent resource URL each.
	User    string
	Project string
	Task    string
}

func (o ListTimeslipsOptions) values() url.Values {
	q := o.ListOptions.values()
	dateRangeQuery(q, o.FromDate, o.ToDate)
	if o.User != "" {
		q.Set("user", o.User)
	}
	if o.Project != "" {
		q.Set("project", o.Project)
	}
	if o.Task != "" {
		q.Set("task", o.Task)
	}
	return q
}

// ListTimeslips returns one page of timeslips.
func (c *Client) ListTimeslips(ctx context.Context, opts *ListTimeslipsOptions) ([]Timeslip, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root TimeslipsRoot
	if err := c.get(ctx, "/timeslips", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list timeslips: %w", err)
	}
	return root.Timeslips, nil
}

// GetTimeslip fetches a single timeslip by identifier.
func (c *Client) GetTimeslip(ctx context.Context, id string) (*Timeslip, error) {
	var root TimeslipRoot
	if err := c.get(ctx, "/timeslips/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get timeslip %s: %w", id, err)
	}
	return &root.Timeslip, nil
}

// CreateTimeslips logs one or more timeslips in a single call and returns
// the stored versions.
func (c *Client) CreateTimeslips(ctx context.Context, timeslips []Timeslip) ([]Timeslip, error) {
	var root TimeslipsRoot
	if err := c.post(ctx, "/timeslips", TimeslipsRoot{Timeslips: timeslips}, &root); err != nil {
		return nil, fmt.Errorf("failed to create timeslips: %w", err)
	}
	return root.Timeslips, nil
}

// UpdateTimeslip updates a timeslip and returns the stored version.
func (c *Client) UpdateTimeslip(ctx context.Context, id string, timeslip *Timeslip) (*Timeslip, error) {
	var root TimeslipRoot
	if err := c.put(ctx, "/timeslips/"+id, TimeslipRoot{Timeslip: *timeslip}, &root); err != nil {
		return nil, fmt.Errorf("failed to update timeslip %s: %w", id, err)
	}
	return &root.Timeslip, nil
}

// DeleteTimeslip deletes a timeslip.
func (c *Client) DeleteTimeslip(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/timeslips/"+id); err != nil {
		return fmt.Errorf("failed to delete timeslip %s: %w", id, err)
	}
	return nil
}

// StartTimer starts the timer on a timeslip and returns the updated
// timeslip carrying the running timer.
func (c *Client) StartTimer(ctx context.Context, id string) (*Timeslip, error) {
	var root TimeslipRoot
	if err := c.post(ctx, "/timeslips/"+id+"/timer", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to start timer on timeslip %s: %w", id, err)
	}
	return &root.Timeslip, nil
}

// StopTimer stops the running timer on a timeslip, folding the elapsed time
// into the timeslip's hours.
func (c *Client) StopTimer(ctx context.Context, id string) (*Timeslip, error) {
	var root TimeslipRoot
	if err := c.put(ctx, "/timeslips/"+id+"/timer", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to stop timer on timeslip %s: %w", id, err)
	}
	return &root.Timeslip, nil
}
