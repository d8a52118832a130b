package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
	ProjectStatusHidden    ProjectStatus = "hidden"
)

// BudgetUnits says what a project budget is measured in.
type BudgetUnits string

const (
	BudgetUnitsHours    BudgetUnits = "hours"
	BudgetUnitsDays     BudgetUnits = "days"
	BudgetUnitsMonetary BudgetUnits = "monetary"
)

// Project groups work done for a contact for billing and reporting.
type Project struct {
	URL                        string           `json:"url,omitempty"`
	Contact                    string           `json:"contact,omitempty"`
	Name                       string           `json:"name"`
	Status                     ProjectStatus    `json:"status,omitempty"`
	Currency                   string           `json:"currency,omitempty"`
	Budget                     *decimal.Decimal `json:"budget,omitempty"`
	BudgetUnits                BudgetUnits      `json:"budget_units,omitempty"`
	NormalBillingRate          *decimal.Decimal `json:"normal_billing_rate,omitempty"`
	HoursPerDay                *decimal.Decimal `json:"hours_per_day,omitempty"`
	BillingPeriod              *string          `json:"billing_period,omitempty"`
	IsIR35                     *bool            `json:"is_ir35,omitempty"`
	UsesProjectInvoiceSequence *bool            `json:"uses_project_invoice_sequence,omitempty"`
	StartsOn                   *Date            `json:"starts_on,omitempty"`
	EndsOn                     *Date            `json:"ends_on,omitempty"`
	ContactName                *string          `json:"contact_name,omitempty"`
	CreatedAt                  *time.Time       `json:"created_at,omitempty"`
	UpdatedAt                  *time.Time       `json:"updated_at,omitempty"`
}

// ProjectRoot is the envelope for a single project.
type ProjectRoot struct {
	Project Project `json:"project"`
}

// ProjectsRoot is the envelope for a list of projects.
type ProjectsRoot struct {
	Projects []Project `json:"projects"`
}

// ListProjectsOptions filters and paginates project listings.
type ListProjectsOptions struct {
	ListOptions
	// View narrows by status: active, completed, cancelled, hidden.
	View string
	// Contact restricts to projects for one contact URL.
	Contact string
}

func (o ListProjectsOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	if o.Contact != "" {
		q.Set("contact", o.Contact)
	}
	return q
}

// ListProjects returns one page of projects.
func (c *Client) ListProjects(ctx context.Context, opts *ListProjectsOptions) ([]Project, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root ProjectsRoot
	if err := c.get(ctx, "/projects", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return root.Projects, nil
}

// GetProject fetches a single project by identifier.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var root ProjectRoot
	if err := c.get(ctx, "/projects/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return &root.Project, nil
}

// CreateProject creates a project and returns the stored version.
func (c *Client) CreateProject(ctx context.Context, project *Project) (*Project, error) {
	var root ProjectRoot
	if err := c.post(ctx, "/projects", ProjectRoot{Project: *project}, &root); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &root.Project, nil
}

// UpdateProject updates a project and returns the stored version.
func (c *Client) UpdateProject(ctx context.Context, id string, project *Project) (*Project, error) {
	var root ProjectRoot
	if err := c.put(ctx, "/projects/"+id, ProjectRoot{Project: *project}, &root); err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}
	return &root.Project, nil
}

// DeleteProject deletes a project without paperwork attached.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/projects/"+id); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return nil
}
