package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusHidden    TaskStatus = "hidden"
)

// TaskBillingPeriod is the unit a task's billing rate applies to.
type TaskBillingPeriod string

const (
	TaskBillingPeriodHour TaskBillingPeriod = "hour"
	TaskBillingPeriodDay  TaskBillingPeriod = "day"
)

// Task is a billable or unbillable unit of work within a project.
type Task struct {
	URL           string            `json:"url,omitempty"`
	Project       string            `json:"project,omitempty"`
	Name          string            `json:"name"`
	IsBillable    *bool             `json:"is_billable,omitempty"`
	BillingRate   *decimal.Decimal  `json:"billing_rate,omitempty"`
	BillingPeriod TaskBillingPeriod `json:"billing_period,omitempty"`
	Status        TaskStatus        `json:"status,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

// TaskRoot is the envelope for a single task.
type TaskRoot struct {
	Task Task `json:"task"`
}

// TasksRoot is the envelope for a list of tasks.
type TasksRoot struct {
	Tasks []Task `json:"tasks"`
}

// ListTasksOptions filters and paginates task listings.
type ListTasksOptions struct {
	ListOptions
	// Project restricts to tasks belonging to one project URL.
	Project string
	// View narrows by status: active, completed, hidden, all.
	View string
}

func (o ListTasksOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.Project != "" {
		q.Set("project", o.Project)
	}
	if o.View != "" {
		q.Set("view", o.View)
	}
	return q
}

// ListTasks returns one page of tasks.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOptions) ([]Task, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root TasksRoot
	if err := c.get(ctx, "/tasks", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return root.Tasks, nil
}

// GetTask fetches a single task by identifier.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var root TaskRoot
	if err := c.get(ctx, "/tasks/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return &root.Task, nil
}

// CreateTask creates a task under the project named in task.Project.
func (c *Client) CreateTask(ctx context.Context, task *Task) (*Task, error) {
	var root TaskRoot
	if err := c.post(ctx, "/tasks", TaskRoot{Task: *task}, &root); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &root.Task, nil
}

// UpdateTask updates a task and returns the stored version.
func (c *Client) UpdateTask(ctx context.Context, id string, task *Task) (*Task, error) {
	var root TaskRoot
	if err := c.put(ctx, "/tasks/"+id, TaskRoot{Task: *task}, &root); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return &root.Task, nil
}

// DeleteTask deletes a task with no timeslips logged against it.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/tasks/"+id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
