package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// VehicleType is the vehicle class used for mileage expense rates.
type VehicleType string

const (
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
	VehicleTypeBicycle    VehicleType = "bicycle"
)

// Expense is money a user spent out of pocket on the company's behalf.
//
// GrossValue is negative for money spent, in keeping with the sign
// convention on bank lines. A payment back to the user is recorded with a
// positive value.
type Expense struct {
	URL      string `json:"url,omitempty"`
	User     string `json:"user,omitempty"`
	Category string `json:"category,omitempty"`
	DatedOn  Date   `json:"dated_on"`
	// GrossValue is in the company's native currency.
	GrossValue    *decimal.Decimal `json:"gross_value,omitempty"`
	SalesTaxRate  *decimal.Decimal `json:"sales_tax_rate,omitempty"`
	SalesTaxValue *decimal.Decimal `json:"sales_tax_value,omitempty"`
	Description   string           `json:"description,omitempty"`
	// Currency and NativeGrossValue record the original foreign amount when
	// the expense was not in the company's currency.
	Currency         *string          `json:"currency,omitempty"`
	NativeGrossValue *decimal.Decimal `json:"native_gross_value,omitempty"`
	ReceiptReference *string          `json:"receipt_reference,omitempty"`
	Project          *string          `json:"project,omitempty"`
	ECStatus         ECStatus         `json:"ec_status,omitempty"`
	RebillType       RebillType       `json:"rebill_type,omitempty"`
	RebillFactor     *decimal.Decimal `json:"rebill_factor,omitempty"`
	// Mileage expenses carry distance and vehicle details instead of a
	// receipt; the service prices them at the approved rate per mile.
	Mileage        *decimal.Decimal `json:"mileage,omitempty"`
	VehicleType    VehicleType      `json:"vehicle_type,omitempty"`
	HaveVATReceipt *bool            `json:"have_vat_receipt,omitempty"`
	// Recurring repeats the expense on a schedule until RecursUntil.
	Recurring   RecurringFrequency `json:"recurring,omitempty"`
	RecursUntil *Date              `json:"recurs_until,omitempty"`
	Attachment  *Attachment        `json:"attachment,omitempty"`
	CreatedAt   *time.Time         `json:"created_at,omitempty"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

// ExpenseRoot is the envelope for a single expense.
type ExpenseRoot struct {
	Expense Expense `json:"expense"`
}

// ExpensesRoot is the envelope for a list of expenses.
type ExpensesRoot struct {
	Expenses []Expense `json:"expenses"`
}

// ListExpensesOptions filters and paginates expense listings.
type ListExpensesOptions struct {
	ListOptions
	// View defaults to recent; "recent" returns the last three months.
	View         string
	User         string
	Project      string
	FromDate     *Date
	ToDate       *Date
	UpdatedSince *time.Time
}

func (o ListExpensesOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.View != "" {
		q.Set("view", o.View)
	}
	if o.User != "" {
		q.Set("user", o.User)
	}
	if o.Project != "" {
		q.Set("project", o.Project)
	}
	dateRangeQuery(q, o.FromDate, o.ToDate)
	if o.UpdatedSince != nil {
		q.Set("updated_since", o.UpdatedSince.UTC().Format(time.RFC3339))
	}
	return q
}

// ListExpenses returns one page of expenses.
func (c *Client) ListExpenses(ctx context.Context, opts *ListExpensesOptions) ([]Expense, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
	}
	var root ExpensesRoot
	if err := c.get(ctx, "/expenses", q, &root); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return root.Expenses, nil
}

// FetchAllExpenses pages through every expense matching opts.
func (c *Client) FetchAllExpenses(ctx context.Context, opts *ListExpensesOptions) ([]Expense, error) {
	var all []Expense
	merged := ListExpensesOptions{}
	if opts != nil {
		merged = *opts
	}
	merged.PerPage = maxPerPage

	for page := 1; ; page++ {
		merged.Page = page
		expenses, err := c.ListExpenses(ctx, &merged)
		if err != nil {
			return nil, fmt.Errorf("failed to list expenses (page=%d): %w", page, err)
		}
		if len(expenses) == 0 {
			break
		}
		all = append(all, expenses...)
		if len(expenses) < merged.PerPage {
			break
		}
	}
	return all, nil
}

// GetExpense fetches a single expense.
func (c *Client) GetExpense(ctx context.Context, id string) (*Expense, error) {
	var root ExpenseRoot
	if err := c.get(ctx, "/expenses/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get expense %s: %w", id, err)
	}
	return &root.Expense, nil
}

// CreateExpense records an expense and returns the stored version.
func (c *Client) CreateExpense(ctx context.Context, expense *Expense) (*Expense, error) {
	var root ExpenseRoot
	if err := c.post(ctx, "/expenses", ExpenseRoot{Expense: *expense}, &root); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return &root.Expense, nil
}

// UpdateExpense updates an expense and returns the stored version.
func (c *Client) UpdateExpense(ctx context.Context, id string, expense *Expense) (*Expense, error) {
	var root ExpenseRoot
	if err := c.put(ctx, "/expenses/"+id, ExpenseRoot{Expense: *expense}, &root); err != nil {
		return nil, fmt.Errorf("failed to update expense %s: %w", id, err)
	}
	return &root.Expense, nil
}

// DeleteExpense deletes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/expenses/"+id); err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", id, err)
	}
	return nil
}
