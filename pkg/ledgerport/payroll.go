package ledgerport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// PayFrequency is how often a payroll runs.
type PayFrequency string

const (
	PayFrequencyWeekly     PayFrequency = "weekly"
	PayFrequencyFourWeekly PayFrequency = "four_weekly"
	PayFrequencyMonthly    PayFrequency = "monthly"
)

// FilingStatus tracks a payroll period's real-time submission to the tax
// authority.
type FilingStatus string

const (
	FilingStatusUnfiled  FilingStatus = "unfiled"
	FilingStatusPending  FilingStatus = "pending"
	FilingStatusFiled    FilingStatus = "filed"
	FilingStatusRejected FilingStatus = "rejected"
)

// PayrollPeriod is one pay run within a tax year. Periods are numbered from
// 1 in the order they fall in the year.
type PayrollPeriod struct {
	URL          string       `json:"url,omitempty"`
	Period       int          `json:"period"`
	Frequency    PayFrequency `json:"frequency,omitempty"`
	DatedOn      Date         `json:"dated_on"`
	FilingStatus FilingStatus `json:"filing_status,omitempty"`
	FiledAt      *time.Time   `json:"filed_at,omitempty"`
}

// Payslip is one user's pay within a payroll period. All amounts are as
// calculated by the service's payroll engine and are read-only.
type Payslip struct {
	URL                  string           `json:"url,omitempty"`
	User                 string           `json:"user,omitempty"`
	Period               string           `json:"period,omitempty"`
	DatedOn              Date             `json:"dated_on"`
	TaxCode              *string          `json:"tax_code,omitempty"`
	GrossPay             *decimal.Decimal `json:"gross_pay,omitempty"`
	TaxDeducted          *decimal.Decimal `json:"tax_deducted,omitempty"`
	EmployeeNI           *decimal.Decimal `json:"employee_ni,omitempty"`
	EmployerNI           *decimal.Decimal `json:"employer_ni,omitempty"`
	StudentLoanDeduction *decimal.Decimal `json:"student_loan_deduction,omitempty"`
	PensionContribution  *decimal.Decimal `json:"pension_contribution,omitempty"`
	OtherDeductions      *decimal.Decimal `json:"other_deductions,omitempty"`
	NetPay               *decimal.Decimal `json:"net_pay,omitempty"`
}

// PayrollPeriodsRoot is the envelope for a tax year's pay runs.
type PayrollPeriodsRoot struct {
	Periods []PayrollPeriod `json:"periods"`
}

// PayrollPeriodRoot is the envelope for one pay run with its payslips.
type PayrollPeriodRoot struct {
	Period   PayrollPeriod `json:"period"`
	Payslips []Payslip     `json:"payslips"`
}

// PayrollProfile is a user's standing payroll configuration for a tax year.
type PayrollProfile struct {
	URL                 string           `json:"url,omitempty"`
	User                string           `json:"user,omitempty"`
	Frequency           PayFrequency     `json:"frequency,omitempty"`
	AnnualSalary        *decimal.Decimal `json:"annual_salary,omitempty"`
	HoursWorkedPerWeek  *decimal.Decimal `json:"hours_worked_per_week,omitempty"`
	TaxCode             *string          `json:"tax_code,omitempty"`
	NICategory          *string          `json:"ni_category,omitempty"`
	HasStudentLoan      *bool            `json:"has_student_loan,omitempty"`
	PensionContribution *decimal.Decimal `json:"pension_contribution,omitempty"`
}

// PayrollProfilesRoot is the envelope for a tax year's payroll profiles.
type PayrollProfilesRoot struct {
	Profiles []PayrollProfile `json:"profiles"`
}

// ListPayrollPeriods returns the pay runs of a tax year. Year names the
// calendar year the tax year starts in.
func (c *Client) ListPayrollPeriods(ctx context.Context, year int) ([]PayrollPeriod, error) {
	var root PayrollPeriodsRoot
	if err := c.get(ctx, "/payroll/"+strconv.Itoa(year), nil, &root); err != nil {
		return nil, fmt.Errorf("failed to list payroll periods for %d: %w", year, err)
	}
	return root.Periods, nil
}

// GetPayrollPeriod fetches one pay run and the payslips inside it.
func (c *Client) GetPayrollPeriod(ctx context.Context, year, period int) (*PayrollPeriodRoot, error) {
	path := "/payroll/" + strconv.Itoa(year) + "/" + strconv.Itoa(period)
	var root PayrollPeriodRoot
	if err := c.get(ctx, path, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get payroll period %d/%d: %w", year, period, err)
	}
	return &root, nil
}

// ListPayrollProfiles returns each user's payroll configuration for a tax
// year.
func (c *Client) ListPayrollProfiles(ctx context.Context, year int) ([]PayrollProfile, error) {
	var root PayrollProfilesRoot
	if err := c.get(ctx, "/payroll_profiles/"+strconv.Itoa(year), nil, &root); err != nil {
		return nil, fmt.Errorf("failed to list payroll profiles for %d: %w", year, err)
	}
	return root.Profiles, nil
}
