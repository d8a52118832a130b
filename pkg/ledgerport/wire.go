package ledgerport

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. The service
// exchanges dates as "YYYY-MM-DD" strings; Date marshals to and from that
// form. The embedded time.Time is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String returns the date in "YYYY-MM-DD" form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Equal reports whether two dates are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string. JSON null leaves the date
// untouched, matching encoding/json's convention for null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ResourceID returns the trailing path segment of a resource URL, which is
// the service's identifier for that resource. Returns the input unchanged if
// it contains no slash, so plain identifiers pass through.
func ResourceID(url string) string {
	trimmed := strings.TrimSuffix(url, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// Pointer helpers for building request payloads. Optional fields are
// pointers so that unset values are omitted from the encoded JSON.

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }

// Decimal returns a pointer to d.
func Decimal(d decimal.Decimal) *decimal.Decimal { return &d }

// DecimalString returns a pointer to the decimal parsed from s. It panics on
// malformed input and is intended for fixed literals.
func DecimalString(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("ledgerport: invalid decimal literal %q: %v", s, err))
	}
	return &d
}

// DatePtr returns a pointer to d.
func DatePtr(d Date) *Date { return &d }

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }
