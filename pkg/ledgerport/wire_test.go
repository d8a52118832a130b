package ledgerport

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-03-01", "2024-03-01", false},
		{"2024-12-31", "2024-12-31", false},
		{"2024-3-1", "", true},
		{"01/03/2024", "", true},
		{"2024-13-01", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %v", tt.input, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) returned error: %v", tt.input, err)
			}
			if d.String() != tt.want {
				t.Errorf("ParseDate(%q).String() = %q, expected %q", tt.input, d.String(), tt.want)
			}
		})
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2024, 6, 15, 13, 45, 30, 0, time.UTC))
	if d.String() != "2024-06-15" {
		t.Errorf("DateOf() = %q, expected %q", d.String(), "2024-06-15")
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("DateOf() kept a time-of-day component: %v", d.Time)
	}
}

func TestDateComparisons(t *testing.T) {
	earlier := NewDate(2024, 1, 15)
	later := NewDate(2024, 2, 1)

	if !earlier.Before(later.Time) {
		t.Error("expected earlier.Before(later)")
	}
	if !later.After(earlier.Time) {
		t.Error("expected later.After(earlier)")
	}
	if !earlier.Equal(NewDate(2024, 1, 15)) {
		t.Error("expected dates with the same components to be Equal")
	}

	var zero Date
	if !zero.IsZero() {
		t.Error("expected zero Date to report IsZero")
	}
	if earlier.IsZero() {
		t.Error("expected set Date not to report IsZero")
	}
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		DatedOn Date  `json:"dated_on"`
		DueOn   *Date `json:"due_on,omitempty"`
	}

	t.Run("marshal", func(t *testing.T) {
		p := payload{DatedOn: NewDate(2024, 3, 1), DueOn: DatePtr(NewDate(2024, 3, 31))}
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal() returned error: %v", err)
		}
		want := `{"dated_on":"2024-03-01","due_on":"2024-03-31"}`
		if string(data) != want {
			t.Errorf("Marshal() = %s, expected %s", data, want)
		}
	})

	t.Run("marshal omits nil pointer", func(t *testing.T) {
		data, err := json.Marshal(payload{DatedOn: NewDate(2024, 3, 1)})
		if err != nil {
			t.Fatalf("Marshal() returned error: %v", err)
		}
		want := `{"dated_on":"2024-03-01"}`
		if string(data) != want {
			t.Errorf("Marshal() = %s, expected %s", data, want)
		}
	})

	t.Run("unmarshal", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{"dated_on":"2024-03-01","due_on":"2024-03-31"}`), &p); err != nil {
			t.Fatalf("Unmarshal() returned error: %v", err)
		}
		if p.DatedOn.String() != "2024-03-01" {
			t.Errorf("dated_on = %q, expected %q", p.DatedOn.String(), "2024-03-01")
		}
		if p.DueOn == nil || p.DueOn.String() != "2024-03-31" {
			t.Errorf("due_on = %v, expected 2024-03-31", p.DueOn)
		}
	})

	t.Run("unmarshal null leaves date untouched", func(t *testing.T) {
		p := payload{DatedOn: NewDate(2024, 3, 1)}
		if err := json.Unmarshal([]byte(`{"dated_on":null}`), &p); err != nil {
			t.Fatalf("Unmarshal() returned error: %v", err)
		}
		if p.DatedOn.String() != "2024-03-01" {
			t.Errorf("dated_on = %q after null, expected unchanged 2024-03-01", p.DatedOn.String())
		}
	})

	t.Run("unmarshal rejects malformed date", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{"dated_on":"March 1st"}`), &p); err == nil {
			t.Error("Unmarshal() expected error for malformed date")
		}
	})
}

func TestResourceID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"full URL", "https://api.ledgerport.com/v2/invoices/42", "42"},
		{"trailing slash", "https://api.ledgerport.com/v2/invoices/42/", "42"},
		{"nominal code", "https://api.ledgerport.com/v2/categories/285", "285"},
		{"bare identifier", "42", "42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResourceID(tt.url); got != tt.expected {
				t.Errorf("ResourceID(%q) = %q, expected %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestPointerHelpers(t *testing.T) {
	if s := String("hello"); *s != "hello" {
		t.Errorf("String() = %q, expected %q", *s, "hello")
	}
	if i := Int(7); *i != 7 {
		t.Errorf("Int() = %d, expected 7", *i)
	}
	if i := Int64(7); *i != 7 {
		t.Errorf("Int64() = %d, expected 7", *i)
	}
	if b := Bool(true); !*b {
		t.Error("Bool(true) pointed at false")
	}
	if f := Float64(1.5); *f != 1.5 {
		t.Errorf("Float64() = %v, expected 1.5", *f)
	}
	if d := DecimalString("19.99"); d.String() != "19.99" {
		t.Errorf("DecimalString() = %s, expected 19.99", d)
	}
}

func TestDecimalStringPanicsOnBadLiteral(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("DecimalString() expected panic for malformed literal")
		}
	}()
	DecimalString("not a number")
}
