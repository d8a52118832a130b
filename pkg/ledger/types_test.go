package ledger

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func gbp(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBalanced(t *testing.T) {
	tests := []struct {
		name     string
		postings []Posting
		expected bool
	}{
		{
			"two legs summing to zero",
			[]Posting{
				{Account: "Assets:Receivable", Amount: gbp("720"), Currency: "GBP"},
				{Account: "Income:Sales", Amount: gbp("-720"), Currency: "GBP"},
			},
			true,
		},
		{
			"three legs summing to zero",
			[]Posting{
				{Account: "Assets:Receivable", Amount: gbp("720"), Currency: "GBP"},
				{Account: "Income:Sales", Amount: gbp("-600"), Currency: "GBP"},
				{Account: "Liabilities:VAT", Amount: gbp("-120"), Currency: "GBP"},
			},
			true,
		},
		{
			"off by a penny",
			[]Posting{
				{Account: "Assets:Receivable", Amount: gbp("720"), Currency: "GBP"},
				{Account: "Income:Sales", Amount: gbp("-719.99"), Currency: "GBP"},
			},
			false,
		},
		{
			"balanced within each currency",
			[]Posting{
				{Account: "Assets:Bank:Current", Amount: gbp("-100"), Currency: "GBP"},
				{Account: "Assets:Bank:Euro", Amount: gbp("100"), Currency: "GBP"},
				{Account: "Expenses:Fees", Amount: gbp("2.5"), Currency: "EUR"},
				{Account: "Assets:Bank:Euro", Amount: gbp("-2.5"), Currency: "EUR"},
			},
			true,
		},
		{
			"one currency unbalanced",
			[]Posting{
				{Account: "Assets:Bank:Current", Amount: gbp("-100"), Currency: "GBP"},
				{Account: "Assets:Bank:Euro", Amount: gbp("115"), Currency: "EUR"},
			},
			false,
		},
		{
			"no postings",
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := Transaction{Date: "2024-03-01", Postings: tt.postings}
			if got := txn.Balanced(); got != tt.expected {
				t.Errorf("Balanced() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFormatHeaderLine(t *testing.T) {
	tests := []struct {
		name     string
		txn      Transaction
		expected string
	}{
		{
			"payee narration tags and links",
			Transaction{
				Date:      "2024-03-01",
				Payee:     "Acme Supplies Ltd",
				Narration: "Invoice INV-2024-001",
				Tags:      []string{"invoice-INV-2024-001"},
				Links:     []string{"mar-2024"},
			},
			`2024-03-01 * "Acme Supplies Ltd" "Invoice INV-2024-001" #invoice-INV-2024-001 ^mar-2024`,
		},
		{
			"narration only defaults the flag",
			Transaction{Date: "2024-04-02", Narration: "Bank transaction"},
			`2024-04-02 * "Bank transaction"`,
		},
		{
			"pending flag kept",
			Transaction{Date: "2024-04-02", Flag: "!", Narration: "Awaiting receipt"},
			`2024-04-02 ! "Awaiting receipt"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := strings.Split(tt.txn.Format(), "\n")
			if lines[0] != tt.expected {
				t.Errorf("Format() header = %q, expected %q", lines[0], tt.expected)
			}
		})
	}
}

func TestFormatAlignsAmounts(t *testing.T) {
	txn := Transaction{
		Date:      "2024-03-01",
		Narration: "Invoice INV-2024-001",
		Postings: []Posting{
			{Account: "Assets:Receivable", Amount: gbp("720"), Currency: "GBP"},
			{Account: "Income:Consultancy", Amount: gbp("-600"), Currency: "GBP"},
			{Account: "Liabilities:VAT", Amount: gbp("-120"), Currency: "GBP"},
		},
	}

	lines := strings.Split(strings.TrimRight(txn.Format(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Format() produced %d lines, expected 4:\n%s", len(lines), txn.Format())
	}

	for _, line := range lines[1:] {
		if len(line) != accountColumn {
			t.Errorf("posting line %q is %d columns wide, expected %d", line, len(line), accountColumn)
		}
	}

	if !strings.HasSuffix(lines[1], "720.00 GBP") {
		t.Errorf("amounts should render with two decimal places, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  Income:Consultancy") {
		t.Errorf("postings should be indented two spaces, got %q", lines[2])
	}
}

func TestFormatPostingComment(t *testing.T) {
	txn := Transaction{
		Date:      "2024-03-01",
		Narration: "Invoice",
		Postings: []Posting{
			{Account: "Income:Consultancy", Amount: gbp("-600"), Currency: "GBP", Comment: "Consultancy"},
		},
	}

	out := txn.Format()
	if !strings.Contains(out, "-600.00 GBP ; Consultancy") {
		t.Errorf("Format() should append the posting comment, got:\n%s", out)
	}
}

func TestFormatLongAccountKeepsSingleSpace(t *testing.T) {
	long := "Expenses:Administration:Subscriptions:CloudHosting:Overages"
	txn := Transaction{
		Date:      "2024-03-01",
		Narration: "Hosting",
		Postings: []Posting{
			{Account: long, Amount: gbp("-10"), Currency: "GBP"},
		},
	}

	lines := strings.Split(strings.TrimRight(txn.Format(), "\n"), "\n")
	want := "  " + long + " -10.00 GBP"
	if lines[1] != want {
		t.Errorf("Format() = %q, expected %q", lines[1], want)
	}
}

func TestFormatMetadataSorted(t *testing.T) {
	txn := Transaction{
		Date:      "2024-03-01",
		Narration: "Invoice",
		Metadata: map[string]string{
			"ledgerport": "https://api.ledgerport.com/v2/invoices/42",
			"contact":    "https://api.ledgerport.com/v2/contacts/7",
		},
	}

	lines := strings.Split(txn.Format(), "\n")
	if lines[1] != `  contact: "https://api.ledgerport.com/v2/contacts/7"` {
		t.Errorf("metadata keys should be sorted, first line = %q", lines[1])
	}
	if lines[2] != `  ledgerport: "https://api.ledgerport.com/v2/invoices/42"` {
		t.Errorf("metadata keys should be sorted, second line = %q", lines[2])
	}
}
