package convert

import (
	"testing"

	"github.com/ledgerport/ledgerport-go/pkg/ledger"
	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

const apiBase = "https://api.ledgerport.com/v2"

func newTestConverter(t *testing.T) *Converter {
	t.Helper()

	mapper, err := ParseMapping([]byte(mappingYAML))
	if err != nil {
		t.Fatalf("ParseMapping() returned error: %v", err)
	}

	c := NewConverter(mapper, "GBP")
	c.RegisterBankAccount(apiBase+"/bank_accounts/1", "Current Account")
	c.RegisterBankAccount(apiBase+"/bank_accounts/2", "Savings")
	return c
}

func category(code string) string {
	return apiBase + "/categories/" + code
}

func postingFor(t *testing.T, txn ledger.Transaction, account string) ledger.Posting {
	t.Helper()
	for _, p := range txn.Postings {
		if p.Account == account {
			return p
		}
	}
	t.Fatalf("no posting for account %q in %v", account, txn.Postings)
	return ledger.Posting{}
}

func TestConvertInvoice(t *testing.T) {
	c := newTestConverter(t)

	invoice := ledgerport.Invoice{
		URL:               apiBase + "/invoices/42",
		Reference:         "INV-2024-001",
		DatedOn:           ledgerport.NewDate(2024, 3, 1),
		ClientContactName: ledgerport.String("Acme Supplies Ltd"),
		InvoiceItems: []ledgerport.InvoiceItem{
			{
				// Tax given explicitly.
				Quantity:      ledgerport.DecimalString("2"),
				Price:         ledgerport.DecimalString("300"),
				Category:      category("002"),
				Description:   "Consultancy",
				SalesTaxValue: ledgerport.DecimalString("120"),
			},
			{
				// Tax derived from the rate.
				Quantity:     ledgerport.DecimalString("1"),
				Price:        ledgerport.DecimalString("75"),
				Category:     category("001"),
				Description:  "Annual licence",
				SalesTaxRate: ledgerport.DecimalString("20"),
			},
		},
	}

	txn := c.ConvertInvoice(invoice)

	if !txn.Balanced() {
		t.Fatalf("ConvertInvoice() produced an unbalanced transaction: %v", txn.Postings)
	}
	if txn.Date != "2024-03-01" {
		t.Errorf("Date = %q, expected 2024-03-01", txn.Date)
	}
	if txn.Payee != "Acme Supplies Ltd" {
		t.Errorf("Payee = %q, expected Acme Supplies Ltd", txn.Payee)
	}
	if txn.Narration != "Invoice INV-2024-001" {
		t.Errorf("Narration = %q, expected Invoice INV-2024-001", txn.Narration)
	}
	if txn.Metadata["ledgerport"] != invoice.URL {
		t.Errorf("Metadata[ledgerport] = %q, expected the resource URL", txn.Metadata["ledgerport"])
	}

	// Net 675, tax 120 + 15, total 810 against debtors.
	debtors := postingFor(t, txn, "Assets:Debtors")
	if debtors.Amount.String() != "810" {
		t.Errorf("debtors amount = %s, expected 810", debtors.Amount)
	}
	consultancy := postingFor(t, txn, "Income:Consultancy")
	if consultancy.Amount.String() != "-600" {
		t.Errorf("consultancy amount = %s, expected -600", consultancy.Amount)
	}
	sales := postingFor(t, txn, "Income:Sales")
	if sales.Amount.String() != "-75" {
		t.Errorf("sales amount = %s, expected -75", sales.Amount)
	}
	vat := postingFor(t, txn, "Liabilities:VAT:Control")
	if vat.Amount.String() != "-135" {
		t.Errorf("vat amount = %s, expected -135", vat.Amount)
	}
}

func TestConvertInvoiceUnmappedCategory(t *testing.T) {
	c := newTestConverter(t)

	txn := c.ConvertInvoice(ledgerport.Invoice{
		Reference: "INV-2024-002",
		DatedOn:   ledgerport.NewDate(2024, 3, 1),
		InvoiceItems: []ledgerport.InvoiceItem{{
			Quantity: ledgerport.DecimalString("1"),
			Price:    ledgerport.DecimalString("100"),
			Category: category("998"),
		}},
	})

	if !txn.Balanced() {
		t.Fatal("ConvertInvoice() produced an unbalanced transaction")
	}
	income := postingFor(t, txn, "Income:Unmapped")
	if income.Amount.String() != "-100" {
		t.Errorf("unmapped income amount = %s, expected -100", income.Amount)
	}
}

func TestConvertBill(t *testing.T) {
	c := newTestConverter(t)

	bill := ledgerport.Bill{
		URL:       apiBase + "/bills/9",
		Reference: "ACME-118",
		DatedOn:   ledgerport.NewDate(2024, 3, 10),
		BillItems: []ledgerport.BillItem{
			{
				TotalValue:    ledgerport.DecimalString("240"),
				SalesTaxValue: ledgerport.DecimalString("40"),
				Category:      category("101"),
				Description:   "Stock",
			},
			{
				TotalValue: ledgerport.DecimalString("60"),
				Category:   category("255"),
			},
		},
	}

	txn := c.ConvertBill(bill)

	if !txn.Balanced() {
		t.Fatalf("ConvertBill() produced an unbalanced transaction: %v", txn.Postings)
	}
	if txn.Narration != "Bill ACME-118" {
		t.Errorf("Narration = %q, expected Bill ACME-118", txn.Narration)
	}

	purchases := postingFor(t, txn, "Expenses:CostOfSales:Purchases")
	if purchases.Amount.String() != "200" {
		t.Errorf("purchases amount = %s, expected net 200", purchases.Amount)
	}
	travel := postingFor(t, txn, "Expenses:Admin:Travel")
	if travel.Amount.String() != "60" {
		t.Errorf("travel amount = %s, expected 60", travel.Amount)
	}
	vat := postingFor(t, txn, "Liabilities:VAT:Control")
	if vat.Amount.String() != "40" {
		t.Errorf("vat amount = %s, expected reclaimable 40", vat.Amount)
	}
	creditors := postingFor(t, txn, "Liabilities:Creditors")
	if creditors.Amount.String() != "-300" {
		t.Errorf("creditors amount = %s, expected -300", creditors.Amount)
	}
}

func TestConvertExplanation(t *testing.T) {
	tests := []struct {
		name          string
		exp           ledgerport.BankTransactionExplanation
		contraAccount string
		contraAmount  string
		bankAccount   string
		bankAmount    string
	}{
		{
			"invoice payment in",
			ledgerport.BankTransactionExplanation{
				BankAccount: apiBase + "/bank_accounts/1",
				DatedOn:     ledgerport.NewDate(2024, 4, 5),
				Amount:      ledgerport.DecimalString("720"),
				PaidInvoice: ledgerport.String(apiBase + "/invoices/42"),
			},
			"Assets:Debtors", "-720",
			"Assets:Bank:Current", "720",
		},
		{
			"bill payment out",
			ledgerport.BankTransactionExplanation{
				BankAccount: apiBase + "/bank_accounts/1",
				DatedOn:     ledgerport.NewDate(2024, 4, 6),
				Amount:      ledgerport.DecimalString("-300"),
				PaidBill:    ledgerport.String(apiBase + "/bills/9"),
			},
			"Liabilities:Creditors", "300",
			"Assets:Bank:Current", "-300",
		},
		{
			"transfer between accounts",
			ledgerport.BankTransactionExplanation{
				BankAccount:         apiBase + "/bank_accounts/1",
				DatedOn:             ledgerport.NewDate(2024, 4, 7),
				Amount:              ledgerport.DecimalString("-500"),
				TransferBankAccount: ledgerport.String(apiBase + "/bank_accounts/2"),
			},
			"Assets:Bank:Savings", "500",
			"Assets:Bank:Current", "-500",
		},
		{
			"category spend",
			ledgerport.BankTransactionExplanation{
				BankAccount: apiBase + "/bank_accounts/1",
				DatedOn:     ledgerport.NewDate(2024, 4, 8),
				Amount:      ledgerport.DecimalString("-120"),
				Category:    ledgerport.String(category("255")),
				Description: "Train to Manchester",
			},
			"Expenses:Admin:Travel", "120",
			"Assets:Bank:Current", "-120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConverter(t)
			txn := c.ConvertExplanation(tt.exp)

			if !txn.Balanced() {
				t.Fatalf("ConvertExplanation() produced an unbalanced transaction: %v", txn.Postings)
			}

			contra := postingFor(t, txn, tt.contraAccount)
			if contra.Amount.String() != tt.contraAmount {
				t.Errorf("%s amount = %s, expected %s", tt.contraAccount, contra.Amount, tt.contraAmount)
			}

			bank := postingFor(t, txn, tt.bankAccount)
			if bank.Amount.String() != tt.bankAmount {
				t.Errorf("bank amount = %s, expected %s (the line's own sign)", bank.Amount, tt.bankAmount)
			}
		})
	}
}

func TestConvertExplanationWithSalesTax(t *testing.T) {
	c := newTestConverter(t)

	txn := c.ConvertExplanation(ledgerport.BankTransactionExplanation{
		BankAccount:   apiBase + "/bank_accounts/1",
		DatedOn:       ledgerport.NewDate(2024, 4, 9),
		Amount:        ledgerport.DecimalString("-120"),
		Category:      ledgerport.String(category("255")),
		SalesTaxValue: ledgerport.DecimalString("20"),
	})

	if !txn.Balanced() {
		t.Fatalf("ConvertExplanation() produced an unbalanced transaction: %v", txn.Postings)
	}

	travel := postingFor(t, txn, "Expenses:Admin:Travel")
	if travel.Amount.String() != "100" {
		t.Errorf("net expense = %s, expected 100", travel.Amount)
	}
	vat := postingFor(t, txn, "Liabilities:VAT:Control")
	if vat.Amount.String() != "20" {
		t.Errorf("vat = %s, expected 20", vat.Amount)
	}
	bank := postingFor(t, txn, "Assets:Bank:Current")
	if bank.Amount.String() != "-120" {
		t.Errorf("bank = %s, expected -120", bank.Amount)
	}
}

func TestConvertExplanationUnregisteredBank(t *testing.T) {
	c := newTestConverter(t)

	txn := c.ConvertExplanation(ledgerport.BankTransactionExplanation{
		BankAccount: apiBase + "/bank_accounts/77",
		DatedOn:     ledgerport.NewDate(2024, 4, 10),
		Amount:      ledgerport.DecimalString("-10"),
		Category:    ledgerport.String(category("255")),
	})

	bank := postingFor(t, txn, "Assets:Bank:Unmapped")
	if bank.Amount.String() != "-10" {
		t.Errorf("bank = %s, expected -10", bank.Amount)
	}
}

func TestConvertJournalSet(t *testing.T) {
	c := newTestConverter(t)

	set := ledgerport.JournalSet{
		URL:         apiBase + "/journal_sets/5",
		DatedOn:     ledgerport.NewDate(2024, 3, 31),
		Description: "Year end accrual",
		JournalEntries: []ledgerport.JournalEntry{
			{Category: category("210"), DebitValue: ledgerport.DecimalString("500"), Description: "Accountancy accrual"},
			{Category: category("750"), DebitValue: ledgerport.DecimalString("-500")},
		},
	}

	txn := c.ConvertJournalSet(set)

	if !txn.Balanced() {
		t.Fatalf("ConvertJournalSet() produced an unbalanced transaction: %v", txn.Postings)
	}
	if txn.Narration != "Year end accrual" {
		t.Errorf("Narration = %q, expected the set description", txn.Narration)
	}
	if len(txn.Postings) != 2 {
		t.Fatalf("len(Postings) = %d, expected 2", len(txn.Postings))
	}

	accountancy := postingFor(t, txn, "Expenses:Admin:Accountancy")
	if accountancy.Amount.String() != "500" {
		t.Errorf("accountancy = %s, expected 500", accountancy.Amount)
	}
	if accountancy.Comment != "Accountancy accrual" {
		t.Errorf("Comment = %q, expected the entry description", accountancy.Comment)
	}
}
