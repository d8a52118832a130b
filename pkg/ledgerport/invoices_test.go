package ledgerport

import (
	"encoding/json"
	"reflect"
	"testing"
)

// invoiceFixture is an invoice as the service sends it, inside its envelope.
const invoiceFixture = `{
	"invoice": {
		"url": "https://api.ledgerport.com/v2/invoices/42",
		"contact": "https://api.ledgerport.com/v2/contacts/7",
		"reference": "INV-2024-001",
		"dated_on": "2024-03-01",
		"due_on": "2024-03-31",
		"payment_terms_in_days": 30,
		"currency": "GBP",
		"net_value": "575",
		"sales_tax_value": "115",
		"total_value": "690",
		"due_value": "690",
		"status": "open",
		"ec_status": "uk",
		"client_contact_name": "Priya Shah",
		"invoice_items": [
			{
				"url": "https://api.ledgerport.com/v2/invoice_items/101",
				"position": 1,
				"item_type": "days",
				"quantity": "2.5",
				"price": "200",
				"description": "Consultancy",
				"category": "https://api.ledgerport.com/v2/categories/002",
				"sales_tax_rate": "20",
				"sales_tax_value": "100"
			},
			{
				"url": "https://api.ledgerport.com/v2/invoice_items/102",
				"position": 2,
				"item_type": "products",
				"quantity": "1",
				"price": "75",
				"description": "Annual licence",
				"category": "https://api.ledgerport.com/v2/categories/001",
				"sales_tax_rate": "20",
				"sales_tax_value": "15"
			}
		],
		"created_at": "2024-03-01T09:15:00Z",
		"updated_at": "2024-03-02T08:00:00Z"
	}
}`

func TestInvoiceWireFormat(t *testing.T) {
	var root InvoiceRoot
	if err := json.Unmarshal([]byte(invoiceFixture), &root); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}

	inv := root.Invoice
	if inv.Reference != "INV-2024-001" {
		t.Errorf("Reference = %q, expected %q", inv.Reference, "INV-2024-001")
	}
	if inv.DatedOn.String() != "2024-03-01" {
		t.Errorf("DatedOn = %q, expected %q", inv.DatedOn.String(), "2024-03-01")
	}
	if inv.Status != InvoiceStatusOpen {
		t.Errorf("Status = %q, expected %q", inv.Status, InvoiceStatusOpen)
	}
	if inv.TotalValue == nil || inv.TotalValue.String() != "690" {
		t.Errorf("TotalValue = %v, expected 690", inv.TotalValue)
	}
	if len(inv.InvoiceItems) != 2 {
		t.Fatalf("len(InvoiceItems) = %d, expected 2", len(inv.InvoiceItems))
	}
	if inv.InvoiceItems[0].ItemType != ItemTypeDays {
		t.Errorf("item_type = %q, expected %q", inv.InvoiceItems[0].ItemType, ItemTypeDays)
	}
	if inv.InvoiceItems[0].Quantity.String() != "2.5" {
		t.Errorf("quantity = %s, expected 2.5", inv.InvoiceItems[0].Quantity)
	}

	// Re-encoding must produce the wire document we started from: nothing
	// dropped, nothing invented.
	encoded, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}

	var got, want map[string]interface{}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("Unmarshal(encoded) returned error: %v", err)
	}
	if err := json.Unmarshal([]byte(invoiceFixture), &want); err != nil {
		t.Fatalf("Unmarshal(fixture) returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the document:\n got: %s\nwant: %s", encoded, invoiceFixture)
	}
}

func TestInvoiceOmitsUnsetFields(t *testing.T) {
	inv := Invoice{
		Contact:   "https://api.ledgerport.com/v2/contacts/7",
		DatedOn:   NewDate(2024, 3, 1),
		Reference: "INV-2024-002",
	}

	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}

	// Only the fields that were set may appear; a create request must not
	// send explicit nulls or zero values for the rest.
	expected := map[string]bool{"contact": true, "dated_on": true, "reference": true}
	for key := range fields {
		if !expected[key] {
			t.Errorf("Marshal() emitted unset field %q", key)
		}
	}
	for key := range expected {
		if _, ok := fields[key]; !ok {
			t.Errorf("Marshal() dropped set field %q", key)
		}
	}
}

func TestInvoicesRootDecodesList(t *testing.T) {
	payload := `{"invoices":[
		{"url":"https://api.ledgerport.com/v2/invoices/1","reference":"A","dated_on":"2024-01-10"},
		{"url":"https://api.ledgerport.com/v2/invoices/2","reference":"B","dated_on":"2024-01-12"}
	]}`

	var root InvoicesRoot
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}
	if len(root.Invoices) != 2 {
		t.Fatalf("len(Invoices) = %d, expected 2", len(root.Invoices))
	}
	if root.Invoices[1].Reference != "B" {
		t.Errorf("Invoices[1].Reference = %q, expected %q", root.Invoices[1].Reference, "B")
	}
}
