package ledgertest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// SeedBill stores a bill, assigning its URL and derived totals, and returns
// the stored copy.
func (s *Server) SeedBill(bill ledgerport.Bill) ledgerport.Bill {
	return s.storeBill(bill)
}

func (s *Server) storeBill(bill ledgerport.Bill) ledgerport.Bill {
	id := s.store.NextID(bucketBills)
	bill.URL = s.resourceURL("bills", id)
	if bill.Status == "" {
		bill.Status = ledgerport.BillStatusOpen
	}
	deriveBillTotals(&bill)
	now := time.Now().UTC().Truncate(time.Second)
	bill.CreatedAt = ledgerport.TimePtr(now)
	bill.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketBills, id, bill); err != nil {
		panic(err)
	}
	return bill
}

// deriveBillTotals computes the read-only monetary totals from the bill
// items. Bill items carry gross values with the tax portion alongside.
func deriveBillTotals(bill *ledgerport.Bill) {
	gross := decimal.Zero
	tax := decimal.Zero

	for _, item := range bill.BillItems {
		if item.TotalValue != nil {
			gross = gross.Add(*item.TotalValue)
		}
		if item.SalesTaxValue != nil {
			tax = tax.Add(*item.SalesTaxValue)
		}
	}

	paid := decimal.Zero
	if bill.PaidValue != nil {
		paid = *bill.PaidValue
	}

	bill.NetValue = ledgerport.Decimal(gross.Sub(tax))
	bill.SalesTaxValue = ledgerport.Decimal(tax)
	bill.TotalValue = ledgerport.Decimal(gross)
	bill.DueValue = ledgerport.Decimal(gross.Sub(paid))
}

func (s *Server) allBills() []ledgerport.Bill {
	var bills []ledgerport.Bill
	for _, data := range s.store.List(bucketBills, nil) {
		var bill ledgerport.Bill
		if json.Unmarshal(data, &bill) == nil {
			bills = append(bills, bill)
		}
	}
	return bills
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view := query.Get("view")
	contact := query.Get("contact")

	var bills []ledgerport.Bill
	for _, bill := range s.allBills() {
		if !inDateRange(r, bill.DatedOn) {
			continue
		}
		if contact != "" && bill.Contact != contact {
			continue
		}
		switch view {
		case "", "all":
		case "open":
			if bill.Status != ledgerport.BillStatusOpen {
				continue
			}
		case "overdue":
			if bill.Status != ledgerport.BillStatusOverdue {
				continue
			}
		case "open_or_overdue":
			if bill.Status != ledgerport.BillStatusOpen && bill.Status != ledgerport.BillStatusOverdue {
				continue
			}
		case "paid":
			if bill.Status != ledgerport.BillStatusPaid {
				continue
			}
		}
		bills = append(bills, bill)
	}

	start, end := pageBounds(r, len(bills))
	writeJSON(w, http.StatusOK, ledgerport.BillsRoot{Bills: bills[start:end]})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.BillRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	bill := root.Bill
	if bill.Contact == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "Contact is required", "contact")
		return
	}
	if bill.Reference == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "Reference is required", "reference")
		return
	}
	if bill.DatedOn.IsZero() {
		writeFieldError(w, http.StatusUnprocessableEntity, "Dated on is required", "dated_on")
		return
	}

	stored := s.storeBill(bill)
	writeJSON(w, http.StatusCreated, ledgerport.BillRoot{Bill: stored})
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bill ID")
		return
	}

	var bill ledgerport.Bill
	if err := s.store.Get(bucketBills, id, &bill); err != nil {
		writeError(w, http.StatusNotFound, "Bill not found")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.BillRoot{Bill: bill})
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bill ID")
		return
	}

	var existing ledgerport.Bill
	if err := s.store.Get(bucketBills, id, &existing); err != nil {
		writeError(w, http.StatusNotFound, "Bill not found")
		return
	}

	var root ledgerport.BillRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.Bill
	updated.URL = existing.URL
	if updated.Status == "" {
		updated.Status = existing.Status
	}
	deriveBillTotals(&updated)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

	if err := s.store.Put(bucketBills, id, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store bill")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.BillRoot{Bill: updated})
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bill ID")
		return
	}

	if err := s.store.Delete(bucketBills, id); err != nil {
		writeError(w, http.StatusNotFound, "Bill not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
