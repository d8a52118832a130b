package ledgertest

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// SeedInvoice stores an invoice, assigning its URL and derived totals, and
// returns the stored copy. Invoices seed as drafts unless a status is set.
func (s *Server) SeedInvoice(invoice ledgerport.Invoice) ledgerport.Invoice {
	return s.storeInvoice(invoice)
}

func (s *Server) storeInvoice(invoice ledgerport.Invoice) ledgerport.Invoice {
	id := s.store.NextID(bucketInvoices)
	invoice.URL = s.resourceURL("invoices", id)
	if invoice.Status == "" {
		invoice.Status = ledgerport.InvoiceStatusDraft
	}
	deriveInvoiceTotals(&invoice)
	now := time.Now().UTC().Truncate(time.Second)
	invoice.CreatedAt = ledgerport.TimePtr(now)
	invoice.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketInvoices, id, invoice); err != nil {
		panic(err)
	}
	return invoice
}

// deriveInvoiceTotals computes the read-only monetary totals from the
// invoice items, overwriting whatever the caller supplied.
func deriveInvoiceTotals(invoice *ledgerport.Invoice) {
	net := decimal.Zero
	tax := decimal.Zero

	for _, item := range invoice.InvoiceItems {
		itemNet := decimal.Zero
		if item.Quantity != nil && item.Price != nil {
			itemNet = item.Quantity.Mul(*item.Price)
		}
		net = net.Add(itemNet)

		if item.SalesTaxValue != nil {
			tax = tax.Add(*item.SalesTaxValue)
		} else if item.SalesTaxRate != nil {
			tax = tax.Add(itemNet.Mul(*item.SalesTaxRate).Div(decimal.NewFromInt(100)).Round(2))
		}
	}

	total := net.Add(tax)
	paid := decimal.Zero
	if invoice.PaidValue != nil {
		paid = *invoice.PaidValue
	}

	invoice.NetValue = ledgerport.Decimal(net)
	invoice.SalesTaxValue = ledgerport.Decimal(tax)
	invoice.TotalValue = ledgerport.Decimal(total)
	invoice.DueValue = ledgerport.Decimal(total.Sub(paid))
}

func (s *Server) allInvoices() []ledgerport.Invoice {
	var invoices []ledgerport.Invoice
	for _, data := range s.store.List(bucketInvoices, nil) {
		var invoice ledgerport.Invoice
		if json.Unmarshal(data, &invoice) == nil {
			invoices = append(invoices, invoice)
		}
	}
	return invoices
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view := query.Get("view")
	contact := query.Get("contact")
	nested := query.Get("nested_invoice_items") == "true"

	var invoices []ledgerport.Invoice
	for _, invoice := range s.allInvoices() {
		if !inDateRange(r, invoice.DatedOn) {
			continue
		}
		if contact != "" && invoice.Contact != contact {
			continue
		}
		switch view {
		case "", "all":
		case "draft":
			if invoice.Status != ledgerport.InvoiceStatusDraft {
				continue
			}
		case "open":
			if invoice.Status != ledgerport.InvoiceStatusOpen {
				continue
			}
		case "overdue":
			if invoice.Status != ledgerport.InvoiceStatusOverdue {
				continue
			}
		case "open_or_overdue":
			if invoice.Status != ledgerport.InvoiceStatusOpen && invoice.Status != ledgerport.InvoiceStatusOverdue {
				continue
			}
		default:
			// Unrecognised views fall back to all, as the service does.
		}
		if !nested {
			invoice.InvoiceItems = nil
		}
		invoices = append(invoices, invoice)
	}

	start, end := pageBounds(r, len(invoices))
	writeJSON(w, http.StatusOK, ledgerport.InvoicesRoot{Invoices: invoices[start:end]})
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.InvoiceRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	invoice := root.Invoice
	if invoice.Contact == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "Contact is required", "contact")
		return
	}
	if invoice.DatedOn.IsZero() {
		writeFieldError(w, http.StatusUnprocessableEntity, "Dated on is required", "dated_on")
		return
	}

	invoice.Status = ledgerport.InvoiceStatusDraft
	stored := s.storeInvoice(invoice)
	writeJSON(w, http.StatusCreated, ledgerport.InvoiceRoot{Invoice: stored})
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice ledgerport.Invoice
	if err := s.store.Get(bucketInvoices, id, &invoice); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.InvoiceRoot{Invoice: invoice})
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var existing ledgerport.Invoice
	if err := s.store.Get(bucketInvoices, id, &existing); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}
	if existing.Status != ledgerport.InvoiceStatusDraft {
		writeError(w, http.StatusUnprocessableEntity, "Only draft invoices can be updated")
		return
	}

	var root ledgerport.InvoiceRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.Invoice
	updated.URL = existing.URL
	updated.Status = existing.Status
	deriveInvoiceTotals(&updated)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

	if err := s.store.Put(bucketInvoices, id, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store invoice")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.InvoiceRoot{Invoice: updated})
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice ledgerport.Invoice
	if err := s.store.Get(bucketInvoices, id, &invoice); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}
	if invoice.Status != ledgerport.InvoiceStatusDraft {
		writeError(w, http.StatusUnprocessableEntity, "Only draft invoices can be deleted")
		return
	}

	if err := s.store.Delete(bucketInvoices, id); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// invoiceTransitions maps transition names to the status they require and
// the status they produce.
var invoiceTransitions = map[string]struct {
	from []ledgerport.InvoiceStatus
	to   ledgerport.InvoiceStatus
}{
	"mark_as_sent": {
		from: []ledgerport.InvoiceStatus{ledgerport.InvoiceStatusDraft, ledgerport.InvoiceStatusScheduled},
		to:   ledgerport.InvoiceStatusOpen,
	},
	"mark_as_draft": {
		from: []ledgerport.InvoiceStatus{ledgerport.InvoiceStatusOpen, ledgerport.InvoiceStatusScheduled, ledgerport.InvoiceStatusCancelled},
		to:   ledgerport.InvoiceStatusDraft,
	},
	"mark_as_cancelled": {
		from: []ledgerport.InvoiceStatus{ledgerport.InvoiceStatusOpen, ledgerport.InvoiceStatusOverdue},
		to:   ledgerport.InvoiceStatusCancelled,
	},
}

func (s *Server) handleInvoiceTransition(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	transition, ok := invoiceTransitions[chi.URLParam(r, "transition")]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown transition")
		return
	}

	var invoice ledgerport.Invoice
	if err := s.store.Get(bucketInvoices, id, &invoice); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	allowed := false
	for _, status := range transition.from {
		if invoice.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		writeError(w, http.StatusUnprocessableEntity,
			"Invoice cannot make this transition from status "+string(invoice.Status))
		return
	}

	invoice.Status = transition.to
	invoice.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))
	if err := s.store.Put(bucketInvoices, id, invoice); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store invoice")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleEmailInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice ledgerport.Invoice
	if err := s.store.Get(bucketInvoices, id, &invoice); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	var body struct {
		Invoice struct {
			Email ledgerport.EmailDetails `json:"email"`
		} `json:"invoice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	// Emailing a draft sends it.
	if invoice.Status == ledgerport.InvoiceStatusDraft {
		invoice.Status = ledgerport.InvoiceStatusOpen
		invoice.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))
		if err := s.store.Put(bucketInvoices, id, invoice); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store invoice")
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice ledgerport.Invoice
	if err := s.store.Get(bucketInvoices, id, &invoice); err != nil {
		writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	content := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4\n% " + invoice.Reference + "\n"))
	writeJSON(w, http.StatusOK, ledgerport.PDFRoot{PDF: ledgerport.PDFData{Content: content}})
}
