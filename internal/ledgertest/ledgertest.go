// Package ledgertest provides an in-memory fake of the Ledgerport API for
// tests. It serves the same root envelopes, error envelope and pagination
// behaviour as the real service, and mints absolute resource URLs under its
// own base URL so cross-references resolve against the fake.
package ledgertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// Server is a fake Ledgerport API backed by an in-memory store.
type Server struct {
	// URL is the fake's base URL, for ledgerport.ClientConfig.BaseURL.
	URL string
	// Token is the bearer token the fake accepts.
	Token string

	store      *Store
	httpServer *httptest.Server

	mu         sync.Mutex
	company    ledgerport.Company
	categories ledgerport.CategoriesRoot
}

// New starts a fake Ledgerport API on a local listener. Callers must Close
// it when done.
func New() *Server {
	s := &Server{
		Token: uuid.NewString(),
		store: NewStore(),
	}

	r := chi.NewRouter()
	r.Use(s.auth)

	r.Get("/company", s.handleGetCompany)
	r.Put("/company", s.handleUpdateCompany)

	r.Get("/categories", s.handleListCategories)
	r.Get("/categories/{code}", s.handleGetCategory)

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", s.handleListContacts)
		r.Post("/", s.handleCreateContact)
		r.Get("/{id}", s.handleGetContact)
		r.Put("/{id}", s.handleUpdateContact)
		r.Delete("/{id}", s.handleDeleteContact)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", s.handleListInvoices)
		r.Post("/", s.handleCreateInvoice)
		r.Get("/{id}", s.handleGetInvoice)
		r.Put("/{id}", s.handleUpdateInvoice)
		r.Delete("/{id}", s.handleDeleteInvoice)
		r.Put("/{id}/transitions/{transition}", s.handleInvoiceTransition)
		r.Post("/{id}/send_email", s.handleEmailInvoice)
		r.Get("/{id}/pdf", s.handleInvoicePDF)
	})

	r.Route("/bills", func(r chi.Router) {
		r.Get("/", s.handleListBills)
		r.Post("/", s.handleCreateBill)
		r.Get("/{id}", s.handleGetBill)
		r.Put("/{id}", s.handleUpdateBill)
		r.Delete("/{id}", s.handleDeleteBill)
	})

	r.Route("/bank_accounts", func(r chi.Router) {
		r.Get("/", s.handleListBankAccounts)
		r.Post("/", s.handleCreateBankAccount)
		r.Get("/{id}", s.handleGetBankAccount)
		r.Put("/{id}", s.handleUpdateBankAccount)
	})

	r.Route("/bank_transactions", func(r chi.Router) {
		r.Get("/", s.handleListBankTransactions)
		r.Post("/statement", s.handleUploadStatement)
		r.Get("/{id}", s.handleGetBankTransaction)
		r.Delete("/{id}", s.handleDeleteBankTransaction)
	})

	r.Route("/bank_transaction_explanations", func(r chi.Router) {
		r.Get("/", s.handleListExplanations)
		r.Post("/", s.handleCreateExplanation)
		r.Get("/{id}", s.handleGetExplanation)
		r.Put("/{id}", s.handleUpdateExplanation)
		r.Delete("/{id}", s.handleDeleteExplanation)
	})

	r.Route("/journal_sets", func(r chi.Router) {
		r.Get("/", s.handleListJournalSets)
		r.Post("/", s.handleCreateJournalSet)
		r.Get("/{id}", s.handleGetJournalSet)
		r.Put("/{id}", s.handleUpdateJournalSet)
		r.Delete("/{id}", s.handleDeleteJournalSet)
	})

	s.httpServer = httptest.NewServer(r)
	s.URL = s.httpServer.URL
	s.company = defaultCompany(s.URL)
	s.categories = defaultCategories(s.URL)
	return s
}

// Close shuts the fake down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// auth validates the bearer token on every request.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] != s.Token {
			writeError(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resourceURL mints the absolute URL the service would assign a resource.
func (s *Server) resourceURL(resource string, id int64) string {
	return fmt.Sprintf("%s/%s/%d", s.URL, resource, id)
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes the service's error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ledgerport.ErrorsRoot{
		Errors: []ledgerport.ErrorDetail{{Message: message}},
	})
}

// writeFieldError writes the error envelope with the offending field named.
func writeFieldError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, ledgerport.ErrorsRoot{
		Errors: []ledgerport.ErrorDetail{{Message: message, Field: ledgerport.String(field)}},
	})
}

// pageBounds applies page/per_page to a result set of the given size,
// using the service defaults of page 1 and 25 items.
func pageBounds(r *http.Request, total int) (int, int) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", 25)
	if perPage < 1 {
		perPage = 25
	}
	if perPage > 100 {
		perPage = 100
	}

	start := (page - 1) * perPage
	if start >= total {
		return total, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}

func queryInt(r *http.Request, key string, def int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

// inDateRange applies the from_date/to_date query window to a resource date.
func inDateRange(r *http.Request, d ledgerport.Date) bool {
	if from := r.URL.Query().Get("from_date"); from != "" {
		fromDate, err := ledgerport.ParseDate(from)
		if err == nil && d.Before(fromDate.Time) {
			return false
		}
	}
	if to := r.URL.Query().Get("to_date"); to != "" {
		toDate, err := ledgerport.ParseDate(to)
		if err == nil && d.After(toDate.Time) {
			return false
		}
	}
	return true
}
