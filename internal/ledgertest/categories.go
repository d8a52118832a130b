package ledgertest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// defaultCategories is a small chart of accounts covering each reporting
// group, with nominal codes inside the ranges the service reserves for them.
func defaultCategories(baseURL string) ledgerport.CategoriesRoot {
	category := func(code, description, group string) ledgerport.Category {
		return ledgerport.Category{
			URL:              baseURL + "/categories/" + code,
			NominalCode:      code,
			Description:      description,
			GroupDescription: ledgerport.String(group),
			AllowableForTax:  ledgerport.Bool(true),
		}
	}

	return ledgerport.CategoriesRoot{
		IncomeCategories: []ledgerport.Category{
			category("001", "Sales", "Income"),
			category("002", "Consultancy", "Income"),
			category("003", "Commission", "Income"),
		},
		CostOfSalesCategories: []ledgerport.Category{
			category("101", "Purchases", "Cost of Sales"),
			category("102", "Subcontractor Costs", "Cost of Sales"),
		},
		AdminExpensesCategories: []ledgerport.Category{
			category("201", "Rent", "Admin Expenses"),
			category("205", "Computer Hardware", "Admin Expenses"),
			category("210", "Accountancy Fees", "Admin Expenses"),
			category("255", "Travel", "Admin Expenses"),
			category("285", "Computer Software", "Admin Expenses"),
			category("365", "Insurance", "Admin Expenses"),
		},
		GeneralCategories: []ledgerport.Category{
			category("601", "Stock", "Current Assets"),
			category("680", "Corporation Tax", "Liabilities"),
			category("750", "VAT", "Liabilities"),
			category("900", "Share Capital", "Capital and Reserves"),
		},
	}
}

// SetCategories replaces the fake's chart of accounts.
func (s *Server) SetCategories(categories ledgerport.CategoriesRoot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

// CategoryURL returns the URL the fake serves a nominal code under, for use
// as a category cross-reference in seeded resources.
func (s *Server) CategoryURL(nominalCode string) string {
	return s.URL + "/categories/" + nominalCode
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	categories := s.categories
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	s.mu.Lock()
	categories := s.categories
	s.mu.Unlock()

	for _, category := range categories.All() {
		if category.NominalCode == code {
			writeJSON(w, http.StatusOK, ledgerport.CategoryRoot{Category: category})
			return
		}
	}

	writeError(w, http.StatusNotFound, "Category not found")
}
