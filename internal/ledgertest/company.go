package ledgertest

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// defaultCompany is the company every fresh fake belongs to.
func defaultCompany(baseURL string) ledgerport.Company {
	return ledgerport.Company{
		URL:                        baseURL + "/company",
		Name:                       "Hartley & Vance Ltd",
		Subdomain:                  "hartleyvance",
		Type:                       ledgerport.CompanyTypeLimitedCompany,
		Currency:                   "GBP",
		AccountingBasis:            ledgerport.AccountingBasisAccrual,
		CompanyRegistrationNumber:  ledgerport.String("09876543"),
		SalesTaxRegistrationStatus: ledgerport.String("registered"),
		SalesTaxRegistrationNumber: ledgerport.String("GB123456789"),
		SalesTaxScheme:             ledgerport.SalesTaxSchemeStandard,
		SalesTaxRate:               ledgerport.DecimalString("20.0"),
	}
}

// SetCompany replaces the fake's company record.
func (s *Server) SetCompany(company ledgerport.Company) {
	if company.URL == "" {
		company.URL = s.URL + "/company"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.company = company
}

// Company returns a copy of the fake's company record.
func (s *Server) Company() ledgerport.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ledgerport.CompanyRoot{Company: s.Company()})
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.CompanyRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.Company
	updated.URL = s.URL + "/company"

	s.mu.Lock()
	s.company = updated
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ledgerport.CompanyRoot{Company: updated})
}
