// Package convert turns Ledgerport resources into ledger transactions using
// a YAML chart-of-accounts mapping.
package convert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default control accounts used when the mapping file does not name them.
const (
	defaultDebtorsAccount   = "Assets:Receivable"
	defaultCreditorsAccount = "Liabilities:Payable"
	defaultSalesTaxAccount  = "Liabilities:VAT"
)

// AccountMapping links one nominal code to a ledger account.
type AccountMapping struct {
	NominalCode string `yaml:"nominal_code"`
	Account     string `yaml:"account"`
}

// BankAccountMapping links a Ledgerport bank account, by its display name,
// to a ledger account.
type BankAccountMapping struct {
	Name    string `yaml:"name"`
	Account string `yaml:"account"`
}

// MappingConfig is the account mapping file. Sections mirror the reporting
// groups of the chart of accounts; the control section names the summary
// accounts invoices and bills post against.
type MappingConfig struct {
	Income        []AccountMapping     `yaml:"income"`
	CostOfSales   []AccountMapping     `yaml:"cost_of_sales"`
	AdminExpenses []AccountMapping     `yaml:"admin_expenses"`
	CurrentAssets []AccountMapping     `yaml:"current_assets"`
	Liabilities   []AccountMapping     `yaml:"liabilities"`
	Equity        []AccountMapping     `yaml:"equity"`
	BankAccounts  []BankAccountMapping `yaml:"bank_accounts"`
	Control       struct {
		Debtors   string `yaml:"debtors"`
		Creditors string `yaml:"creditors"`
		SalesTax  string `yaml:"sales_tax"`
	} `yaml:"control"`
}

// Mapper resolves nominal codes and bank account names to ledger accounts.
type Mapper struct {
	config     MappingConfig
	byNominal  map[string]string
	bankByName map[string]string
}

// NewMapper loads a mapping from a YAML file.
func NewMapper(configPath string) (*Mapper, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping builds a Mapper from YAML mapping content.
func ParseMapping(data []byte) (*Mapper, error) {
	var config MappingConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	m := &Mapper{
		config:     config,
		byNominal:  make(map[string]string),
		bankByName: make(map[string]string),
	}
	m.buildIndexes()
	return m, nil
}

func (m *Mapper) buildIndexes() {
	sections := [][]AccountMapping{
		m.config.Income,
		m.config.CostOfSales,
		m.config.AdminExpenses,
		m.config.CurrentAssets,
		m.config.Liabilities,
		m.config.Equity,
	}
	for _, section := range sections {
		for _, mapping := range section {
			m.byNominal[mapping.NominalCode] = mapping.Account
		}
	}
	for _, bank := range m.config.BankAccounts {
		m.bankByName[bank.Name] = bank.Account
	}
}

// AccountForNominal returns the ledger account mapped to a nominal code, or
// "" when unmapped.
func (m *Mapper) AccountForNominal(code string) string {
	return m.byNominal[code]
}

// AccountForNominalWithFallback returns the mapped account, or fallback
// when the code is unmapped.
func (m *Mapper) AccountForNominalWithFallback(code, fallback string) string {
	if account := m.byNominal[code]; account != "" {
		return account
	}
	return fallback
}

// AccountForBank returns the ledger account for a bank account's display
// name, or "" when unmapped.
func (m *Mapper) AccountForBank(name string) string {
	return m.bankByName[name]
}

// HasNominal reports whether a nominal code is mapped.
func (m *Mapper) HasNominal(code string) bool {
	_, ok := m.byNominal[code]
	return ok
}

// DebtorsAccount is the account invoice totals debit until they are paid.
func (m *Mapper) DebtorsAccount() string {
	if m.config.Control.Debtors != "" {
		return m.config.Control.Debtors
	}
	return defaultDebtorsAccount
}

// CreditorsAccount is the account bill totals credit until they are paid.
func (m *Mapper) CreditorsAccount() string {
	if m.config.Control.Creditors != "" {
		return m.config.Control.Creditors
	}
	return defaultCreditorsAccount
}

// SalesTaxAccount is the VAT control account.
func (m *Mapper) SalesTaxAccount() string {
	if m.config.Control.SalesTax != "" {
		return m.config.Control.SalesTax
	}
	return defaultSalesTaxAccount
}

// Mappings returns a copy of the nominal code index, for reporting unmapped
// codes.
func (m *Mapper) Mappings() map[string]string {
	result := make(map[string]string, len(m.byNominal))
	for k, v := range m.byNominal {
		result[k] = v
	}
	return result
}
