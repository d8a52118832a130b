package convert

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerport/ledgerport-go/pkg/ledger"
	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// unmappedPrefix is where postings land when no mapping covers their
// nominal code, so they stand out in the journal instead of vanishing.
const unmappedPrefix = "Expenses:Unmapped:"

// Converter builds ledger transactions from Ledgerport resources.
type Converter struct {
	mapper   *Mapper
	currency string
	// bankAccounts maps bank account URLs to ledger accounts, built up by
	// RegisterBankAccount before converting explanations.
	bankAccounts map[string]string
}

// NewConverter creates a Converter. currency defaults to GBP.
func NewConverter(mapper *Mapper, currency string) *Converter {
	if currency == "" {
		currency = "GBP"
	}
	return &Converter{
		mapper:       mapper,
		currency:     currency,
		bankAccounts: make(map[string]string),
	}
}

// RegisterBankAccount teaches the converter which ledger account a bank
// account URL posts to, resolving the display name through the mapping
// file.
func (c *Converter) RegisterBankAccount(url, name string) {
	if account := c.mapper.AccountForBank(name); account != "" {
		c.bankAccounts[url] = account
	}
}

// ConvertInvoice builds the transaction recognising an invoice: the total
// debits the debtors control account, each item credits its income account,
// and the tax portion credits the VAT control account.
func (c *Converter) ConvertInvoice(inv ledgerport.Invoice) ledger.Transaction {
	var postings []ledger.Posting
	var net, tax decimal.Decimal

	for _, item := range inv.InvoiceItems {
		itemNet := dval(item.Quantity).Mul(dval(item.Price))
		itemTax := dval(item.SalesTaxValue)
		if itemTax.IsZero() && item.SalesTaxRate != nil {
			itemTax = itemNet.Mul(dval(item.SalesTaxRate)).Div(decimal.NewFromInt(100)).Round(2)
		}
		net = net.Add(itemNet)
		tax = tax.Add(itemTax)

		postings = append(postings, ledger.Posting{
			Account:  c.incomeAccount(item.Category),
			Amount:   itemNet.Neg(),
			Currency: c.currency,
			Comment:  item.Description,
		})
	}

	if !tax.IsZero() {
		postings = append(postings, ledger.Posting{
			Account:  c.mapper.SalesTaxAccount(),
			Amount:   tax.Neg(),
			Currency: c.currency,
		})
	}

	postings = append([]ledger.Posting{{
		Account:  c.mapper.DebtorsAccount(),
		Amount:   net.Add(tax),
		Currency: c.currency,
	}}, postings...)

	return ledger.Transaction{
		Date:      inv.DatedOn.String(),
		Payee:     strval(inv.ClientContactName),
		Narration: "Invoice " + inv.Reference,
		Tags:      refTags("invoice", inv.Reference),
		Metadata:  urlMetadata(inv.URL),
		Postings:  postings,
	}
}

// ConvertBill builds the transaction recognising a bill: each item debits
// its expense account, the reclaimable tax debits the VAT control account,
// and the total credits the creditors control account.
func (c *Converter) ConvertBill(bill ledgerport.Bill) ledger.Transaction {
	var postings []ledger.Posting
	var net, tax decimal.Decimal

	for _, item := range bill.BillItems {
		itemGross := dval(item.TotalValue)
		itemTax := dval(item.SalesTaxValue)
		itemNet := itemGross.Sub(itemTax)
		net = net.Add(itemNet)
		tax = tax.Add(itemTax)

		postings = append(postings, ledger.Posting{
			Account:  c.expenseAccount(item.Category),
			Amount:   itemNet,
			Currency: c.currency,
			Comment:  item.Description,
		})
	}

	if !tax.IsZero() {
		postings = append(postings, ledger.Posting{
			Account:  c.mapper.SalesTaxAccount(),
			Amount:   tax,
			Currency: c.currency,
		})
	}

	postings = append(postings, ledger.Posting{
		Account:  c.mapper.CreditorsAccount(),
		Amount:   net.Add(tax).Neg(),
		Currency: c.currency,
	})

	return ledger.Transaction{
		Date:      bill.DatedOn.String(),
		Narration: "Bill " + bill.Reference,
		Tags:      refTags("bill", bill.Reference),
		Metadata:  urlMetadata(bill.URL),
		Postings:  postings,
	}
}

// ConvertExplanation builds the transaction for an explained bank line. The
// bank posting keeps the line's sign; the contra side goes to the expense
// category, the debtors or creditors control account, or the transfer
// target.
func (c *Converter) ConvertExplanation(exp ledgerport.BankTransactionExplanation) ledger.Transaction {
	amount := dval(exp.Amount)
	gross := amount.Neg()

	tax := dval(exp.SalesTaxValue)
	if gross.IsNegative() {
		tax = tax.Neg()
	}

	var postings []ledger.Posting

	switch {
	case exp.PaidInvoice != nil:
		postings = append(postings, ledger.Posting{
			Account:  c.mapper.DebtorsAccount(),
			Amount:   gross,
			Currency: c.currency,
		})
	case exp.PaidBill != nil:
		postings = append(postings, ledger.Posting{
			Account:  c.mapper.CreditorsAccount(),
			Amount:   gross,
			Currency: c.currency,
		})
	case exp.TransferBankAccount != nil:
		postings = append(postings, ledger.Posting{
			Account:  c.bankAccount(*exp.TransferBankAccount),
			Amount:   gross,
			Currency: c.currency,
		})
	default:
		category := ""
		if exp.Category != nil {
			category = *exp.Category
		}
		postings = append(postings, ledger.Posting{
			Account:  c.expenseAccount(category),
			Amount:   gross.Sub(tax),
			Currency: c.currency,
			Comment:  exp.Description,
		})
		if !tax.IsZero() {
			postings = append(postings, ledger.Posting{
				Account:  c.mapper.SalesTaxAccount(),
				Amount:   tax,
				Currency: c.currency,
			})
		}
	}

	postings = append(postings, ledger.Posting{
		Account:  c.bankAccount(exp.BankAccount),
		Amount:   amount,
		Currency: c.currency,
	})

	narration := exp.Description
	if narration == "" {
		narration = "Bank transaction"
	}

	return ledger.Transaction{
		Date:      exp.DatedOn.String(),
		Narration: narration,
		Metadata:  urlMetadata(exp.URL),
		Postings:  postings,
	}
}

// ConvertJournalSet maps a journal set one to one: each entry's debit value
// already carries the ledger sign convention.
func (c *Converter) ConvertJournalSet(set ledgerport.JournalSet) ledger.Transaction {
	var postings []ledger.Posting
	for _, entry := range set.JournalEntries {
		postings = append(postings, ledger.Posting{
			Account:  c.expenseAccount(entry.Category),
			Amount:   dval(entry.DebitValue),
			Currency: c.currency,
			Comment:  entry.Description,
		})
	}

	narration := set.Description
	if narration == "" {
		narration = "Journal"
	}

	return ledger.Transaction{
		Date:      set.DatedOn.String(),
		Narration: narration,
		Metadata:  urlMetadata(set.URL),
		Postings:  postings,
	}
}

// incomeAccount resolves a category URL for an invoice line.
func (c *Converter) incomeAccount(categoryURL string) string {
	return c.resolveCategory(categoryURL, "Income:Unmapped")
}

// expenseAccount resolves a category URL for a bill line, explanation or
// journal entry.
func (c *Converter) expenseAccount(categoryURL string) string {
	code := ledgerport.ResourceID(categoryURL)
	return c.resolveCategory(categoryURL, unmappedPrefix+sanitizeSegment(code))
}

func (c *Converter) resolveCategory(categoryURL, fallback string) string {
	code := ledgerport.ResourceID(categoryURL)
	if code == "" {
		return fallback
	}
	return c.mapper.AccountForNominalWithFallback(code, fallback)
}

func (c *Converter) bankAccount(url string) string {
	if account := c.bankAccounts[url]; account != "" {
		return account
	}
	return "Assets:Bank:Unmapped"
}

func dval(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Decimal{}
	}
	return *p
}

func strval(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func refTags(kind, reference string) []string {
	if reference == "" {
		return nil
	}
	return []string{kind + "-" + sanitizeSegment(reference)}
}

func urlMetadata(url string) map[string]string {
	if url == "" {
		return nil
	}
	return map[string]string{"ledgerport": url}
}

// sanitizeSegment makes a reference safe for use in a tag or account name.
func sanitizeSegment(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	return strings.ReplaceAll(s, ":", "-")
}
