package ledgerport_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerport/ledgerport-go/internal/ledgertest"
	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

func newTestClient(t *testing.T) (*ledgerport.Client, *ledgertest.Server) {
	t.Helper()

	srv := ledgertest.New()
	t.Cleanup(srv.Close)

	client := ledgerport.NewClient(ledgerport.ClientConfig{
		BaseURL:     srv.URL,
		AccessToken: srv.Token,
		Timeout:     5 * time.Second,
	})
	return client, srv
}

func TestClientRejectsBadToken(t *testing.T) {
	srv := ledgertest.New()
	t.Cleanup(srv.Close)

	client := ledgerport.NewClient(ledgerport.ClientConfig{
		BaseURL:     srv.URL,
		AccessToken: "wrong-token",
	})

	_, err := client.GetCompany(context.Background())
	require.Error(t, err, "GetCompany should fail with a bad token")

	var apiErr *ledgerport.APIError
	require.ErrorAs(t, err, &apiErr, "error should be an APIError")
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Invalid access token")
}

func TestGetCompany(t *testing.T) {
	client, _ := newTestClient(t)

	company, err := client.GetCompany(context.Background())
	require.NoError(t, err, "GetCompany should succeed")

	assert.Equal(t, "Hartley & Vance Ltd", company.Name)
	assert.Equal(t, "GBP", company.Currency)
	assert.NotEmpty(t, company.URL, "company should carry its resource URL")
}

func TestContactLifecycle(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateContact(ctx, &ledgerport.Contact{
		OrganisationName: ledgerport.String("Acme Supplies Ltd"),
		Email:            ledgerport.String("accounts@acmesupplies.example"),
	})
	require.NoError(t, err, "CreateContact should succeed")
	require.NotEmpty(t, created.URL, "created contact should carry its URL")
	assert.Equal(t, ledgerport.ContactStatusActive, created.Status, "new contacts default to active")
	assert.NotNil(t, created.CreatedAt)

	id := ledgerport.ResourceID(created.URL)

	fetched, err := client.GetContact(ctx, id)
	require.NoError(t, err, "GetContact should succeed")
	assert.Equal(t, created.URL, fetched.URL)
	assert.Equal(t, "Acme Supplies Ltd", *fetched.OrganisationName)

	fetched.PhoneNumber = ledgerport.String("0113 496 0000")
	updated, err := client.UpdateContact(ctx, id, fetched)
	require.NoError(t, err, "UpdateContact should succeed")
	assert.Equal(t, "0113 496 0000", *updated.PhoneNumber)
	assert.Equal(t, created.URL, updated.URL, "update must not change the resource URL")

	contacts, err := client.FetchAllContacts(ctx, nil)
	require.NoError(t, err, "FetchAllContacts should succeed")
	assert.Len(t, contacts, 1)

	require.NoError(t, client.DeleteContact(ctx, id), "DeleteContact should succeed")

	_, err = client.GetContact(ctx, id)
	require.Error(t, err, "GetContact should fail after delete")
	assert.True(t, ledgerport.IsNotFound(err), "error should report not found, got: %v", err)
}

func TestCreateContactRequiresAName(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.CreateContact(context.Background(), &ledgerport.Contact{
		Email: ledgerport.String("anonymous@example.com"),
	})
	require.Error(t, err, "CreateContact should fail without any name")

	var apiErr *ledgerport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
	require.NotNil(t, apiErr.Errors[0].Field, "validation error should name the field")
	assert.Equal(t, "organisation_name", *apiErr.Errors[0].Field)
}

func TestInvoiceLifecycle(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	contact := srv.SeedContact(ledgerport.Contact{
		OrganisationName: ledgerport.String("Acme Supplies Ltd"),
	})

	created, err := client.CreateInvoice(ctx, &ledgerport.Invoice{
		Contact:   contact.URL,
		DatedOn:   ledgerport.NewDate(2024, 3, 1),
		Reference: "INV-2024-001",
		InvoiceItems: []ledgerport.InvoiceItem{{
			ItemType:     ledgerport.ItemTypeDays,
			Quantity:     ledgerport.DecimalString("2"),
			Price:        ledgerport.DecimalString("300"),
			Description:  "Consultancy",
			Category:     srv.CategoryURL("002"),
			SalesTaxRate: ledgerport.DecimalString("20"),
		}},
	})
	require.NoError(t, err, "CreateInvoice should succeed")
	require.NotEmpty(t, created.URL)
	id := ledgerport.ResourceID(created.URL)

	assert.Equal(t, ledgerport.InvoiceStatusDraft, created.Status, "new invoices start as drafts")
	require.NotNil(t, created.TotalValue)
	assert.Equal(t, "720", created.TotalValue.String(), "total should be net 600 plus 20%% tax")
	assert.Equal(t, "600", created.NetValue.String())
	assert.Equal(t, "120", created.SalesTaxValue.String())

	t.Run("draft cannot be cancelled", func(t *testing.T) {
		err := client.MarkInvoiceAsCancelled(ctx, id)
		require.Error(t, err)
		var apiErr *ledgerport.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	})

	t.Run("mark as sent opens the invoice", func(t *testing.T) {
		require.NoError(t, client.MarkInvoiceAsSent(ctx, id))

		inv, err := client.GetInvoice(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, ledgerport.InvoiceStatusOpen, inv.Status)
	})

	t.Run("open invoices cannot be updated", func(t *testing.T) {
		_, err := client.UpdateInvoice(ctx, id, &ledgerport.Invoice{
			Contact:   contact.URL,
			DatedOn:   ledgerport.NewDate(2024, 3, 2),
			Reference: "INV-2024-001r",
		})
		require.Error(t, err, "UpdateInvoice should fail for an open invoice")
		var apiErr *ledgerport.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "draft")
	})

	t.Run("pdf rendering", func(t *testing.T) {
		pdf, err := client.GetInvoicePDF(ctx, id)
		require.NoError(t, err, "GetInvoicePDF should succeed")

		raw, err := base64.StdEncoding.DecodeString(pdf.Content)
		require.NoError(t, err, "PDF content should be base64")
		assert.True(t, strings.HasPrefix(string(raw), "%PDF"), "decoded content should be a PDF")
	})

	t.Run("back to draft and delete", func(t *testing.T) {
		require.NoError(t, client.MarkInvoiceAsDraft(ctx, id))
		require.NoError(t, client.DeleteInvoice(ctx, id))

		_, err := client.GetInvoice(ctx, id)
		assert.True(t, ledgerport.IsNotFound(err), "invoice should be gone, got: %v", err)
	})
}

func TestCreateInvoiceValidation(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	contact := srv.SeedContact(ledgerport.Contact{
		OrganisationName: ledgerport.String("Acme Supplies Ltd"),
	})

	tests := []struct {
		name    string
		invoice ledgerport.Invoice
		field   string
	}{
		{
			"missing contact",
			ledgerport.Invoice{DatedOn: ledgerport.NewDate(2024, 3, 1)},
			"contact",
		},
		{
			"missing dated_on",
			ledgerport.Invoice{Contact: contact.URL},
			"dated_on",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateInvoice(ctx, &tt.invoice)
			require.Error(t, err)

			var apiErr *ledgerport.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
			require.Len(t, apiErr.Errors, 1)
			require.NotNil(t, apiErr.Errors[0].Field)
			assert.Equal(t, tt.field, *apiErr.Errors[0].Field)
		})
	}
}

func TestEmailInvoiceOpensDraft(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	contact := srv.SeedContact(ledgerport.Contact{
		OrganisationName: ledgerport.String("Acme Supplies Ltd"),
	})
	invoice := srv.SeedInvoice(ledgerport.Invoice{
		Contact:   contact.URL,
		DatedOn:   ledgerport.NewDate(2024, 3, 1),
		Reference: "INV-2024-003",
	})
	id := ledgerport.ResourceID(invoice.URL)

	err := client.EmailInvoice(ctx, id, ledgerport.EmailDetails{
		To:      "accounts@acmesupplies.example",
		Subject: "Invoice INV-2024-003",
		Body:    "Please find your invoice attached.",
	})
	require.NoError(t, err, "EmailInvoice should succeed")

	sent, err := client.GetInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ledgerport.InvoiceStatusOpen, sent.Status, "emailing a draft should open it")
}

func TestFetchAllInvoicesPaginates(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	contact := srv.SeedContact(ledgerport.Contact{
		OrganisationName: ledgerport.String("Acme Supplies Ltd"),
	})

	// Three pages at the fetch-all page size of 100.
	const total = 230
	for i := 0; i < total; i++ {
		srv.SeedInvoice(ledgerport.Invoice{
			Contact:   contact.URL,
			DatedOn:   ledgerport.NewDate(2024, time.January, 1+i%28),
			Reference: fmt.Sprintf("INV-%03d", i+1),
		})
	}

	all, err := client.FetchAllInvoices(ctx, nil)
	require.NoError(t, err, "FetchAllInvoices should succeed")
	assert.Len(t, all, total, "every page should be collected")

	// A plain list honours the service default of 25 per page.
	page, err := client.ListInvoices(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, page, 25)
}

func TestListInvoicesByDateRange(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	contact := srv.SeedContact(ledgerport.Contact{
		OrganisationName: ledgerport.String("Acme Supplies Ltd"),
	})
	for month := time.January; month <= time.March; month++ {
		srv.SeedInvoice(ledgerport.Invoice{
			Contact:   contact.URL,
			DatedOn:   ledgerport.NewDate(2024, month, 15),
			Reference: fmt.Sprintf("INV-%s", month),
		})
	}

	invoices, err := client.FetchAllInvoices(ctx, &ledgerport.ListInvoicesOptions{
		FromDate: ledgerport.DatePtr(ledgerport.NewDate(2024, 2, 1)),
		ToDate:   ledgerport.DatePtr(ledgerport.NewDate(2024, 2, 29)),
	})
	require.NoError(t, err)
	require.Len(t, invoices, 1, "only the February invoice falls in the window")
	assert.Equal(t, "2024-02-15", invoices[0].DatedOn.String())
}

func TestCategories(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	root, err := client.ListCategories(ctx, nil)
	require.NoError(t, err, "ListCategories should succeed")

	assert.NotEmpty(t, root.IncomeCategories)
	assert.NotEmpty(t, root.AdminExpensesCategories)

	all := root.All()
	assert.Len(t, all, len(root.IncomeCategories)+len(root.CostOfSalesCategories)+
		len(root.AdminExpensesCategories)+len(root.GeneralCategories))

	category, err := client.GetCategory(ctx, "285")
	require.NoError(t, err, "GetCategory should succeed")
	assert.Equal(t, "285", category.NominalCode)
	assert.Equal(t, "Computer Software", category.Description)

	_, err = client.GetCategory(ctx, "999")
	assert.True(t, ledgerport.IsNotFound(err), "unknown nominal code should be not found")
}

func TestStatementUploadIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	account, err := client.CreateBankAccount(ctx, &ledgerport.BankAccount{
		Name: "Current Account",
	})
	require.NoError(t, err, "CreateBankAccount should succeed")

	rows := []ledgerport.StatementRow{
		{DatedOn: ledgerport.NewDate(2024, 4, 1), Amount: *ledgerport.DecimalString("-42.5"), Description: "Stationery", TransactionID: ledgerport.String("ft-001")},
		{DatedOn: ledgerport.NewDate(2024, 4, 2), Amount: *ledgerport.DecimalString("1200"), Description: "Client payment", TransactionID: ledgerport.String("ft-002")},
		{DatedOn: ledgerport.NewDate(2024, 4, 3), Amount: *ledgerport.DecimalString("-9.99"), Description: "Hosting", TransactionID: ledgerport.String("ft-003")},
	}
	require.NoError(t, client.UploadBankStatement(ctx, account.URL, rows), "first upload should succeed")

	txns, err := client.FetchAllBankTransactions(ctx, &ledgerport.ListBankTransactionsOptions{
		BankAccount: account.URL,
	})
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, ledgerport.BankTransactionStatusUnexplained, txns[0].Status)

	// Re-uploading an overlapping statement must not duplicate lines.
	rows = append(rows, ledgerport.StatementRow{
		DatedOn: ledgerport.NewDate(2024, 4, 4), Amount: *ledgerport.DecimalString("-15"),
		Description: "Domain renewal", TransactionID: ledgerport.String("ft-004"),
	})
	require.NoError(t, client.UploadBankStatement(ctx, account.URL, rows), "second upload should succeed")

	txns, err = client.FetchAllBankTransactions(ctx, &ledgerport.ListBankTransactionsOptions{
		BankAccount: account.URL,
	})
	require.NoError(t, err)
	assert.Len(t, txns, 4, "only the genuinely new row should be added")
}

func TestListBankTransactionsRequiresAccount(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ListBankTransactions(context.Background(), nil)
	require.Error(t, err, "listing without a bank account should fail")

	var apiErr *ledgerport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestExplanationLifecycle(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	account := srv.SeedBankAccount(ledgerport.BankAccount{Name: "Current Account"})
	txn := srv.SeedBankTransaction(ledgerport.BankTransaction{
		BankAccount: account.URL,
		DatedOn:     ledgerport.NewDate(2024, 4, 2),
		Amount:      ledgerport.DecimalString("-120.5"),
		Description: "CARD 1234 OFFICE SUPPLIES",
	})
	txnID := ledgerport.ResourceID(txn.URL)

	created, err := client.CreateBankTransactionExplanation(ctx, &ledgerport.BankTransactionExplanation{
		BankTransaction: txn.URL,
		DatedOn:         ledgerport.NewDate(2024, 4, 2),
		Amount:          ledgerport.DecimalString("-120.5"),
		Category:        ledgerport.String(srv.CategoryURL("255")),
		Description:     "Office supplies",
	})
	require.NoError(t, err, "CreateBankTransactionExplanation should succeed")
	assert.Equal(t, account.URL, created.BankAccount, "explanation should inherit the transaction's account")

	explained, err := client.GetBankTransaction(ctx, txnID)
	require.NoError(t, err)
	assert.Equal(t, ledgerport.BankTransactionStatusExplained, explained.Status)
	require.NotNil(t, explained.UnexplainedAmount)
	assert.True(t, explained.UnexplainedAmount.IsZero(), "explained line should have no unexplained amount")
	require.Len(t, explained.Explanations, 1, "single reads nest the matching explanations")
	assert.Equal(t, created.URL, explained.Explanations[0].URL)

	require.NoError(t, client.DeleteBankTransactionExplanation(ctx, ledgerport.ResourceID(created.URL)))

	reopened, err := client.GetBankTransaction(ctx, txnID)
	require.NoError(t, err)
	assert.Equal(t, ledgerport.BankTransactionStatusUnexplained, reopened.Status, "deleting the explanation reopens the line")
	require.NotNil(t, reopened.UnexplainedAmount)
	assert.Equal(t, "-120.5", reopened.UnexplainedAmount.String())
}

func TestJournalSetMustBalance(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	_, err := client.CreateJournalSet(ctx, &ledgerport.JournalSet{
		DatedOn:     ledgerport.NewDate(2024, 3, 31),
		Description: "Accrual",
		JournalEntries: []ledgerport.JournalEntry{
			{Category: srv.CategoryURL("210"), DebitValue: ledgerport.DecimalString("500")},
			{Category: srv.CategoryURL("750"), DebitValue: ledgerport.DecimalString("-400")},
		},
	})
	require.Error(t, err, "an unbalanced journal set should be rejected")

	var apiErr *ledgerport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
	require.NotNil(t, apiErr.Errors[0].Field)
	assert.Equal(t, "journal_entries", *apiErr.Errors[0].Field)

	created, err := client.CreateJournalSet(ctx, &ledgerport.JournalSet{
		DatedOn:     ledgerport.NewDate(2024, 3, 31),
		Description: "Accrual",
		JournalEntries: []ledgerport.JournalEntry{
			{Category: srv.CategoryURL("210"), DebitValue: ledgerport.DecimalString("500")},
			{Category: srv.CategoryURL("750"), DebitValue: ledgerport.DecimalString("-500")},
		},
	})
	require.NoError(t, err, "a balanced journal set should be accepted")
	assert.NotEmpty(t, created.URL)

	sets, err := client.FetchAllJournalSets(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestRequestHeaders(t *testing.T) {
	type seen struct {
		method        string
		authorization string
		userAgent     string
		accept        string
		contentType   string
		requestID     string
	}
	var requests []seen

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, seen{
			method:        r.Method,
			authorization: r.Header.Get("Authorization"),
			userAgent:     r.Header.Get("User-Agent"),
			accept:        r.Header.Get("Accept"),
			contentType:   r.Header.Get("Content-Type"),
			requestID:     r.Header.Get("X-Request-Id"),
		})
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"contact":{"url":"http://example.com/contacts/1"}}`)
	}))
	t.Cleanup(srv.Close)

	client := ledgerport.NewClient(ledgerport.ClientConfig{
		BaseURL:     srv.URL,
		AccessToken: "token-123",
	})
	ctx := context.Background()

	_, err := client.GetContact(ctx, "1")
	require.NoError(t, err)
	_, err = client.CreateContact(ctx, &ledgerport.Contact{OrganisationName: ledgerport.String("A")})
	require.NoError(t, err)

	require.Len(t, requests, 2)

	get, post := requests[0], requests[1]
	assert.Equal(t, "Bearer token-123", get.authorization)
	assert.Equal(t, "ledgerport-go", get.userAgent)
	assert.Equal(t, "application/json", get.accept)
	assert.Empty(t, get.requestID, "reads carry no request ID")

	assert.Equal(t, http.MethodPost, post.method)
	assert.Equal(t, "application/json", post.contentType)
	assert.NotEmpty(t, post.requestID, "writes carry a request ID for deduplication")
}
