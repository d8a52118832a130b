package ledgertest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// SeedBankAccount stores a bank account and returns the stored copy.
func (s *Server) SeedBankAccount(account ledgerport.BankAccount) ledgerport.BankAccount {
	return s.storeBankAccount(account)
}

func (s *Server) storeBankAccount(account ledgerport.BankAccount) ledgerport.BankAccount {
	id := s.store.NextID(bucketBankAccounts)
	account.URL = s.resourceURL("bank_accounts", id)
	if account.Type == "" {
		account.Type = ledgerport.BankAccountTypeStandard
	}
	if account.Currency == "" {
		account.Currency = s.Company().Currency
	}
	now := time.Now().UTC().Truncate(time.Second)
	account.CreatedAt = ledgerport.TimePtr(now)
	account.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketBankAccounts, id, account); err != nil {
		panic(err)
	}
	return account
}

// SeedBankTransaction stores an unexplained bank transaction and returns
// the stored copy.
func (s *Server) SeedBankTransaction(txn ledgerport.BankTransaction) ledgerport.BankTransaction {
	return s.storeBankTransaction(txn)
}

func (s *Server) storeBankTransaction(txn ledgerport.BankTransaction) ledgerport.BankTransaction {
	id := s.store.NextID(bucketTransactions)
	txn.URL = s.resourceURL("bank_transactions", id)
	if txn.Status == "" {
		txn.Status = ledgerport.BankTransactionStatusUnexplained
	}
	if txn.UnexplainedAmount == nil && txn.Status == ledgerport.BankTransactionStatusUnexplained {
		txn.UnexplainedAmount = txn.Amount
	}
	now := time.Now().UTC().Truncate(time.Second)
	txn.CreatedAt = ledgerport.TimePtr(now)
	txn.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketTransactions, id, txn); err != nil {
		panic(err)
	}
	return txn
}

// SeedBankTransactionExplanation stores an explanation and returns the
// stored copy. When it names a bank transaction, that line is marked
// explained.
func (s *Server) SeedBankTransactionExplanation(exp ledgerport.BankTransactionExplanation) ledgerport.BankTransactionExplanation {
	return s.storeExplanation(exp)
}

func (s *Server) storeExplanation(exp ledgerport.BankTransactionExplanation) ledgerport.BankTransactionExplanation {
	id := s.store.NextID(bucketExplanations)
	exp.URL = s.resourceURL("bank_transaction_explanations", id)
	now := time.Now().UTC().Truncate(time.Second)
	exp.CreatedAt = ledgerport.TimePtr(now)
	exp.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketExplanations, id, exp); err != nil {
		panic(err)
	}

	if exp.BankTransaction != "" {
		s.setTransactionStatus(exp.BankTransaction, ledgerport.BankTransactionStatusExplained)
	}
	return exp
}

// setTransactionStatus updates the match state of the bank transaction at
// the given URL, if the fake holds it.
func (s *Server) setTransactionStatus(txnURL string, status ledgerport.BankTransactionStatus) {
	for _, txn := range s.allBankTransactions() {
		if txn.URL != txnURL {
			continue
		}

		txn.Status = status
		if status == ledgerport.BankTransactionStatusExplained {
			txn.UnexplainedAmount = ledgerport.Decimal(decimal.Zero)
		} else {
			txn.UnexplainedAmount = txn.Amount
		}
		txn.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

		id, err := resourceIDInt(txn.URL)
		if err != nil {
			return
		}
		_ = s.store.Put(bucketTransactions, id, txn)
		return
	}
}

func (s *Server) allBankAccounts() []ledgerport.BankAccount {
	var accounts []ledgerport.BankAccount
	for _, data := range s.store.List(bucketBankAccounts, nil) {
		var account ledgerport.BankAccount
		if json.Unmarshal(data, &account) == nil {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

func (s *Server) allBankTransactions() []ledgerport.BankTransaction {
	var txns []ledgerport.BankTransaction
	for _, data := range s.store.List(bucketTransactions, nil) {
		var txn ledgerport.BankTransaction
		if json.Unmarshal(data, &txn) == nil {
			txns = append(txns, txn)
		}
	}
	return txns
}

func (s *Server) allExplanations() []ledgerport.BankTransactionExplanation {
	var exps []ledgerport.BankTransactionExplanation
	for _, data := range s.store.List(bucketExplanations, nil) {
		var exp ledgerport.BankTransactionExplanation
		if json.Unmarshal(data, &exp) == nil {
			exps = append(exps, exp)
		}
	}
	return exps
}

func (s *Server) handleListBankAccounts(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")

	var accounts []ledgerport.BankAccount
	for _, account := range s.allBankAccounts() {
		switch view {
		case "", "all":
		case "standard_bank_accounts":
			if account.Type != ledgerport.BankAccountTypeStandard {
				continue
			}
		case "credit_card_accounts":
			if account.Type != ledgerport.BankAccountTypeCreditCard {
				continue
			}
		case "paypal_accounts":
			if account.Type != ledgerport.BankAccountTypePaypal {
				continue
			}
		}
		accounts = append(accounts, account)
	}

	start, end := pageBounds(r, len(accounts))
	writeJSON(w, http.StatusOK, ledgerport.BankAccountsRoot{BankAccounts: accounts[start:end]})
}

func (s *Server) handleCreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.BankAccountRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	account := root.BankAccount
	if account.Name == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "Name is required", "name")
		return
	}

	stored := s.storeBankAccount(account)
	writeJSON(w, http.StatusCreated, ledgerport.BankAccountRoot{BankAccount: stored})
}

func (s *Server) handleGetBankAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bank account ID")
		return
	}

	var account ledgerport.BankAccount
	if err := s.store.Get(bucketBankAccounts, id, &account); err != nil {
		writeError(w, http.StatusNotFound, "Bank account not found")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.BankAccountRoot{BankAccount: account})
}

func (s *Server) handleUpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bank account ID")
		return
	}

	var existing ledgerport.BankAccount
	if err := s.store.Get(bucketBankAccounts, id, &existing); err != nil {
		writeError(w, http.StatusNotFound, "Bank account not found")
		return
	}

	var root ledgerport.BankAccountRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.BankAccount
	updated.URL = existing.URL
	if updated.Type == "" {
		updated.Type = existing.Type
	}
	if updated.Currency == "" {
		updated.Currency = existing.Currency
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

	if err := s.store.Put(bucketBankAccounts, id, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store bank account")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.BankAccountRoot{BankAccount: updated})
}

func (s *Server) handleListBankTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	bankAccount := query.Get("bank_account")
	if bankAccount == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "Bank account is required", "bank_account")
		return
	}
	view := query.Get("view")

	var txns []ledgerport.BankTransaction
	for _, txn := range s.allBankTransactions() {
		if txn.BankAccount != bankAccount {
			continue
		}
		if !inDateRange(r, txn.DatedOn) {
			continue
		}
		switch view {
		case "", "all":
		case "unexplained":
			if txn.Status != ledgerport.BankTransactionStatusUnexplained {
				continue
			}
		case "explained":
			if txn.Status != ledgerport.BankTransactionStatusExplained {
				continue
			}
		case "marked_for_review":
			if txn.Status != ledgerport.BankTransactionStatusMarkedForReview {
				continue
			}
		}
		txns = append(txns, txn)
	}

	start, end := pageBounds(r, len(txns))
	writeJSON(w, http.StatusOK, ledgerport.BankTransactionsRoot{BankTransactions: txns[start:end]})
}

func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	bankAccount := r.URL.Query().Get("bank_account")
	if bankAccount == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "Bank account is required", "bank_account")
		return
	}

	var body struct {
		Statement []ledgerport.StatementRow `json:"statement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if len(body.Statement) == 0 {
		writeFieldError(w, http.StatusUnprocessableEntity, "Statement has no rows", "statement")
		return
	}

	// Rows whose transaction_id is already on the account are skipped, so
	// re-uploading an overlapping statement stays idempotent.
	seen := make(map[string]bool)
	for _, txn := range s.allBankTransactions() {
		if txn.BankAccount == bankAccount && txn.TransactionID != nil {
			seen[*txn.TransactionID] = true
		}
	}

	for _, row := range body.Statement {
		if row.TransactionID != nil && seen[*row.TransactionID] {
			continue
		}
		s.storeBankTransaction(ledgerport.BankTransaction{
			BankAccount:   bankAccount,
			DatedOn:       row.DatedOn,
			Amount:        ledgerport.Decimal(row.Amount),
			Description:   row.Description,
			TransactionID: row.TransactionID,
			IsManual:      ledgerport.Bool(true),
		})
		if row.TransactionID != nil {
			seen[*row.TransactionID] = true
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetBankTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bank transaction ID")
		return
	}

	var txn ledgerport.BankTransaction
	if err := s.store.Get(bucketTransactions, id, &txn); err != nil {
		writeError(w, http.StatusNotFound, "Bank transaction not found")
		return
	}

	// Single-transaction reads nest the explanations that match the line.
	for _, exp := range s.allExplanations() {
		if exp.BankTransaction == txn.URL {
			txn.Explanations = append(txn.Explanations, exp)
		}
	}

	writeJSON(w, http.StatusOK, ledgerport.BankTransactionRoot{BankTransaction: txn})
}

func (s *Server) handleDeleteBankTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bank transaction ID")
		return
	}

	var txn ledgerport.BankTransaction
	if err := s.store.Get(bucketTransactions, id, &txn); err != nil {
		writeError(w, http.StatusNotFound, "Bank transaction not found")
		return
	}
	if txn.IsManual == nil || !*txn.IsManual {
		writeError(w, http.StatusUnprocessableEntity, "Only manually uploaded transactions can be deleted")
		return
	}

	if err := s.store.Delete(bucketTransactions, id); err != nil {
		writeError(w, http.StatusNotFound, "Bank transaction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExplanations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	bankAccount := query.Get("bank_account")
	bankTransaction := query.Get("bank_transaction")

	var exps []ledgerport.BankTransactionExplanation
	for _, exp := range s.allExplanations() {
		if bankAccount != "" && exp.BankAccount != bankAccount {
			continue
		}
		if bankTransaction != "" && exp.BankTransaction != bankTransaction {
			continue
		}
		if !inDateRange(r, exp.DatedOn) {
			continue
		}
		exps = append(exps, exp)
	}

	start, end := pageBounds(r, len(exps))
	writeJSON(w, http.StatusOK, ledgerport.BankTransactionExplanationsRoot{BankTransactionExplanations: exps[start:end]})
}

func (s *Server) handleCreateExplanation(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.BankTransactionExplanationRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	exp := root.BankTransactionExplanation
	if exp.BankAccount == "" && exp.BankTransaction == "" {
		writeFieldError(w, http.StatusUnprocessableEntity,
			"Requires a bank account or a bank transaction", "bank_account")
		return
	}
	if exp.DatedOn.IsZero() {
		writeFieldError(w, http.StatusUnprocessableEntity, "Dated on is required", "dated_on")
		return
	}

	// Fill the account from the transaction when only the line is named.
	if exp.BankAccount == "" {
		for _, txn := range s.allBankTransactions() {
			if txn.URL == exp.BankTransaction {
				exp.BankAccount = txn.BankAccount
				break
			}
		}
	}

	stored := s.storeExplanation(exp)
	writeJSON(w, http.StatusCreated, ledgerport.BankTransactionExplanationRoot{BankTransactionExplanation: stored})
}

func (s *Server) handleGetExplanation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid explanation ID")
		return
	}

	var exp ledgerport.BankTransactionExplanation
	if err := s.store.Get(bucketExplanations, id, &exp); err != nil {
		writeError(w, http.StatusNotFound, "Explanation not found")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.BankTransactionExplanationRoot{BankTransactionExplanation: exp})
}

func (s *Server) handleUpdateExplanation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid explanation ID")
		return
	}

	var existing ledgerport.BankTransactionExplanation
	if err := s.store.Get(bucketExplanations, id, &existing); err != nil {
		writeError(w, http.StatusNotFound, "Explanation not found")
		return
	}

	var root ledgerport.BankTransactionExplanationRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.BankTransactionExplanation
	updated.URL = existing.URL
	if updated.BankAccount == "" {
		updated.BankAccount = existing.BankAccount
	}
	if updated.BankTransaction == "" {
		updated.BankTransaction = existing.BankTransaction
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

	if err := s.store.Put(bucketExplanations, id, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store explanation")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.BankTransactionExplanationRoot{BankTransactionExplanation: updated})
}

func (s *Server) handleDeleteExplanation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid explanation ID")
		return
	}

	var exp ledgerport.BankTransactionExplanation
	if err := s.store.Get(bucketExplanations, id, &exp); err != nil {
		writeError(w, http.StatusNotFound, "Explanation not found")
		return
	}

	if err := s.store.Delete(bucketExplanations, id); err != nil {
		writeError(w, http.StatusNotFound, "Explanation not found")
		return
	}

	// Deleting the explanation reopens the bank line.
	if exp.BankTransaction != "" {
		s.setTransactionStatus(exp.BankTransaction, ledgerport.BankTransactionStatusUnexplained)
	}

	w.WriteHeader(http.StatusNoContent)
}

// resourceIDInt parses the numeric ID at the end of a resource URL.
func resourceIDInt(url string) (int64, error) {
	return strconv.ParseInt(ledgerport.ResourceID(url), 10, 64)
}
