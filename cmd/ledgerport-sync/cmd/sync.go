package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/ledgerport/ledgerport-go/pkg/config"
	"github.com/ledgerport/ledgerport-go/pkg/convert"
	"github.com/ledgerport/ledgerport-go/pkg/db"
	"github.com/ledgerport/ledgerport-go/pkg/ledger"
	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
	"github.com/ledgerport/ledgerport-go/pkg/pathutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	dateFrom    string
	dateTo      string
	dryRun      bool
	mappingFile string
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Ledgerport transactions to ledger files",
	Long: `Sync transactions from the Ledgerport Accounting API to ledger files.

This command:
1. Fetches invoices, bills, bank transaction explanations and journal sets
2. Filters out already synced items
3. Converts them to double-entry ledger transactions
4. Appends to monthly ledger files
5. Records sync history in SQLite

Example:
  ledgerport-sync sync --from 2026-01-01 --to 2026-01-31
  ledgerport-sync sync --from 2026-01-01 --to 2026-01-31 --dry-run`,
	Run: runSync,
}

func init() {
	// Flags
	syncCmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD) (required)")
	syncCmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD) (required)")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (no file writes)")
	syncCmd.Flags().StringVar(&mappingFile, "mapping", filepath.Join("config", "account-mapping.yaml"), "Account mapping file")

	syncCmd.MarkFlagRequired("from")
	syncCmd.MarkFlagRequired("to")
}

func runSync(cmd *cobra.Command, args []string) {
	slog.Info("Starting sync", "from", dateFrom, "to", dateTo, "dry_run", dryRun)

	ctx := cmd.Context()

	// Validate the window before touching the API.
	fromDate, err := ledgerport.ParseDate(dateFrom)
	exitOnError(err, "invalid --from date")
	toDate, err := ledgerport.ParseDate(dateTo)
	exitOnError(err, "invalid --to date")

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate(
		[]string{"ledgerport", "apiUrl"},
		[]string{"ledgerport", "accessToken"},
		[]string{"ledger", "root"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	// Initialize components
	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:     cfg.Ledger.Root,
		DatabasePath:   cfg.Ledger.DBPath,
		AttachmentsDir: cfg.Ledger.AttachmentsDir,
	})

	// Open database
	dbPath := pathResolver.DatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	syncHistory := db.NewSyncHistory(conn)

	// Initialize Ledgerport API client
	client := ledgerport.NewClient(ledgerport.ClientConfig{
		BaseURL:     cfg.Ledgerport.APIURL,
		AccessToken: cfg.Ledgerport.AccessToken,
		Timeout:     30 * time.Second,
	})

	// Initialize account mapper
	mapper, err := convert.NewMapper(mappingFile)
	exitOnError(err, "failed to load account mapping")

	// The company's native currency drives every posting.
	company, err := client.GetCompany(ctx)
	exitOnError(err, "failed to fetch company")
	slog.Info("Syncing company", "name", company.Name, "currency", company.Currency)

	cvtr := convert.NewConverter(mapper, company.Currency)

	// Initialize ledger repository
	ledgerRepo := ledger.NewFileSystemRepository(pathResolver)

	// Bank accounts feed the converter's account lookup and scope the
	// explanation fetches.
	bankAccounts, err := client.ListBankAccounts(ctx, nil)
	exitOnError(err, "failed to fetch bank accounts")
	for _, account := range bankAccounts {
		cvtr.RegisterBankAccount(account.URL, account.Name)
	}

	// Fetch invoices
	slog.Info("Fetching invoices", "from", dateFrom, "to", dateTo)
	allInvoices, err := client.FetchAllInvoices(ctx, &ledgerport.ListInvoicesOptions{
		NestedInvoiceItems: true,
		FromDate:           &fromDate,
		ToDate:             &toDate,
	})
	exitOnError(err, "failed to fetch invoices")
	slog.Info("Fetched invoices", "count", len(allInvoices))

	// Fetch bills
	slog.Info("Fetching bills", "from", dateFrom, "to", dateTo)
	allBills, err := client.FetchAllBills(ctx, &ledgerport.ListBillsOptions{
		FromDate: &fromDate,
		ToDate:   &toDate,
	})
	exitOnError(err, "failed to fetch bills")
	slog.Info("Fetched bills", "count", len(allBills))

	// Fetch explained bank transactions, one bank account at a time
	slog.Info("Fetching bank transaction explanations", "accounts", len(bankAccounts))
	var allExplanations []ledgerport.BankTransactionExplanation
	for _, account := range bankAccounts {
		explanations, err := client.FetchAllBankTransactionExplanations(ctx, &ledgerport.ListBankTransactionExplanationsOptions{
			BankAccount: account.URL,
			FromDate:    &fromDate,
			ToDate:      &toDate,
		})
		exitOnError(err, "failed to fetch bank transaction explanations")
		allExplanations = append(allExplanations, explanations...)
	}
	slog.Info("Fetched explanations", "count", len(allExplanations))

	// Fetch journal sets
	slog.Info("Fetching journal sets", "from", dateFrom, "to", dateTo)
	allJournalSets, err := client.FetchAllJournalSets(ctx, &ledgerport.ListJournalSetsOptions{
		FromDate: &fromDate,
		ToDate:   &toDate,
	})
	exitOnError(err, "failed to fetch journal sets")
	slog.Info("Fetched journal sets", "count", len(allJournalSets))

	// Filter out already synced items
	slog.Info("Checking for already synced items")
	syncedInvoiceURLs, err := syncHistory.GetSyncedURLs(db.SyncTypeInvoice)
	exitOnError(err, "failed to get synced invoice URLs")

	syncedBillURLs, err := syncHistory.GetSyncedURLs(db.SyncTypeBill)
	exitOnError(err, "failed to get synced bill URLs")

	syncedExplanationURLs, err := syncHistory.GetSyncedURLs(db.SyncTypeBankTransaction)
	exitOnError(err, "failed to get synced bank transaction URLs")

	syncedJournalURLs, err := syncHistory.GetSyncedURLs(db.SyncTypeJournalSet)
	exitOnError(err, "failed to get synced journal set URLs")

	newInvoices := filterInvoices(allInvoices, syncedInvoiceURLs)
	newBills := filterBills(allBills, syncedBillURLs)
	newExplanations := filterExplanations(allExplanations, syncedExplanationURLs)
	newJournalSets := filterJournalSets(allJournalSets, syncedJournalURLs)

	total := len(allInvoices) + len(allBills) + len(allExplanations) + len(allJournalSets)
	newTotal := len(newInvoices) + len(newBills) + len(newExplanations) + len(newJournalSets)

	slog.Info("New items to sync",
		"invoices", len(newInvoices),
		"bills", len(newBills),
		"bank_transactions", len(newExplanations),
		"journal_sets", len(newJournalSets),
		"skipped", total-newTotal,
	)

	if newTotal == 0 {
		fmt.Println("No new items to sync")
		return
	}

	// Group by month
	batches := make(map[string]*monthBatch)
	for _, inv := range newInvoices {
		b := batchFor(batches, inv.DatedOn)
		b.invoices = append(b.invoices, inv)
	}
	for _, bill := range newBills {
		b := batchFor(batches, bill.DatedOn)
		b.bills = append(b.bills, bill)
	}
	for _, exp := range newExplanations {
		b := batchFor(batches, exp.DatedOn)
		b.explanations = append(b.explanations, exp)
	}
	for _, set := range newJournalSets {
		b := batchFor(batches, set.DatedOn)
		b.journalSets = append(b.journalSets, set)
	}

	filesWritten := []string{}

	// Process each month
	for _, monthKey := range sortedMonths(batches) {
		batch := batches[monthKey]

		filePath, err := pathResolver.MonthFilePath(monthKey)
		if err != nil {
			slog.Error("Failed to resolve month file path", "month", monthKey, "error", err)
			continue
		}

		if dryRun {
			// Dry run: print transactions
			fmt.Printf("[DRY RUN] Would append to %s\n", filePath)
			for _, txn := range batch.transactions(cvtr) {
				fmt.Println(txn.Format())
			}
			continue
		}

		// Ensure month file exists
		if err := ledgerRepo.EnsureMonthFile(monthKey); err != nil {
			slog.Error("Failed to ensure month file", "month", monthKey, "error", err)
			continue
		}

		// Append transactions
		for _, inv := range batch.invoices {
			txn := cvtr.ConvertInvoice(inv)
			if err := ledgerRepo.AppendTransaction(monthKey, txn); err != nil {
				slog.Error("Failed to append invoice", "url", inv.URL, "error", err)
				continue
			}

			// Record sync history
			if err := syncHistory.RecordSync(db.SyncRecord{
				SyncType:    db.SyncTypeInvoice,
				ResourceURL: inv.URL,
				DatedOn:     inv.DatedOn.String(),
				Amount:      decimalValue(inv.TotalValue),
				LedgerFile:  filePath,
			}); err != nil {
				slog.Error("Failed to record sync", "url", inv.URL, "error", err)
			}
		}

		for _, bill := range batch.bills {
			txn := cvtr.ConvertBill(bill)
			if err := ledgerRepo.AppendTransaction(monthKey, txn); err != nil {
				slog.Error("Failed to append bill", "url", bill.URL, "error", err)
				continue
			}

			if err := syncHistory.RecordSync(db.SyncRecord{
				SyncType:    db.SyncTypeBill,
				ResourceURL: bill.URL,
				DatedOn:     bill.DatedOn.String(),
				Amount:      decimalValue(bill.TotalValue),
				LedgerFile:  filePath,
			}); err != nil {
				slog.Error("Failed to record sync", "url", bill.URL, "error", err)
			}
		}

		for _, exp := range batch.explanations {
			txn := cvtr.ConvertExplanation(exp)
			if err := ledgerRepo.AppendTransaction(monthKey, txn); err != nil {
				slog.Error("Failed to append explanation", "url", exp.URL, "error", err)
				continue
			}

			if err := syncHistory.RecordSync(db.SyncRecord{
				SyncType:    db.SyncTypeBankTransaction,
				ResourceURL: exp.URL,
				DatedOn:     exp.DatedOn.String(),
				Amount:      decimalValue(exp.Amount),
				LedgerFile:  filePath,
			}); err != nil {
				slog.Error("Failed to record sync", "url", exp.URL, "error", err)
			}
		}

		for _, set := range batch.journalSets {
			txn := cvtr.ConvertJournalSet(set)
			if err := ledgerRepo.AppendTransaction(monthKey, txn); err != nil {
				slog.Error("Failed to append journal set", "url", set.URL, "error", err)
				continue
			}

			amount := decimal.Decimal{}
			if len(set.JournalEntries) > 0 {
				amount = decimalValue(set.JournalEntries[0].DebitValue)
			}

			if err := syncHistory.RecordSync(db.SyncRecord{
				SyncType:    db.SyncTypeJournalSet,
				ResourceURL: set.URL,
				DatedOn:     set.DatedOn.String(),
				Amount:      amount,
				LedgerFile:  filePath,
			}); err != nil {
				slog.Error("Failed to record sync", "url", set.URL, "error", err)
			}
		}

		filesWritten = append(filesWritten, filePath)
		slog.Info("Updated file",
			"path", filePath,
			"invoices", len(batch.invoices),
			"bills", len(batch.bills),
			"bank_transactions", len(batch.explanations),
			"journal_sets", len(batch.journalSets),
		)
	}

	// Display final statistics
	if !dryRun {
		stats, err := syncHistory.GetStats()
		if err == nil {
			printStats(stats)
		}
	}

	slog.Info("Sync completed",
		"invoices", len(newInvoices),
		"bills", len(newBills),
		"bank_transactions", len(newExplanations),
		"journal_sets", len(newJournalSets),
		"files_written", len(filesWritten),
	)
}

// monthBatch collects one month's new items so each ledger file is written
// in a single pass.
type monthBatch struct {
	invoices     []ledgerport.Invoice
	bills        []ledgerport.Bill
	explanations []ledgerport.BankTransactionExplanation
	journalSets  []ledgerport.JournalSet
}

// transactions converts every item in the batch, in append order.
func (b *monthBatch) transactions(cvtr *convert.Converter) []ledger.Transaction {
	var txns []ledger.Transaction
	for _, inv := range b.invoices {
		txns = append(txns, cvtr.ConvertInvoice(inv))
	}
	for _, bill := range b.bills {
		txns = append(txns, cvtr.ConvertBill(bill))
	}
	for _, exp := range b.explanations {
		txns = append(txns, cvtr.ConvertExplanation(exp))
	}
	for _, set := range b.journalSets {
		txns = append(txns, cvtr.ConvertJournalSet(set))
	}
	return txns
}

// Helper functions

func batchFor(batches map[string]*monthBatch, datedOn ledgerport.Date) *monthBatch {
	key := datedOn.String()[:7] // YYYY-MM
	batch := batches[key]
	if batch == nil {
		batch = &monthBatch{}
		batches[key] = batch
	}
	return batch
}

func sortedMonths(batches map[string]*monthBatch) []string {
	months := make([]string, 0, len(batches))
	for month := range batches {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

func filterInvoices(invoices []ledgerport.Invoice, syncedURLs []string) []ledgerport.Invoice {
	synced := urlSet(syncedURLs)

	var result []ledgerport.Invoice
	for _, inv := range invoices {
		if !synced[inv.URL] {
			result = append(result, inv)
		}
	}
	return result
}

func filterBills(bills []ledgerport.Bill, syncedURLs []string) []ledgerport.Bill {
	synced := urlSet(syncedURLs)

	var result []ledgerport.Bill
	for _, bill := range bills {
		if !synced[bill.URL] {
			result = append(result, bill)
		}
	}
	return result
}

func filterExplanations(explanations []ledgerport.BankTransactionExplanation, syncedURLs []string) []ledgerport.BankTransactionExplanation {
	synced := urlSet(syncedURLs)

	var result []ledgerport.BankTransactionExplanation
	for _, exp := range explanations {
		if !synced[exp.URL] {
			result = append(result, exp)
		}
	}
	return result
}

func filterJournalSets(sets []ledgerport.JournalSet, syncedURLs []string) []ledgerport.JournalSet {
	synced := urlSet(syncedURLs)

	var result []ledgerport.JournalSet
	for _, set := range sets {
		if !synced[set.URL] {
			result = append(result, set)
		}
	}
	return result
}

func urlSet(urls []string) map[string]bool {
	set := make(map[string]bool, len(urls))
	for _, url := range urls {
		set[url] = true
	}
	return set
}

func decimalValue(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Decimal{}
	}
	return *p
}
