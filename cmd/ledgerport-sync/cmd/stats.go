package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ledgerport/ledgerport-go/pkg/config"
	"github.com/ledgerport/ledgerport-go/pkg/db"
	"github.com/ledgerport/ledgerport-go/pkg/pathutil"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display sync statistics",
	Long: `Display statistics about synced transactions and attachments.

Shows:
- Total number of synced invoices, bills, bank transactions and journal sets
- Total number of downloaded attachments
- Last sync timestamp

Example:
  ledgerport-sync stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate([]string{"ledger", "root"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	// Initialize PathResolver
	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:     cfg.Ledger.Root,
		DatabasePath:   cfg.Ledger.DBPath,
		AttachmentsDir: cfg.Ledger.AttachmentsDir,
	})

	// Open database connection
	dbPath := pathResolver.DatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	// Get sync history
	syncHistory := db.NewSyncHistory(conn)

	// Get statistics
	stats, err := syncHistory.GetStats()
	exitOnError(err, "failed to get statistics")

	printStats(stats)

	slog.Info("Statistics displayed successfully")
}

// printStats displays sync statistics, shared by the stats and sync commands.
func printStats(stats *db.Stats) {
	fmt.Println("\n=== Sync Statistics ===")
	fmt.Printf("Synced invoices:          %d\n", stats.Counts[db.SyncTypeInvoice])
	fmt.Printf("Synced bills:             %d\n", stats.Counts[db.SyncTypeBill])
	fmt.Printf("Synced bank transactions: %d\n", stats.Counts[db.SyncTypeBankTransaction])
	fmt.Printf("Synced journal sets:      %d\n", stats.Counts[db.SyncTypeJournalSet])
	fmt.Printf("Downloaded attachments:   %d\n", stats.Attachments)

	if stats.LastSync.Valid {
		fmt.Printf("Last sync:                %s\n", stats.LastSync.String)
	} else {
		fmt.Printf("Last sync:                (never)\n")
	}

	fmt.Println()
}
