// Package pathutil centralizes the layout of the ledger directory tree:
// journal files, the sync database, and downloaded attachments.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PathResolver knows where ledger files, the sync database, and attachments
// live under the ledger root.
type PathResolver struct {
	ledgerRoot     string
	databasePath   string
	attachmentsDir string
}

// Config configures a PathResolver.
type Config struct {
	// LedgerRoot is the root directory of the journal tree, laid out as
	// {root}/{year}/{year}-{month}.ledger.
	LedgerRoot string
	// DatabasePath is the SQLite file for sync history. Defaults to
	// {LedgerRoot}/.sync/sync.db.
	DatabasePath string
	// AttachmentsDir holds downloaded receipts and bill scans. Defaults to
	// {LedgerRoot}/attachments.
	AttachmentsDir string
}

// New creates a PathResolver, filling in defaults for the database and
// attachments locations.
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.LedgerRoot, ".sync", "sync.db")
	}

	attachmentsDir := config.AttachmentsDir
	if attachmentsDir == "" {
		attachmentsDir = filepath.Join(config.LedgerRoot, "attachments")
	}

	return &PathResolver{
		ledgerRoot:     config.LedgerRoot,
		databasePath:   dbPath,
		attachmentsDir: attachmentsDir,
	}
}

// FromEnv creates a PathResolver from environment variables: LEDGER_ROOT
// (required), LEDGER_DB_PATH and LEDGER_ATTACHMENTS_DIR (optional).
func FromEnv() (*PathResolver, error) {
	ledgerRoot := os.Getenv("LEDGER_ROOT")
	if ledgerRoot == "" {
		return nil, fmt.Errorf("LEDGER_ROOT environment variable is required")
	}

	return New(Config{
		LedgerRoot:     ledgerRoot,
		DatabasePath:   os.Getenv("LEDGER_DB_PATH"),
		AttachmentsDir: os.Getenv("LEDGER_ATTACHMENTS_DIR"),
	}), nil
}

// LedgerRoot returns the root of the journal tree.
func (p *PathResolver) LedgerRoot() string {
	return p.ledgerRoot
}

// DatabasePath returns the sync database file path.
func (p *PathResolver) DatabasePath() string {
	return p.databasePath
}

// AttachmentsDir returns the attachments directory.
func (p *PathResolver) AttachmentsDir() string {
	return p.attachmentsDir
}

// YearDir returns the directory holding one year's journal files.
func (p *PathResolver) YearDir(year string) string {
	return filepath.Join(p.ledgerRoot, year)
}

// MonthFilePath returns the journal file for a month. yearMonth must be
// YYYY-MM.
func (p *PathResolver) MonthFilePath(yearMonth string) (string, error) {
	year, month, ok := strings.Cut(yearMonth, "-")
	if !ok || len(year) != 4 || len(month) != 2 {
		return "", fmt.Errorf("invalid year-month %q, expected YYYY-MM", yearMonth)
	}
	if m, err := strconv.Atoi(month); err != nil || m < 1 || m > 12 {
		return "", fmt.Errorf("invalid month in %q", yearMonth)
	}

	return filepath.Join(p.YearDir(year), yearMonth+".ledger"), nil
}

// AttachmentPath returns where to store an attachment downloaded for a
// resource dated on the given YYYY-MM-DD date. Files are sharded by year
// and month.
func (p *PathResolver) AttachmentPath(date, filename string) (string, error) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}

	return filepath.Join(p.attachmentsDir, parts[0], parts[1], filename), nil
}

// EnsureDir creates a directory and any missing parents.
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the directory containing filePath exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists reports whether a path exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
