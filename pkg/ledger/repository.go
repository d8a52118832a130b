package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ledgerport/ledgerport-go/pkg/pathutil"
)

// Repository is the storage interface for monthly journal files.
type Repository interface {
	// AppendTransaction appends a transaction to the month's file, creating
	// the file first if needed. An optional comment line precedes it.
	AppendTransaction(yearMonth string, txn Transaction, comment ...string) error

	// ReadMonthFile returns the month file's content, or "" if it does not
	// exist.
	ReadMonthFile(yearMonth string) (string, error)

	// MonthFileExists reports whether the month's file exists.
	MonthFileExists(yearMonth string) bool

	// MonthFilesInYear returns the YYYY-MM keys of the files present in a
	// year directory.
	MonthFilesInYear(year string) ([]string, error)

	// EnsureMonthFile creates the month's file with a header if missing.
	EnsureMonthFile(yearMonth string) error
}

// FileSystemRepository stores journal files on disk under the resolver's
// ledger root.
type FileSystemRepository struct {
	paths *pathutil.PathResolver
}

// NewFileSystemRepository creates a FileSystemRepository.
func NewFileSystemRepository(paths *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{paths: paths}
}

// AppendTransaction appends a formatted transaction to a month file,
// creating the file with a header if it does not exist yet.
func (r *FileSystemRepository) AppendTransaction(yearMonth string, txn Transaction, comment ...string) error {
	filePath, err := r.paths.MonthFilePath(yearMonth)
	if err != nil {
		return fmt.Errorf("failed to resolve month file path: %w", err)
	}

	if err := r.EnsureMonthFile(yearMonth); err != nil {
		return fmt.Errorf("failed to ensure month file: %w", err)
	}

	var content string
	if len(comment) > 0 && comment[0] != "" {
		content = "; " + comment[0] + "\n"
	}
	content += txn.Format()
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content += "\n"
	}
	// Blank line between transactions.
	content += "\n"

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for appending: %w", filePath, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to %s: %w", filePath, err)
	}

	return nil
}

// ReadMonthFile returns the content of a month file, or "" when it does not
// exist.
func (r *FileSystemRepository) ReadMonthFile(yearMonth string) (string, error) {
	filePath, err := r.paths.MonthFilePath(yearMonth)
	if err != nil {
		return "", fmt.Errorf("failed to resolve month file path: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return string(data), nil
}

// MonthFileExists reports whether a month file exists.
func (r *FileSystemRepository) MonthFileExists(yearMonth string) bool {
	filePath, err := r.paths.MonthFilePath(yearMonth)
	if err != nil {
		return false
	}
	return r.paths.FileExists(filePath)
}

// MonthFilesInYear returns the YYYY-MM keys present in a year directory,
// in directory order.
func (r *FileSystemRepository) MonthFilesInYear(year string) ([]string, error) {
	yearDir := r.paths.YearDir(year)
	entries, err := os.ReadDir(yearDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read year directory %s: %w", yearDir, err)
	}

	var months []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".ledger" {
			months = append(months, name[:len(name)-len(".ledger")])
		}
	}

	return months, nil
}

// EnsureMonthFile creates a month file with its header when missing. It is
// a no-op when the file exists.
func (r *FileSystemRepository) EnsureMonthFile(yearMonth string) error {
	filePath, err := r.paths.MonthFilePath(yearMonth)
	if err != nil {
		return fmt.Errorf("failed to resolve month file path: %w", err)
	}

	if r.paths.FileExists(filePath) {
		return nil
	}

	if err := r.paths.EnsureParentDir(filePath); err != nil {
		return fmt.Errorf("failed to create year directory: %w", err)
	}

	header := fmt.Sprintf("; Journal for %s\n; Created %s\n\n",
		yearMonth, time.Now().Format(time.RFC3339))
	if err := os.WriteFile(filePath, []byte(header), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", filePath, err)
	}

	return nil
}
