package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SyncType says which kind of resource a sync record covers.
type SyncType string

const (
	SyncTypeInvoice         SyncType = "invoice"
	SyncTypeBill            SyncType = "bill"
	SyncTypeBankTransaction SyncType = "bank_transaction"
	SyncTypeJournalSet      SyncType = "journal_set"
)

// SyncRecord is one resource written to the ledger.
type SyncRecord struct {
	ID          int64
	SyncType    SyncType
	ResourceURL string
	DatedOn     string // YYYY-MM-DD
	Amount      decimal.Decimal
	LedgerFile  string
	SyncedAt    time.Time
}

// AttachmentDownload is one attachment saved next to the ledger.
type AttachmentDownload struct {
	ID            int64
	ResourceURL   string
	AttachmentURL string
	FilePath      string
	DownloadedAt  time.Time
}

// SyncHistory reads and writes sync state.
type SyncHistory struct {
	conn *Connection
}

// NewSyncHistory creates a SyncHistory over an open connection.
func NewSyncHistory(conn *Connection) *SyncHistory {
	return &SyncHistory{conn: conn}
}

// RecordSync records that a resource was written. Re-recording the same
// resource updates the row and refreshes synced_at.
func (s *SyncHistory) RecordSync(record SyncRecord) error {
	query := `
		INSERT INTO sync_history (sync_type, resource_url, dated_on, amount, ledger_file)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sync_type, resource_url) DO UPDATE SET
			dated_on = excluded.dated_on,
			amount = excluded.amount,
			ledger_file = excluded.ledger_file,
			synced_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query,
		string(record.SyncType),
		record.ResourceURL,
		record.DatedOn,
		record.Amount.String(),
		record.LedgerFile,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}

	return nil
}

// IsSynced reports whether a resource has been written already.
func (s *SyncHistory) IsSynced(syncType SyncType, resourceURL string) (bool, error) {
	query := `SELECT COUNT(*) FROM sync_history WHERE sync_type = ? AND resource_url = ?`

	var count int
	if err := s.conn.QueryRow(query, string(syncType), resourceURL).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check sync state: %w", err)
	}

	return count > 0, nil
}

// GetSyncRecord returns a resource's sync record, or nil when it has never
// been synced.
func (s *SyncHistory) GetSyncRecord(syncType SyncType, resourceURL string) (*SyncRecord, error) {
	query := `
		SELECT id, sync_type, resource_url, dated_on, amount, ledger_file, synced_at
		FROM sync_history
		WHERE sync_type = ? AND resource_url = ?
	`

	record, err := scanSyncRecord(s.conn.QueryRow(query, string(syncType), resourceURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync record: %w", err)
	}

	return record, nil
}

// GetSyncedURLs returns every synced resource URL of one type, for bulk
// filtering before a sync run.
func (s *SyncHistory) GetSyncedURLs(syncType SyncType) ([]string, error) {
	rows, err := s.conn.Query(`SELECT resource_url FROM sync_history WHERE sync_type = ?`, string(syncType))
	if err != nil {
		return nil, fmt.Errorf("failed to get synced URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan resource URL: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// GetSyncRecordsByType returns all sync records of one type, newest dated
// first.
func (s *SyncHistory) GetSyncRecordsByType(syncType SyncType) ([]SyncRecord, error) {
	query := `
		SELECT id, sync_type, resource_url, dated_on, amount, ledger_file, synced_at
		FROM sync_history
		WHERE sync_type = ?
		ORDER BY dated_on DESC
	`

	rows, err := s.conn.Query(query, string(syncType))
	if err != nil {
		return nil, fmt.Errorf("failed to get sync records: %w", err)
	}
	defer rows.Close()

	var records []SyncRecord
	for rows.Next() {
		record, err := scanSyncRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync record: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// DeleteSyncRecord forgets a resource so the next sync writes it again.
// Returns whether a record existed.
func (s *SyncHistory) DeleteSyncRecord(syncType SyncType, resourceURL string) (bool, error) {
	result, err := s.conn.Exec(
		`DELETE FROM sync_history WHERE sync_type = ? AND resource_url = ?`,
		string(syncType), resourceURL,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete sync record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// RecordAttachmentDownload records a saved attachment. Re-recording the
// same attachment URL updates the row.
func (s *SyncHistory) RecordAttachmentDownload(download AttachmentDownload) error {
	query := `
		INSERT INTO attachment_downloads (resource_url, attachment_url, file_path)
		VALUES (?, ?, ?)
		ON CONFLICT(attachment_url) DO UPDATE SET
			resource_url = excluded.resource_url,
			file_path = excluded.file_path,
			downloaded_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query, download.ResourceURL, download.AttachmentURL, download.FilePath)
	if err != nil {
		return fmt.Errorf("failed to record attachment download: %w", err)
	}

	return nil
}

// IsAttachmentDownloaded reports whether an attachment has been saved.
func (s *SyncHistory) IsAttachmentDownloaded(attachmentURL string) (bool, error) {
	var count int
	err := s.conn.QueryRow(
		`SELECT COUNT(*) FROM attachment_downloads WHERE attachment_url = ?`,
		attachmentURL,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check attachment download: %w", err)
	}

	return count > 0, nil
}

// GetAttachmentDownloads returns the attachments saved for a resource.
func (s *SyncHistory) GetAttachmentDownloads(resourceURL string) ([]AttachmentDownload, error) {
	query := `
		SELECT id, resource_url, attachment_url, file_path, downloaded_at
		FROM attachment_downloads
		WHERE resource_url = ?
		ORDER BY downloaded_at DESC
	`

	rows, err := s.conn.Query(query, resourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment downloads: %w", err)
	}
	defer rows.Close()

	var downloads []AttachmentDownload
	for rows.Next() {
		var d AttachmentDownload
		if err := rows.Scan(&d.ID, &d.ResourceURL, &d.AttachmentURL, &d.FilePath, &d.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment download: %w", err)
		}
		downloads = append(downloads, d)
	}

	return downloads, rows.Err()
}

// Stats summarizes what has been synced.
type Stats struct {
	Counts      map[SyncType]int
	Attachments int
	LastSync    sql.NullString
}

// GetStats counts synced resources by type and finds the last sync time.
func (s *SyncHistory) GetStats() (*Stats, error) {
	stats := &Stats{Counts: make(map[SyncType]int)}

	rows, err := s.conn.Query(`SELECT sync_type, COUNT(*) FROM sync_history GROUP BY sync_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count sync records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var syncType string
		var count int
		if err := rows.Scan(&syncType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sync count: %w", err)
		}
		stats.Counts[SyncType(syncType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM attachment_downloads`).Scan(&stats.Attachments); err != nil {
		return nil, fmt.Errorf("failed to count attachment downloads: %w", err)
	}

	err = s.conn.QueryRow(`SELECT MAX(synced_at) FROM sync_history`).Scan(&stats.LastSync)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return stats, nil
}

// GetMetadata returns a metadata value, or "" when unset.
func (s *SyncHistory) GetMetadata(key string) (string, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM sync_metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata stores a metadata value, replacing any previous one.
func (s *SyncHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSyncRecord(row rowScanner) (*SyncRecord, error) {
	var record SyncRecord
	var syncType, amount string

	if err := row.Scan(
		&record.ID,
		&syncType,
		&record.ResourceURL,
		&record.DatedOn,
		&amount,
		&record.LedgerFile,
		&record.SyncedAt,
	); err != nil {
		return nil, err
	}

	record.SyncType = SyncType(syncType)

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q in sync record: %w", amount, err)
	}
	record.Amount = parsed

	return &record, nil
}
