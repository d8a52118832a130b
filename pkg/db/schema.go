// Package db tracks which Ledgerport resources have been written to the
// ledger, so repeated syncs never duplicate a transaction.
package db

// Schema creates the sync tables. Resources are identified by their API
// URL, the stable identifier Ledgerport gives every resource.
const Schema = `
-- One row per resource written to the ledger.
CREATE TABLE IF NOT EXISTS sync_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sync_type TEXT NOT NULL,           -- 'invoice', 'bill', 'bank_transaction' or 'journal_set'
    resource_url TEXT NOT NULL,        -- Ledgerport resource URL
    dated_on TEXT NOT NULL,            -- YYYY-MM-DD
    amount TEXT NOT NULL,              -- decimal string, kept as text to avoid float drift
    ledger_file TEXT NOT NULL,         -- journal file the transaction went to
    synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(sync_type, resource_url)
);

CREATE INDEX IF NOT EXISTS idx_sync_history_type_url
    ON sync_history(sync_type, resource_url);

CREATE INDEX IF NOT EXISTS idx_sync_history_date
    ON sync_history(dated_on);

-- Attachments downloaded alongside their resources.
CREATE TABLE IF NOT EXISTS attachment_downloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    resource_url TEXT NOT NULL,        -- resource the attachment belongs to
    attachment_url TEXT NOT NULL,      -- Ledgerport attachment URL
    file_path TEXT NOT NULL,           -- where the file was saved
    downloaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(attachment_url)
);

CREATE INDEX IF NOT EXISTS idx_attachment_downloads_resource
    ON attachment_downloads(resource_url);

-- Key-value metadata about sync runs (cursors, last run info).
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates all tables if they do not exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
