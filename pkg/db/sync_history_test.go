package db

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *SyncHistory {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), ".sync", "sync.db"))
	require.NoError(t, err, "Open should create the database and schema")
	t.Cleanup(func() { _ = conn.Close() })

	return NewSyncHistory(conn)
}

func invoiceRecord(url string) SyncRecord {
	return SyncRecord{
		SyncType:    SyncTypeInvoice,
		ResourceURL: url,
		DatedOn:     "2024-03-01",
		Amount:      decimal.RequireFromString("720"),
		LedgerFile:  "2024/2024-03.ledger",
	}
}

func TestRecordSyncAndIsSynced(t *testing.T) {
	history := newTestHistory(t)

	url := "https://api.ledgerport.com/v2/invoices/42"
	require.NoError(t, history.RecordSync(invoiceRecord(url)))

	synced, err := history.IsSynced(SyncTypeInvoice, url)
	require.NoError(t, err)
	assert.True(t, synced, "recorded resource should report synced")

	synced, err = history.IsSynced(SyncTypeBill, url)
	require.NoError(t, err)
	assert.False(t, synced, "the same URL under another type is a different record")

	synced, err = history.IsSynced(SyncTypeInvoice, "https://api.ledgerport.com/v2/invoices/43")
	require.NoError(t, err)
	assert.False(t, synced, "unknown resource should not report synced")
}

func TestRecordSyncUpserts(t *testing.T) {
	history := newTestHistory(t)

	url := "https://api.ledgerport.com/v2/invoices/42"
	require.NoError(t, history.RecordSync(invoiceRecord(url)))

	amended := invoiceRecord(url)
	amended.DatedOn = "2024-03-05"
	amended.Amount = decimal.RequireFromString("750")
	amended.LedgerFile = "2024/2024-03.ledger"
	require.NoError(t, history.RecordSync(amended), "re-recording the same resource should not fail")

	record, err := history.GetSyncRecord(SyncTypeInvoice, url)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "2024-03-05", record.DatedOn, "upsert should replace the dated_on")
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("750")), "upsert should replace the amount")

	urls, err := history.GetSyncedURLs(SyncTypeInvoice)
	require.NoError(t, err)
	assert.Len(t, urls, 1, "upsert must not duplicate the row")
}

func TestGetSyncRecordMissing(t *testing.T) {
	history := newTestHistory(t)

	record, err := history.GetSyncRecord(SyncTypeInvoice, "https://api.ledgerport.com/v2/invoices/404")
	require.NoError(t, err, "a missing record is not an error")
	assert.Nil(t, record)
}

func TestGetSyncedURLsFiltersByType(t *testing.T) {
	history := newTestHistory(t)

	require.NoError(t, history.RecordSync(invoiceRecord("https://api.ledgerport.com/v2/invoices/1")))
	require.NoError(t, history.RecordSync(invoiceRecord("https://api.ledgerport.com/v2/invoices/2")))

	bill := invoiceRecord("https://api.ledgerport.com/v2/bills/9")
	bill.SyncType = SyncTypeBill
	require.NoError(t, history.RecordSync(bill))

	urls, err := history.GetSyncedURLs(SyncTypeInvoice)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
	assert.NotContains(t, urls, "https://api.ledgerport.com/v2/bills/9")
}

func TestGetSyncRecordsByTypeOrdersByDate(t *testing.T) {
	history := newTestHistory(t)

	older := invoiceRecord("https://api.ledgerport.com/v2/invoices/1")
	older.DatedOn = "2024-01-15"
	newer := invoiceRecord("https://api.ledgerport.com/v2/invoices/2")
	newer.DatedOn = "2024-03-20"
	require.NoError(t, history.RecordSync(older))
	require.NoError(t, history.RecordSync(newer))

	records, err := history.GetSyncRecordsByType(SyncTypeInvoice)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-20", records[0].DatedOn, "newest dated record should come first")
	assert.Equal(t, "2024-01-15", records[1].DatedOn)
}

func TestDeleteSyncRecord(t *testing.T) {
	history := newTestHistory(t)

	url := "https://api.ledgerport.com/v2/invoices/42"
	require.NoError(t, history.RecordSync(invoiceRecord(url)))

	deleted, err := history.DeleteSyncRecord(SyncTypeInvoice, url)
	require.NoError(t, err)
	assert.True(t, deleted)

	synced, err := history.IsSynced(SyncTypeInvoice, url)
	require.NoError(t, err)
	assert.False(t, synced, "deleted record should no longer report synced")

	deleted, err = history.DeleteSyncRecord(SyncTypeInvoice, url)
	require.NoError(t, err)
	assert.False(t, deleted, "deleting a missing record reports false, not an error")
}

func TestAttachmentDownloads(t *testing.T) {
	history := newTestHistory(t)

	resource := "https://api.ledgerport.com/v2/bills/9"
	attachment := "https://api.ledgerport.com/v2/attachments/31"

	downloaded, err := history.IsAttachmentDownloaded(attachment)
	require.NoError(t, err)
	assert.False(t, downloaded)

	require.NoError(t, history.RecordAttachmentDownload(AttachmentDownload{
		ResourceURL:   resource,
		AttachmentURL: attachment,
		FilePath:      "attachments/2024/03/bill-9.pdf",
	}))

	downloaded, err = history.IsAttachmentDownloaded(attachment)
	require.NoError(t, err)
	assert.True(t, downloaded)

	downloads, err := history.GetAttachmentDownloads(resource)
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, "attachments/2024/03/bill-9.pdf", downloads[0].FilePath)

	// Re-recording the same attachment updates in place.
	require.NoError(t, history.RecordAttachmentDownload(AttachmentDownload{
		ResourceURL:   resource,
		AttachmentURL: attachment,
		FilePath:      "attachments/2024/03/bill-9-v2.pdf",
	}))
	downloads, err = history.GetAttachmentDownloads(resource)
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, "attachments/2024/03/bill-9-v2.pdf", downloads[0].FilePath)
}

func TestGetStats(t *testing.T) {
	history := newTestHistory(t)

	t.Run("empty database", func(t *testing.T) {
		stats, err := history.GetStats()
		require.NoError(t, err)
		assert.Empty(t, stats.Counts)
		assert.Zero(t, stats.Attachments)
		assert.False(t, stats.LastSync.Valid, "no syncs means no last sync time")
	})

	require.NoError(t, history.RecordSync(invoiceRecord("https://api.ledgerport.com/v2/invoices/1")))
	require.NoError(t, history.RecordSync(invoiceRecord("https://api.ledgerport.com/v2/invoices/2")))
	bill := invoiceRecord("https://api.ledgerport.com/v2/bills/9")
	bill.SyncType = SyncTypeBill
	require.NoError(t, history.RecordSync(bill))
	require.NoError(t, history.RecordAttachmentDownload(AttachmentDownload{
		ResourceURL:   "https://api.ledgerport.com/v2/bills/9",
		AttachmentURL: "https://api.ledgerport.com/v2/attachments/31",
		FilePath:      "attachments/2024/03/bill-9.pdf",
	}))

	t.Run("after syncing", func(t *testing.T) {
		stats, err := history.GetStats()
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Counts[SyncTypeInvoice])
		assert.Equal(t, 1, stats.Counts[SyncTypeBill])
		assert.Zero(t, stats.Counts[SyncTypeJournalSet])
		assert.Equal(t, 1, stats.Attachments)
		assert.True(t, stats.LastSync.Valid)
	})
}

func TestMetadata(t *testing.T) {
	history := newTestHistory(t)

	value, err := history.GetMetadata("last_full_sync")
	require.NoError(t, err)
	assert.Empty(t, value, "unset metadata reads as empty")

	require.NoError(t, history.SetMetadata("last_full_sync", "2024-03-31"))

	value, err = history.GetMetadata("last_full_sync")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", value)

	require.NoError(t, history.SetMetadata("last_full_sync", "2024-04-30"))
	value, err = history.GetMetadata("last_full_sync")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30", value, "setting again should replace the value")
}
