package ledgertest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Bucket names.
const (
	bucketContacts     = "contacts"
	bucketInvoices     = "invoices"
	bucketBills        = "bills"
	bucketBankAccounts = "bank_accounts"
	bucketTransactions = "bank_transactions"
	bucketExplanations = "bank_transaction_explanations"
	bucketJournalSets  = "journal_sets"
)

// Store is an in-memory record store. Values are kept JSON-marshalled so
// every read hands out an independent copy, the way a real backend would.
type Store struct {
	mu      sync.Mutex
	seq     map[string]int64
	records map[string]map[int64][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		seq:     make(map[string]int64),
		records: make(map[string]map[int64][]byte),
	}
}

// NextID generates the next ID for a bucket.
func (s *Store) NextID(bucket string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[bucket]++
	return s.seq[bucket]
}

// Put stores a value in the bucket under the given ID.
func (s *Store) Put(bucket string, id int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.records[bucket]
	if b == nil {
		b = make(map[int64][]byte)
		s.records[bucket] = b
	}
	b[id] = data
	return nil
}

// Get loads the value stored under an ID into out.
func (s *Store) Get(bucket string, id int64, out interface{}) error {
	s.mu.Lock()
	data, ok := s.records[bucket][id]
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

// Delete removes the value stored under an ID.
func (s *Store) Delete(bucket string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[bucket][id]; !ok {
		return ErrNotFound
	}
	delete(s.records[bucket], id)
	return nil
}

// List returns every record in a bucket in ID order, optionally filtered.
func (s *Store) List(bucket string, filter func(data []byte) bool) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.records[bucket]))
	for id := range s.records[bucket] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var results [][]byte
	for _, id := range ids {
		data := s.records[bucket][id]
		if filter == nil || filter(data) {
			results = append(results, data)
		}
	}
	return results
}
