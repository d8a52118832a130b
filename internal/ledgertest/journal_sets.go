package ledgertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// SeedJournalSet stores a journal set and returns the stored copy. Seeded
// sets are not balance-checked, matching records imported before the rule
// was enforced.
func (s *Server) SeedJournalSet(set ledgerport.JournalSet) ledgerport.JournalSet {
	return s.storeJournalSet(set)
}

func (s *Server) storeJournalSet(set ledgerport.JournalSet) ledgerport.JournalSet {
	id := s.store.NextID(bucketJournalSets)
	set.URL = s.resourceURL("journal_sets", id)
	for i := range set.JournalEntries {
		set.JournalEntries[i].URL = fmt.Sprintf("%s/journal_entries/%d/%d", s.URL, id, i+1)
	}
	now := time.Now().UTC().Truncate(time.Second)
	set.CreatedAt = ledgerport.TimePtr(now)
	set.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketJournalSets, id, set); err != nil {
		panic(err)
	}
	return set
}

func (s *Server) allJournalSets() []ledgerport.JournalSet {
	var sets []ledgerport.JournalSet
	for _, data := range s.store.List(bucketJournalSets, nil) {
		var set ledgerport.JournalSet
		if json.Unmarshal(data, &set) == nil {
			sets = append(sets, set)
		}
	}
	return sets
}

// validateJournalSet mirrors the service rule that a set's debit values
// must sum to zero.
func validateJournalSet(set ledgerport.JournalSet) (message, field string) {
	if set.DatedOn.IsZero() {
		return "Dated on is required", "dated_on"
	}
	if len(set.JournalEntries) == 0 {
		return "Journal entries are required", "journal_entries"
	}

	sum := decimal.Zero
	for _, entry := range set.JournalEntries {
		if entry.Category == "" {
			return "Journal entry category is required", "journal_entries"
		}
		if entry.DebitValue == nil {
			return "Journal entry debit value is required", "journal_entries"
		}
		sum = sum.Add(*entry.DebitValue)
	}
	if !sum.IsZero() {
		return "Journal entries must balance", "journal_entries"
	}
	return "", ""
}

func (s *Server) handleListJournalSets(w http.ResponseWriter, r *http.Request) {
	var sets []ledgerport.JournalSet
	for _, set := range s.allJournalSets() {
		if !inDateRange(r, set.DatedOn) {
			continue
		}
		sets = append(sets, set)
	}

	start, end := pageBounds(r, len(sets))
	writeJSON(w, http.StatusOK, ledgerport.JournalSetsRoot{JournalSets: sets[start:end]})
}

func (s *Server) handleCreateJournalSet(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.JournalSetRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	set := root.JournalSet
	if message, field := validateJournalSet(set); message != "" {
		writeFieldError(w, http.StatusUnprocessableEntity, message, field)
		return
	}

	stored := s.storeJournalSet(set)
	writeJSON(w, http.StatusCreated, ledgerport.JournalSetRoot{JournalSet: stored})
}

func (s *Server) handleGetJournalSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid journal set ID")
		return
	}

	var set ledgerport.JournalSet
	if err := s.store.Get(bucketJournalSets, id, &set); err != nil {
		writeError(w, http.StatusNotFound, "Journal set not found")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.JournalSetRoot{JournalSet: set})
}

func (s *Server) handleUpdateJournalSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid journal set ID")
		return
	}

	var existing ledgerport.JournalSet
	if err := s.store.Get(bucketJournalSets, id, &existing); err != nil {
		writeError(w, http.StatusNotFound, "Journal set not found")
		return
	}

	var root ledgerport.JournalSetRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.JournalSet
	if message, field := validateJournalSet(updated); message != "" {
		writeFieldError(w, http.StatusUnprocessableEntity, message, field)
		return
	}

	updated.URL = existing.URL
	for i := range updated.JournalEntries {
		updated.JournalEntries[i].URL = fmt.Sprintf("%s/journal_entries/%d/%d", s.URL, id, i+1)
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

	if err := s.store.Put(bucketJournalSets, id, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store journal set")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.JournalSetRoot{JournalSet: updated})
}

func (s *Server) handleDeleteJournalSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid journal set ID")
		return
	}

	if err := s.store.Delete(bucketJournalSets, id); err != nil {
		writeError(w, http.StatusNotFound, "Journal set not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
