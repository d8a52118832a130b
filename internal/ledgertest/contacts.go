package ledgertest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ledgerport/ledgerport-go/pkg/ledgerport"
)

// SeedContact stores a contact, assigning its URL and timestamps, and
// returns the stored copy.
func (s *Server) SeedContact(contact ledgerport.Contact) ledgerport.Contact {
	return s.storeContact(contact)
}

func (s *Server) storeContact(contact ledgerport.Contact) ledgerport.Contact {
	id := s.store.NextID(bucketContacts)
	contact.URL = s.resourceURL("contacts", id)
	if contact.Status == "" {
		contact.Status = ledgerport.ContactStatusActive
	}
	now := time.Now().UTC().Truncate(time.Second)
	contact.CreatedAt = ledgerport.TimePtr(now)
	contact.UpdatedAt = ledgerport.TimePtr(now)

	if err := s.store.Put(bucketContacts, id, contact); err != nil {
		panic(err)
	}
	return contact
}

func (s *Server) allContacts() []ledgerport.Contact {
	var contacts []ledgerport.Contact
	for _, data := range s.store.List(bucketContacts, nil) {
		var contact ledgerport.Contact
		if json.Unmarshal(data, &contact) == nil {
			contacts = append(contacts, contact)
		}
	}
	return contacts
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	view := ledgerport.ContactView(r.URL.Query().Get("view"))

	var contacts []ledgerport.Contact
	for _, contact := range s.allContacts() {
		switch view {
		case ledgerport.ContactViewHidden:
			if contact.Status != ledgerport.ContactStatusHidden {
				continue
			}
		case ledgerport.ContactViewActive:
			if contact.Status != ledgerport.ContactStatusActive {
				continue
			}
		}
		contacts = append(contacts, contact)
	}

	start, end := pageBounds(r, len(contacts))
	writeJSON(w, http.StatusOK, ledgerport.ContactsRoot{Contacts: contacts[start:end]})
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var root ledgerport.ContactRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	contact := root.Contact
	if contact.OrganisationName == nil && contact.FirstName == nil && contact.LastName == nil {
		writeFieldError(w, http.StatusUnprocessableEntity,
			"Requires an organisation name or a first and last name", "organisation_name")
		return
	}

	stored := s.storeContact(contact)
	writeJSON(w, http.StatusCreated, ledgerport.ContactRoot{Contact: stored})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var contact ledgerport.Contact
	if err := s.store.Get(bucketContacts, id, &contact); err != nil {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.ContactRoot{Contact: contact})
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var existing ledgerport.Contact
	if err := s.store.Get(bucketContacts, id, &existing); err != nil {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	var root ledgerport.ContactRoot
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	updated := root.Contact
	updated.URL = existing.URL
	if updated.Status == "" {
		updated.Status = existing.Status
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = ledgerport.TimePtr(time.Now().UTC().Truncate(time.Second))

	if err := s.store.Put(bucketContacts, id, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store contact")
		return
	}

	writeJSON(w, http.StatusOK, ledgerport.ContactRoot{Contact: updated})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := s.store.Delete(bucketContacts, id); err != nil {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
