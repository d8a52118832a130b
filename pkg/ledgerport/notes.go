package ledgerport

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Note is free text pinned to a contact or a project. Exactly one parent is
// set.
type Note struct {
	URL     string  `json:"url,omitempty"`
	Note    string  `json:"note,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Project *string `json:"project,omitempty"`
	// Author links the user who wrote the note.
	Author    *string    `json:"author,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NoteRoot is the envelope for a single note.
type NoteRoot struct {
	Note Note `json:"note"`
}

// NotesRoot is the envelope for a list of notes.
type NotesRoot struct {
	Notes []Note `json:"notes"`
}

// ListNotesOptions narrows note listings to one parent. One of Contact or
// Project is required.
type ListNotesOptions struct {
	Contact string
	Project string
}

func (o ListNotesOptions) values() url.Values {
	q := url.Values{}
	if o.Contact != "" {
		q.Set("contact", o.Contact)
	}
	if o.Project != "" {
		q.Set("project", o.Project)
	}
	return q
}

// ListNotes returns the notes on a contact or project, newest first.
func (c *Client) ListNotes(ctx context.Context, opts ListNotesOptions) ([]Note, error) {
	var root NotesRoot
	if err := c.get(ctx, "/notes", opts.values(), &root); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return root.Notes, nil
}

// CreateNote pins a note to the parent named in it.
func (c *Client) CreateNote(ctx context.Context, note *Note) (*Note, error) {
	var root NoteRoot
	if err := c.post(ctx, "/notes", NoteRoot{Note: *note}, &root); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &root.Note, nil
}

// UpdateNote rewrites a note's text.
func (c *Client) UpdateNote(ctx context.Context, id string, note *Note) (*Note, error) {
	var root NoteRoot
	if err := c.put(ctx, "/notes/"+id, NoteRoot{Note: *note}, &root); err != nil {
		return nil, fmt.Errorf("failed to update note %s: %w", id, err)
	}
	return &root.Note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/notes/"+id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}
