package ledgerport

import (
	"context"
	"fmt"
)

// Attachment is a file held against an expense, bill or explanation. On
// upload Data carries the base64-encoded file content; on read the service
// returns ContentSrc, a time-limited download URL, instead.
type Attachment struct {
	URL         string `json:"url,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	FileSize    *int64 `json:"file_size,omitempty"`
	ContentSrc  string `json:"content_src,omitempty"`
	Data        string `json:"data,omitempty"`
	Description string `json:"description,omitempty"`
}

// AttachmentRoot is the envelope for a single attachment.
type AttachmentRoot struct {
	Attachment Attachment `json:"attachment"`
}

// GetAttachment fetches an attachment's metadata and a fresh download URL.
func (c *Client) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	var root AttachmentRoot
	if err := c.get(ctx, "/attachments/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", id, err)
	}
	return &root.Attachment, nil
}

// DeleteAttachment removes an attachment from its parent resource.
func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/attachments/"+id); err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", id, err)
	}
	return nil
}
