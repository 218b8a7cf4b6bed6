// Package files provides the stored-file domain: metadata persistence,
// rename and deletion, and the HTTP surface for listing, fetching, and
// uploading files.
package files

import (
	"time"

	"github.com/google/uuid"
)

// File represents a stored file with its metadata. The storage path is
// internal and never serialized to clients.
type File struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	Path         string    `json:"-"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"file_size"`
	Category     string    `json:"category"`
	PageCount    *int      `json:"page_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BulkDeleteResult summarizes a bulk deletion: rows removed, requested ids
// that did not exist, and disk-level failures among the deleted records.
type BulkDeleteResult struct {
	Message      string            `json:"message"`
	DeletedCount int               `json:"deleted_count"`
	Total        int               `json:"total"`
	RequestedIDs []uuid.UUID       `json:"requested_ids"`
	DeletedIDs   []uuid.UUID       `json:"deleted_ids"`
	AbsentIDs    []uuid.UUID       `json:"absent_ids"`
	Errors       []BulkDeleteError `json:"errors"`
}

// BulkDeleteError reports a disk-level failure for one deleted record.
type BulkDeleteError struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Error string    `json:"error"`
}
