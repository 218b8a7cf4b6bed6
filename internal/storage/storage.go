// Package storage moves validated upload payloads into per-category
// directories on the local filesystem. Stored names are random hex tokens,
// never the client-supplied name, so collisions and path traversal are not
// a concern for serving.
package storage

import "context"

// System defines the storage operations for the upload pipeline.
// Implementations own stored-name generation and directory management.
type System interface {
	// Init creates the base directory and the named category directories,
	// repairing permissions so concurrent workers can write.
	Init(dirs ...string) error

	// Store moves the temporary file at tmpPath into the category
	// directory under a freshly generated stored name carrying ext.
	// The target is created exclusively; on a name collision a new name
	// is generated. On success the temporary source is removed
	// best-effort. Returns the stored name and the absolute target path.
	Store(ctx context.Context, tmpPath, dir, ext string) (string, string, error)

	// Remove deletes a stored file. A missing file is not an error.
	Remove(ctx context.Context, path string) error
}
