package storage

import "errors"

// Storage errors returned by System implementations.
var (
	// ErrTmpNotFound indicates the temporary source file does not exist.
	ErrTmpNotFound = errors.New("storage: temporary file not found")

	// ErrTmpUnreadable indicates the temporary source file cannot be read.
	ErrTmpUnreadable = errors.New("storage: cannot read temporary file")

	// ErrDirNotWritable indicates the target directory rejected writes
	// even after a permission repair.
	ErrDirNotWritable = errors.New("storage: upload directory not writable")

	// ErrInvalidPath indicates a path outside the storage base directory.
	ErrInvalidPath = errors.New("storage: invalid path")
)
