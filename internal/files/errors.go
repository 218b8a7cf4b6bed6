package files

import (
	"errors"
	"net/http"
)

// Domain errors for stored-file operations.
var (
	ErrNotFound    = errors.New("file not found")
	ErrDuplicate   = errors.New("stored name already exists")
	ErrInvalidName = errors.New("invalid file name")
	ErrNoFiles     = errors.New("no files uploaded")
	ErrNoIDs       = errors.New("no file IDs provided for deletion")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrNoFiles) || errors.Is(err, ErrNoIDs) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
