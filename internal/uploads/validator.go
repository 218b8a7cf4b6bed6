package uploads

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Validator performs the pure per-file policy check: transport status,
// declared size, and MIME-type allow-lists.
type Validator struct {
	maxFileSize int64
	categories  CategorySet
}

// NewValidator creates a validator with the given size ceiling and category
// allow-lists.
func NewValidator(maxFileSize int64, categories CategorySet) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		categories:  categories,
	}
}

// Validate checks one descriptor and returns its category on success. The
// check has no side effects; the returned error is always a
// *ValidationError carrying the client-facing message.
func (v *Validator) Validate(d Descriptor) (Category, error) {
	if !d.Complete() {
		return "", &ValidationError{Reason: msgMissingInfo}
	}

	if d.Code != CodeOK {
		return "", &ValidationError{Reason: d.Code.Message()}
	}

	if d.Size <= 0 {
		return "", &ValidationError{Reason: "File is empty"}
	}

	if d.Size > v.maxFileSize {
		return "", &ValidationError{Reason: fmt.Sprintf(
			"File size %s exceeds limit of %s",
			FormatBytes(d.Size),
			FormatBytes(v.maxFileSize),
		)}
	}

	category, ok := v.categories.Resolve(d.Type)
	if !ok {
		return "", &ValidationError{Reason: fmt.Sprintf(
			"File type %s is not allowed. Allowed types: %s",
			d.Type,
			strings.Join(v.categories.AllTypes(), ", "),
		)}
	}

	return category, nil
}

// FormatBytes renders a byte count in binary units (1024-based) with two
// decimal places, e.g. "10.50 GB".
func FormatBytes(n int64) string {
	return units.CustomSize("%.2f %s", float64(n), 1024.0, sizeUnits)
}
