// Package uploads implements the upload pipeline: normalization of the raw
// multipart file structure into a canonical descriptor sequence, per-file
// validation against size and MIME-type policy, and orchestration of
// storage writes and metadata recording with per-item failure isolation.
package uploads

// Code is the transport-level status of an uploaded file entry. The numeric
// values match the wire encoding used by upload transports, which leaves a
// gap at 5.
type Code int

const (
	CodeOK             Code = 0
	CodeTooLargePolicy Code = 1
	CodeTooLargeForm   Code = 2
	CodePartial        Code = 3
	CodeNoFile         Code = 4
	CodeNoTmpDir       Code = 6
	CodeCantWrite      Code = 7
	CodeExtension      Code = 8
)

// Message returns the human-readable description of the transport status.
func (c Code) Message() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeTooLargePolicy:
		return "File size exceeds the server upload limit"
	case CodeTooLargeForm:
		return "File size exceeds the form upload limit"
	case CodePartial:
		return "File was only partially uploaded"
	case CodeNoFile:
		return "No file was uploaded"
	case CodeNoTmpDir:
		return "Missing temporary folder"
	case CodeCantWrite:
		return "Failed to write file to disk"
	case CodeExtension:
		return "File upload stopped by extension"
	default:
		return "Unknown upload error"
	}
}

// Descriptor is the canonical per-file record produced by normalization and
// carried through validation and storage. All fields are untrusted until
// validation succeeds.
type Descriptor struct {
	// Name is the client-supplied display name.
	Name string

	// Type is the declared MIME type, without parameters.
	Type string

	// TmpPath is the temporary buffered copy of the payload.
	TmpPath string

	// Code is the transport-level status of the entry.
	Code Code

	// Size is the declared payload size in bytes.
	Size int64

	// Missing lists required wire fields absent from the raw entry. A
	// descriptor with missing fields is carried through normalization so
	// it surfaces as a per-item failure instead of aborting the batch.
	Missing []string
}

// Complete reports whether every required wire field was present.
func (d Descriptor) Complete() bool {
	return len(d.Missing) == 0
}
