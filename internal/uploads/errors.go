package uploads

// ValidationError reports a file rejected by transport status, size, or
// MIME-type policy. The reason is the message surfaced to the client in the
// per-item result.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

const msgMissingInfo = "Missing file information"
