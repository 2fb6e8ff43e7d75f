package api

// Error is returned by every Client operation that fails. Message is a
// single human-readable sentence suitable for a transient notice; the
// underlying cause, when known, is kept for logs.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message reduces any error to a user-facing sentence. Errors produced by
// this package already carry one; anything else gets a generic fallback.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if aerr, ok := err.(*Error); ok {
		return aerr.Message
	}
	return "something went wrong, please try again"
}
