package models

import "errors"

// StructuralError marks a request malformed beyond repair: no meaningful
// prediction can be produced for it. In batch mode the error is isolated
// to the offending item.
type StructuralError struct {
	Field  string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NewStructuralError creates a StructuralError for the given field.
func NewStructuralError(field, reason string) *StructuralError {
	return &StructuralError{Field: field, Reason: reason}
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
