package tracker

import "errors"

// ParseError reports raw input that is not valid JSON text.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid action - must be JSON string"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a parsed record that does not have the expected shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid action - " + e.Reason
}

var (
	// ErrMissingAction is returned when the action field is absent or falsy.
	ErrMissingAction = &ValidationError{Field: "action", Reason: "missing action"}
	// ErrActionNotString is returned when the action field is not a string.
	ErrActionNotString = &ValidationError{Field: "action", Reason: "action must be a string"}
	// ErrMissingTime is returned when the time field is absent or null.
	ErrMissingTime = &ValidationError{Field: "time", Reason: "missing time"}
	// ErrInvalidTime is returned when time is not a non-negative number.
	ErrInvalidTime = &ValidationError{Field: "time", Reason: "time must be a positive int"}
)

// AddActionError is the only error surface of AddAction. It wraps either a
// *ParseError or a *ValidationError.
type AddActionError struct {
	Err error
}

func (e *AddActionError) Error() string {
	return "addAction - " + e.Err.Error()
}

func (e *AddActionError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
