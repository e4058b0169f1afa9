package validation

import "errors"

// Error is a field-level input error. Handlers answer it with 400.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// As unwraps err into a *Error if it is one.
func As(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
