package item

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation error codes, stable for callers that switch on them
const (
	codeTitleEmpty       = "recap.item.title_empty"
	codeDescriptionEmpty = "recap.item.description_empty"
	codeCommentEmpty     = "recap.item.comment_empty"
)

var (
	errTitleEmpty       = validation.NewError(codeTitleEmpty, "title is empty")
	errDescriptionEmpty = validation.NewError(codeDescriptionEmpty, "description is empty")
	errCommentEmpty     = validation.NewError(codeCommentEmpty, "comment is empty")
)

// ValidationError reports user-supplied text that was rejected before any
// state changed. Field names which input failed: "title", "description" or
// "comment".
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code returns the ozzo error code, or "" when the cause carries none
func (e *ValidationError) Code() string {
	var verr validation.Error
	if errors.As(e.Err, &verr) {
		return verr.Code()
	}
	return ""
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// requireText runs the ozzo Required rule with a field-specific message.
// Only the empty string fails; whitespace is accepted as text.
func requireText(field, value string, msg validation.Error) error {
	if err := validation.Validate(value, validation.Required.ErrorObject(msg)); err != nil {
		return &ValidationError{Field: field, Err: err}
	}
	return nil
}
