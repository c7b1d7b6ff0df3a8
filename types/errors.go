package types

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

const (
	// ErrCodeLex classifies character level recognition failures.
	ErrCodeLex = "LexError"
	// ErrCodeParse classifies grammar level recognition failures.
	ErrCodeParse = "ParseError"
	// ErrCodeValidation classifies statements that cannot be lowered into a request.
	ErrCodeValidation = "ValidationException"

	noPosition = -1
)

// An Error wraps lower level errors with code, message and an original error.
// The underlying concrete error type may also satisfy other interfaces which
// can be to used to obtain more specific information about the error.
type Error interface {
	error

	Code() string
	Message() string
	OrigErr() error
}

// BatchedErrors is a batch of errors which also wraps lower level errors with
// code, message, and original errors. Calling Error() will include all errors
// that occurred in the batch.
type BatchedErrors interface {
	Error
	OrigErrs() []error
}

// PositionError is an Error raised at a byte offset of the parsed input.
type PositionError interface {
	BatchedErrors
	Position() int
}

// NewError returns an Error object described by the code, message, and origErr.
func NewError(code, message string, origErr error) Error {
	var errs []error
	if origErr != nil {
		errs = append(errs, origErr)
	}

	return newBaseError(code, message, noPosition, errs)
}

// NewBatchError returns an BatchedErrors with a collection of errors as an
// array of errors.
func NewBatchError(code, message string, errs []error) BatchedErrors {
	return newBaseError(code, message, noPosition, errs)
}

// NewLexError returns the error raised when the lexer cannot recognize the
// token starting at pos.
func NewLexError(pos int, message string) PositionError {
	return newBaseError(ErrCodeLex, message, pos, nil)
}

// NewParseError returns the error raised when no grammar rule matches the
// input at pos. errs holds the failures of the candidate rules, if any.
func NewParseError(pos int, message string, errs []error) PositionError {
	return newBaseError(ErrCodeParse, message, pos, errs)
}

// IsCode reports whether any error in err's chain is an Error with the given code.
func IsCode(err error, code string) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Code() == code
}

// SprintError returns a string of the formatted error code.
func SprintError(code, message, extra string, origErr error) string {
	msg := fmt.Sprintf("%s: %s", code, message)
	if extra != "" {
		msg = fmt.Sprintf("%s\n\t%s", msg, extra)
	}

	if origErr != nil {
		msg = fmt.Sprintf("%s\ncaused by: %s", msg, origErr.Error())
	}

	return msg
}

// A baseError wraps the code and message which defines an error. It also
// can be used to wrap an original error object.
type baseError struct {
	code    string
	message string
	pos     int
	errs    []error
}

func newBaseError(code, message string, pos int, origErrs []error) *baseError {
	return &baseError{
		code:    code,
		message: message,
		pos:     pos,
		errs:    origErrs,
	}
}

// Error returns the string representation of the error.
func (b baseError) Error() string {
	extra := ""
	if b.pos != noPosition {
		extra = fmt.Sprintf("offset: %d", b.pos)
	}

	if len(b.errs) > 0 {
		return SprintError(b.code, b.message, extra, errorList(b.errs))
	}

	return SprintError(b.code, b.message, extra, nil)
}

// String returns the string representation of the error.
// Alias for Error to satisfy the stringer interface.
func (b baseError) String() string {
	return b.Error()
}

// Code returns the short phrase depicting the classification of the error.
func (b baseError) Code() string {
	return b.code
}

// Message returns the error details message.
func (b baseError) Message() string {
	return b.message
}

// Position returns the byte offset of the input where the error was raised,
// or -1 when the error is not tied to the input.
func (b baseError) Position() int {
	return b.pos
}

// OrigErr returns the original error if one was set. Nil is returned if no
// error was set. This only returns the first element in the list. If the full
// list is needed, use BatchedErrors.
func (b baseError) OrigErr() error {
	switch len(b.errs) {
	case 0:
		return nil
	case 1:
		return b.errs[0]
	default:
		if err, ok := b.errs[0].(Error); ok {
			return NewBatchError(err.Code(), err.Message(), b.errs[1:])
		}

		return NewBatchError("BatchedErrors",
			"multiple errors occurred", b.errs)
	}
}

// OrigErrs returns the original errors if one was set. An empty slice is
// returned if no error was set.
func (b baseError) OrigErrs() []error {
	return b.errs
}

// Unwrap exposes the original errors to errors.Is and errors.As.
func (b baseError) Unwrap() []error {
	return b.errs
}

// ErrorCode satisfies smithy.APIError.
func (b baseError) ErrorCode() string {
	return b.code
}

// ErrorMessage satisfies smithy.APIError.
func (b baseError) ErrorMessage() string {
	return b.message
}

// ErrorFault satisfies smithy.APIError. Every error raised here is caused by
// the submitted statement.
func (b baseError) ErrorFault() smithy.ErrorFault {
	return smithy.FaultClient
}

// An error list that satisfies the golang interface
type errorList []error

// Error returns the string representation of the error.
//
// Satisfies the error interface.
func (e errorList) Error() string {
	msg := ""

	if size := len(e); size > 0 {
		for i := 0; i < size; i++ {
			msg += e[i].Error()
			// newline only between entries so single errors print unchanged
			if i+1 < size {
				msg += "\n"
			}
		}
	}

	return msg
}
