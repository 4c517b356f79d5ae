package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrUnrecognizedOpcode = stderrors.New("unrecognized opcode")
	ErrUnrecognizedMode   = stderrors.New("unrecognized mode")
	ErrImmediateWrite     = stderrors.New("write through immediate-mode parameter")
	ErrNegativeAddress    = stderrors.New("negative address")
	ErrInputExhausted     = stderrors.New("program awaits input that was not supplied")
	ErrMalformedSource    = stderrors.New("malformed program source")
)

// FaultError is a fatal execution or load failure. The machine that raised it
// must not be resumed.
type FaultError struct {
	Message string
	Cause   error
}

func (e *FaultError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FaultError) Unwrap() error {
	return e.Cause
}

// IsFault checks if an error is (or wraps) a fault
func IsFault(err error) bool {
	var fault *FaultError
	return stderrors.As(err, &fault)
}

// WrapFault wraps an existing error as a fault
func WrapFault(err error, message string) *FaultError {
	return &FaultError{
		Message: message,
		Cause:   err,
	}
}

// Faultf creates a fault with a formatted message around the given cause
func Faultf(cause error, format string, args ...interface{}) *FaultError {
	return &FaultError{
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}
