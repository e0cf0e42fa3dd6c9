package bencode

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decoding failure.
type ErrorKind uint8

const (
	InvalidControlCharacter ErrorKind = iota + 1
	MalformedInteger
	MalformedInput
	OutOfData
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidControlCharacter:
		return "invalid control character"
	case MalformedInteger:
		return "malformed integer"
	case MalformedInput:
		return "malformed input"
	case OutOfData:
		return "out of data"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is returned for every decoding failure.
type Error struct {
	Kind   ErrorKind
	Offset int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bencode: %s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("bencode: %s at offset %d: %v", e.Kind, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidControlCharacter = &Error{Kind: InvalidControlCharacter}
	ErrMalformedInteger        = &Error{Kind: MalformedInteger}
	ErrMalformedInput          = &Error{Kind: MalformedInput}
	ErrOutOfData               = &Error{Kind: OutOfData}

	ErrInvalidValue = errors.New("bencode: cannot encode invalid value")
)

var (
	errLeadingZero  = errors.New("leading zero")
	errNegativeZero = errors.New("negative zero")
	errEmptyInteger = errors.New("empty integer")
	errNotDigit     = errors.New("non-digit in integer")
	errNegativeLen  = errors.New("negative string length")
	errKeyNotString = errors.New("dictionary key is not a byte string")
	errTooDeep      = errors.New("nesting too deep")
	errTrailingData = errors.New("trailing data after value")
)
