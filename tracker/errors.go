package tracker

import (
	"errors"
	"fmt"
)

type ErrorKind uint8

const (
	Transport ErrorKind = iota + 1
	Status
	InvalidResponse
)

func (k ErrorKind) String() string {
	switch k {
	case Transport:
		return "transport failure"
	case Status:
		return "unexpected status"
	case InvalidResponse:
		return "invalid response"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is returned for a failed announce.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := "tracker: " + e.Kind.String()
	if e.URL != "" {
		msg += " from " + e.URL
	}
	if e.Kind == Status {
		msg += fmt.Sprintf(": %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrTransport       = &Error{Kind: Transport}
	ErrStatus          = &Error{Kind: Status}
	ErrInvalidResponse = &Error{Kind: InvalidResponse}

	// ErrFailure wraps a "failure reason" sent by the tracker.
	ErrFailure = errors.New("tracker: announce failed")
)
