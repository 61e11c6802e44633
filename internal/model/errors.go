package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of a sync pass
type ErrorKind string

const (
	ErrConfiguration        ErrorKind = "configuration"
	ErrSourceFetch          ErrorKind = "source fetch"
	ErrDestinationQuery     ErrorKind = "destination query"
	ErrDestinationCreate    ErrorKind = "destination create"
	ErrDestinationUpdate    ErrorKind = "destination update"
	ErrDestinationSecondary ErrorKind = "destination secondary"
	ErrNotification         ErrorKind = "notification"
)

// Error is a classified sync failure. Advisory kinds are logged by callers and
// never abort a pass; all other kinds are fatal.
type Error struct {
	Kind ErrorKind
	Op   string
	// StatusCode and Body are set when the failure was a non-success HTTP response
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (%d): %s", msg, e.StatusCode, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Advisory returns true for failures that must not abort a pass
func (e *Error) Advisory() bool {
	return e.Kind == ErrDestinationSecondary || e.Kind == ErrNotification
}

// Errorf returns a new classified error
func Errorf(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: fmt.Sprintf(format, args...), Err: err}
}

// IsKind returns true if err is a classified error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsAdvisory returns true if err is a classified advisory error
func IsAdvisory(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Advisory()
}
