package secuofx

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Adapters signal genuine absence of data with ErrNotFound, and timeouts with
// ErrTimeout. Any other error is a transient source failure.
var (
	ErrNotFound = errors.New("no data for the requested date")
	ErrTimeout  = errors.New("source timed out")
)

// ErrorKind tags the reason of a FetchError.
type ErrorKind int

const (
	ClassificationFailed ErrorKind = iota + 1 // the identifier matches no known format.
	SourceUnavailable                         // every attempt failed with a transient error.
	NotFoundForDate                           // a source answered, but has no price at or before that date.
	Timeout                                   // the last attempt timed out.
)

func (k ErrorKind) String() string {
	switch k {
	case ClassificationFailed:
		return "ClassificationFailed"
	case SourceUnavailable:
		return "SourceUnavailable"
	case NotFoundForDate:
		return "NotFoundForDate"
	case Timeout:
		return "Timeout"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// FetchError is the failure of resolving a single identifier.
type FetchError struct {
	Identifier string
	Kind       ErrorKind
	Message    string
	Err        error // last underlying error, if any.
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Identifier, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a timeout, either from a context deadline,
// the network stack, or an adapter returning ErrTimeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// failureKind maps the last adapter error to the error kind reported once retries are exhausted.
func failureKind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundForDate
	case IsTimeout(err):
		return Timeout
	default:
		return SourceUnavailable
	}
}
