package analysis

import (
	"errors"
	"fmt"
)

// NotFoundError is the soft failure of a point query: nothing is known at
// the requested offset. Text under live editing is routinely incomplete, so
// callers treat this as "no information here", not as a fault. Hard frontend
// failures propagate as ordinary errors and never wrap NotFoundError.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Reason
}

func notFound(format string, args ...any) error {
	return &NotFoundError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a soft point-query miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
