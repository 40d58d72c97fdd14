package noise

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a build pass was rejected.
type ErrorKind uint8

const (
	// ArityMismatch means a constructor, operator or method received the
	// wrong number of arguments.
	ArityMismatch ErrorKind = iota
	// TypeMismatch means a value of the wrong kind was used where a graph
	// or a number was required, or a handle does not belong to the
	// current generation.
	TypeMismatch
	// MissingResult means the description never designated a root.
	MissingResult
	// InvalidRange means an argument is outside its legal range, e.g.
	// clamp(lo, hi) with lo > hi, or a non-finite frequency where
	// finiteness is required.
	InvalidRange
)

// String returns the kind's name as it appears in error messages.
func (k ErrorKind) String() string {
	switch k {
	case ArityMismatch:
		return "arity mismatch"
	case TypeMismatch:
		return "type mismatch"
	case MissingResult:
		return "missing result"
	case InvalidRange:
		return "invalid range"
	default:
		return "unknown"
	}
}

// BuildError reports a rejected build step. Build errors are local to one
// reload attempt: they never touch the previously active generation and
// are never fatal to the process.
type BuildError struct {
	Kind   ErrorKind
	Detail string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// buildErrorf constructs a BuildError with a formatted detail message.
func buildErrorf(kind ErrorKind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) a BuildError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Kind == kind
}
