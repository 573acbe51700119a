// Package errs defines the error taxonomy shared by every ymagine package.
//
// The core never logs; it only ever returns one of these kinds, wrapping
// the underlying cause so callers can still inspect it with errors.As.
package errs

import "fmt"

// Kind is a coarse error category. Codec- and library-internal errors are
// coalesced into one of these before they cross a package boundary.
type Kind int

const (
	// BadInput marks an unsupported format, a corrupt header, or a size
	// outside what the decoder can represent.
	BadInput Kind = iota
	// InvalidArgument marks a nonsensical option value (negative crop
	// width, unknown scale mode, and similar caller mistakes).
	InvalidArgument
	// ResourceExhausted marks an allocation failure or a buffer request
	// too large for available memory.
	ResourceExhausted
	// IoError marks a failed upstream channel read or write.
	IoError
	// Aborted marks a stop requested by a progress callback or a writer.
	Aborted
	// InvalidState marks an operation attempted on an object in the
	// wrong state: a locked/unlocked bitmap, an unconfigured Transformer.
	InvalidState
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "bad input"
	case InvalidArgument:
		return "invalid argument"
	case ResourceExhausted:
		return "resource exhausted"
	case IoError:
		return "io error"
	case Aborted:
		return "aborted"
	case InvalidState:
		return "invalid state"
	default:
		return "unknown error"
	}
}

// Error is the one error type every public ymagine function returns.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, errs.New(errs.Aborted, "", nil)) style checks,
// or read the Kind directly with Of below instead.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error of the given kind for operation op, wrapping cause
// (which may be nil).
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Of reports the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
