// errors.go — Closed error set for capture and messaging failures.
package types

import "errors"

// CaptureErrorKind enumerates the ways capture can fail.
type CaptureErrorKind int

const (
	// Detached: the messaging channel to the host is permanently unusable.
	Detached CaptureErrorKind = iota + 1
	// Malformed: an input could not be parsed.
	Malformed
	// Unsupported: the host does not expose the requested capability.
	Unsupported
)

func (k CaptureErrorKind) String() string {
	switch k {
	case Detached:
		return "detached"
	case Malformed:
		return "malformed"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrDetached    = &CaptureError{Kind: Detached}
	ErrMalformed   = &CaptureError{Kind: Malformed}
	ErrUnsupported = &CaptureError{Kind: Unsupported}
)

// CaptureError is a classified capture failure. Two CaptureErrors match under
// errors.Is when their kinds are equal.
type CaptureError struct {
	Kind CaptureErrorKind
	Op   string
	Err  error
}

// NewCaptureError builds a CaptureError of kind for op, wrapping err.
func NewCaptureError(kind CaptureErrorKind, op string, err error) *CaptureError {
	return &CaptureError{Kind: kind, Op: op, Err: err}
}

func (e *CaptureError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Is matches on kind only.
func (e *CaptureError) Is(target error) bool {
	var t *CaptureError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the CaptureErrorKind carried by err, or 0 when err is not a CaptureError.
func KindOf(err error) CaptureErrorKind {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
