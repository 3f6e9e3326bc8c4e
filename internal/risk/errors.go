package risk

import (
	"errors"
	"fmt"
)

// Failure kinds of a scoring invocation. Callers match them with errors.Is
// instead of inspecting error strings.
var (
	// ErrEmptyResponse is returned when the model produced no payload at all.
	ErrEmptyResponse = errors.New("empty response from scoring model")

	// ErrMalformedResponse is returned when the payload does not conform to
	// the assessment contract: invalid JSON, a missing required field, a
	// wrong field type, an unknown risk level, or a score outside [0, 100].
	ErrMalformedResponse = errors.New("malformed response from scoring model")

	// ErrTransport is returned when the model could not be reached or
	// rejected the call: missing or invalid API key, rate limit, timeout,
	// network failure. The subtypes are deliberately not distinguished.
	ErrTransport = errors.New("scoring model transport failure")
)

// Error is an assessment failure tagged with one of the three kind
// sentinels above.
type Error struct {
	Kind  error // ErrEmptyResponse, ErrMalformedResponse, or ErrTransport
	Cause error // optional underlying error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind.Error(), e.Cause)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches the kind sentinel, so errors.Is(err, risk.ErrTransport) works
// on wrapped assessment errors.
func (e *Error) Is(target error) bool { return target == e.Kind }

func emptyErr() error                { return &Error{Kind: ErrEmptyResponse} }
func malformedErr(cause error) error { return &Error{Kind: ErrMalformedResponse, Cause: cause} }
func transportErr(cause error) error { return &Error{Kind: ErrTransport, Cause: cause} }
