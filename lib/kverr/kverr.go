package kverr

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// Kind classifies an Error.
type Kind uint8

const (
	KindUnknown      Kind = iota // result did not match its documented shape
	KindTimeout                  // operation timed out in the store
	KindAbort                    // transaction aborted
	KindNotFound                 // key not found
	KindKeyChanged               // test_and_set found a different value
	KindConnection               // transport failure
	KindIllegalState             // request list misuse
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindTimeout:
		return "timeout"
	case KindAbort:
		return "abort"
	case KindNotFound:
		return "not_found"
	case KindKeyChanged:
		return "key_changed"
	case KindConnection:
		return "connection"
	case KindIllegalState:
		return "illegal_state"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by every txKV operation.
type Error struct {
	Kind Kind
	// Raw is the result payload that caused the error (nil for local errors)
	Raw any
	// OldValue is the decoded current value for KindKeyChanged
	OldValue any
	// Msg describes local errors (illegal state, connection problems)
	Msg string
	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := "txkv " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Raw != nil {
		s += fmt.Sprintf(": %v", e.Raw)
	}
	if e.Kind == KindKeyChanged {
		s += fmt.Sprintf(", old value: %v", e.OldValue)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
// This makes the package sentinels usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// --------------------------------------------------------------------------
// Sentinels
// --------------------------------------------------------------------------

var (
	ErrUnknown      = &Error{Kind: KindUnknown}
	ErrTimeout      = &Error{Kind: KindTimeout}
	ErrAbort        = &Error{Kind: KindAbort}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrKeyChanged   = &Error{Kind: KindKeyChanged}
	ErrConnection   = &Error{Kind: KindConnection}
	ErrIllegalState = &Error{Kind: KindIllegalState}
)

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// Timeout creates a KindTimeout error for the given raw result.
func Timeout(raw any) *Error {
	return &Error{Kind: KindTimeout, Raw: raw}
}

// Abort creates a KindAbort error for the given raw result.
func Abort(raw any) *Error {
	return &Error{Kind: KindAbort, Raw: raw}
}

// NotFound creates a KindNotFound error for the given raw result.
func NotFound(raw any) *Error {
	return &Error{Kind: KindNotFound, Raw: raw}
}

// KeyChanged creates a KindKeyChanged error carrying the decoded old value.
func KeyChanged(raw any, oldValue any) *Error {
	return &Error{Kind: KindKeyChanged, Raw: raw, OldValue: oldValue}
}

// Unknown creates a KindUnknown error carrying the unmodified payload.
func Unknown(raw any) *Error {
	return &Error{Kind: KindUnknown, Raw: raw}
}

// Unknownf creates a KindUnknown error with a message and the offending payload.
func Unknownf(raw any, format string, args ...any) *Error {
	return &Error{Kind: KindUnknown, Raw: raw, Msg: fmt.Sprintf(format, args...)}
}

// Connection wraps a transport failure.
func Connection(err error) *Error {
	return &Error{Kind: KindConnection, Err: err}
}

// Connectionf creates a connection error with a message.
func Connectionf(format string, args ...any) *Error {
	return &Error{Kind: KindConnection, Msg: fmt.Sprintf(format, args...)}
}

// IllegalState creates a KindIllegalState error.
func IllegalState(msg string) *Error {
	return &Error{Kind: KindIllegalState, Msg: msg}
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
// ok is false for nil errors and errors of other types.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnknown, false
}
