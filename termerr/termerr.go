// Package termerr defines the error kinds the runtime surfaces (§7) and
// wraps underlying causes with github.com/pkg/errors, the way peco-peco
// wraps tcell/terminal failures in its own command layer.
package termerr

import "github.com/pkg/errors"

// Kind classifies a runtime failure.
type Kind uint8

const (
	// DeviceIo is any failure returned by the TerminalAdapter.
	DeviceIo Kind = iota
	// Lock is a mutex left poisoned after one retry.
	Lock
	// Channel is a send on a channel whose receiver is gone.
	Channel
	// NotFound is Store.Set for a screen id that does not exist.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case DeviceIo:
		return "device_io"
	case Lock:
		return "lock"
	case Channel:
		return "channel"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with a wrapped cause.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Wrap attaches kind and msg context to cause via errors.Wrap, preserving
// the original cause for errors.Cause / errors.As.
func Wrap(kind Kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(cause, msg)}
}

// New creates an Error of the given kind whose cause is a new error
// carrying msg.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Is reports whether err (or any error it wraps) is a *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if as, ok := err.(*Error); ok {
			e = as
			if e.Kind == k {
				return true
			}
			err = e.cause
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Cause unwraps to the deepest non-termerr cause, mirroring errors.Cause.
func Cause(err error) error {
	for {
		err = errors.Cause(err)
		e, ok := err.(*Error)
		if !ok || e.cause == nil {
			return err
		}
		err = e.cause
	}
}
