// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can branch on the category while the
// message stays suitable for display.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// SessionMissing indicates an operation needed an authenticated session.
	SessionMissing Kind = "session_missing"
	// StorageUnavailable indicates the OS keychain could not be opened or written.
	StorageUnavailable Kind = "storage_unavailable"
	// InvalidInput indicates caller-supplied data was rejected before any remote call.
	InvalidInput Kind = "invalid_input"
	// ProvisionTimeout indicates the profile row never appeared after sign-up.
	ProvisionTimeout Kind = "provision_timeout"
	// RemoteFailed indicates the hosted backend rejected or failed a request.
	RemoteFailed Kind = "remote_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// IsKind reports whether any error in err's chain is an *E of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *E
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
