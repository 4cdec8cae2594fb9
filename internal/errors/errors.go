// Package errors carries a Kind alongside each failure so command code
// can pick the right user-facing response (log in again, pick a
// database, retry) without string matching. The wrapped cause stays
// reachable through errors.Is/As.
package errors

import "fmt"

// Kind is the machine-readable category of a failure.
type Kind string

const (
	// AuthRequired: no stored API token was found.
	AuthRequired Kind = "auth_required"
	// TokenRejected: the backend refused the API token.
	TokenRejected Kind = "token_rejected"
	// RequestFailed: an HTTP request could not be completed.
	RequestFailed Kind = "request_failed"
	// StreamInterrupted: a streaming response ended abnormally.
	StreamInterrupted Kind = "stream_interrupted"
	// NoDatabase: no target database has been selected.
	NoDatabase Kind = "no_database"
	// ConfirmationPending: a destructive operation awaits a decision.
	ConfirmationPending Kind = "confirmation_pending"
)

// E is a categorized error, optionally wrapping a cause.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

// New builds a categorized error with no underlying cause.
func New(kind Kind, msg string) *E { return &E{Kind: kind, Message: msg} }

// Wrap builds a categorized error around an underlying cause.
func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }
