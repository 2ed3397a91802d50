package auth

import "fmt"

// Kind classifies a failed backend interaction
type Kind string

const (
	// KindUnauthenticated means no credential was present; no network call
	// was made.
	KindUnauthenticated Kind = "unauthenticated"
	// KindInvalidCredentials means the backend rejected a login or
	// registration attempt.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindHTTP covers any other non-2xx response; Status carries the code.
	KindHTTP Kind = "http"
	// KindNetwork covers transport, DNS and timeout failures.
	KindNetwork Kind = "network"
	// KindProvider covers federated handshake failures.
	KindProvider Kind = "provider"
)

// APIError is the normalized failure shape for every backend interaction.
// Message prefers server-supplied error text over HTTP status text.
type APIError struct {
	Kind    Kind
	Status  int // HTTP status, when Kind is KindHTTP or KindInvalidCredentials
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrUnauthenticated builds the fail-fast error used when the token store is
// empty.
func ErrUnauthenticated() *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: "authentication token not found"}
}

// Outcome is the tagged result of a backend interaction: a value or an
// *APIError, never both.
type Outcome[T any] struct {
	Value T
	Err   *APIError
}

// Success wraps a value in a successful outcome
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failure wraps an error in a failed outcome
func Failure[T any](err *APIError) Outcome[T] {
	return Outcome[T]{Err: err}
}

// OK reports whether the outcome carries a value
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Unwrap returns the value and the error in Go's usual shape
func (o Outcome[T]) Unwrap() (T, error) {
	if o.Err != nil {
		return o.Value, o.Err
	}
	return o.Value, nil
}
