package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRevisionLimitExceeded = errors.New("revision limit exceeded")
	ErrOrderNotFound         = errors.New("order not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrNotFound              = errors.New("resource not found")
	ErrNoOpenDispute         = errors.New("order has no open dispute")
	ErrNoPendingCancellation = errors.New("order has no pending cancellation request")
	ErrSessionClosed         = errors.New("session closed")
)

// ValidationError covers malformed input caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError is returned when a lifecycle action is attempted
// from a state outside its allowed-source set. The order is left unchanged.
type InvalidTransitionError struct {
	OrderID   string
	From      OrderStatus
	Attempted OrderStatus
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("order %s: cannot move %s -> %s: %s", e.OrderID, e.From, e.Attempted, e.Reason)
	}
	return fmt.Sprintf("order %s: cannot move %s -> %s", e.OrderID, e.From, e.Attempted)
}

// TransportError wraps a network or channel failure.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// AuthError signals an expired or missing credential.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed: %s", e.Reason)
}

// ConflictError means the server reports the requested change was already
// performed by the other party. The caller must resync and discard any
// optimistic local state.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %s: already changed remotely", e.Resource, e.ID)
}
