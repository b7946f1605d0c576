package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures of the lifecycle engine and its collaborators
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindForbidden         Kind = "Forbidden"
	KindValidation        Kind = "ValidationFailed"
	KindInvalidTransition Kind = "InvalidTransition"
	KindConflict          Kind = "Conflict"
	KindCascadeFailed     Kind = "CascadeFailed"
	KindInternal          Kind = "Internal"
)

// Error is the typed error returned by services
type Error struct {
	Kind     Kind
	Message  string
	Resource string
	ID       string
	From     string
	To       string
	Role     string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(resource, id string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  fmt.Sprintf("%s %s not found", resource, id),
		Resource: resource,
		ID:       id,
	}
}

func Forbidden(role, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindForbidden,
		Message: fmt.Sprintf(format, args...),
		Role:    role,
	}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidTransition names the current and the attempted stage
func InvalidTransition(id, from, to string) *Error {
	return &Error{
		Kind:     KindInvalidTransition,
		Message:  fmt.Sprintf("request %s cannot move from %s to %s", id, from, to),
		Resource: "request",
		ID:       id,
		From:     from,
		To:       to,
	}
}

func Conflict(resource, id string, err error) *Error {
	return &Error{
		Kind:     KindConflict,
		Message:  fmt.Sprintf("%s %s was modified concurrently", resource, id),
		Resource: resource,
		ID:       id,
		Err:      err,
	}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// CascadeError reports a failed coupled write of a request and its equipment.
// The applied flags tell the caller which records actually changed.
type CascadeError struct {
	RequestID        string
	EquipmentID      string
	RequestApplied   bool
	EquipmentApplied bool
	Err              error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade update of request %s and equipment %s failed (request applied: %t, equipment applied: %t): %v",
		e.RequestID, e.EquipmentID, e.RequestApplied, e.EquipmentApplied, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// KindOf extracts the kind of err, KindInternal when it carries none
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var cascade *CascadeError
	if errors.As(err, &cascade) {
		return KindCascadeFailed
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
