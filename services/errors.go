package services

import (
	"errors"
	"fmt"
	"net/http"

	"wedding-server/models"
	"wedding-server/storage"
)

// ErrorCode is the closed set of failure categories the services layer
// surfaces. Resource type and invitation id travel as data on the error
// rather than as distinct error types per resource.
type ErrorCode string

const (
	CodeInsufficientCapacity ErrorCode = "insufficient_capacity"
	CodeDuplicateReservation ErrorCode = "duplicate_reservation"
	CodeNotFound             ErrorCode = "not_found"
	CodeNotConfigured        ErrorCode = "not_configured"
	CodeRSVPCascadeFailed    ErrorCode = "rsvp_cascade_failed"
	CodeInternal             ErrorCode = "internal"
)

// Error is the typed error every service operation fails with. It carries
// enough context for the routes layer to render a response without
// inspecting wrapped storage errors.
type Error struct {
	Code         ErrorCode
	Resource     models.ResourceType
	InvitationID string
	Message      string
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error to its HTTP equivalent. Capacity conflicts and
// duplicates are conflicts, so clients can tell "fully booked" apart from
// "no such invitation".
func (e *Error) StatusCode() int {
	switch e.Code {
	case CodeInsufficientCapacity, CodeDuplicateReservation:
		return http.StatusConflict
	case CodeNotFound, CodeNotConfigured:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AsError extracts a service Error from an error chain.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

func isStorageNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func newError(code ErrorCode, resource models.ResourceType, invitationID, message string) *Error {
	return &Error{Code: code, Resource: resource, InvitationID: invitationID, Message: message}
}

// classify turns a storage error into a typed service error. Unknown
// storage failures are wrapped as internal rather than leaked raw.
func classify(err error, resource models.ResourceType, invitationID string) *Error {
	if svcErr, ok := AsError(err); ok {
		return svcErr
	}
	e := &Error{Resource: resource, InvitationID: invitationID, Err: err}
	switch {
	case errors.Is(err, storage.ErrCapacityExceeded):
		e.Code = CodeInsufficientCapacity
		e.Message = "not enough spots available"
	case errors.Is(err, storage.ErrDuplicate):
		e.Code = CodeDuplicateReservation
		e.Message = "reservation already exists for this invitation"
	case errors.Is(err, storage.ErrNotFound):
		e.Code = CodeNotFound
		e.Message = "record not found"
	case errors.Is(err, storage.ErrNotConfigured):
		e.Code = CodeNotConfigured
		e.Message = "resource not configured for this wedding"
	default:
		e.Code = CodeInternal
		e.Message = "internal error"
	}
	return e
}
