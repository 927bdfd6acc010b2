package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Webhook side
	ErrAuthFailure      = stderrors.New("webhook signature mismatch")
	ErrUnknownEventType = stderrors.New("unknown event type")
	ErrInvalidPayload   = stderrors.New("invalid event payload")
	ErrLookupFailure    = stderrors.New("chat service lookup failed")
	ErrDeliveryFailure  = stderrors.New("push delivery failed")
	ErrMissingUserID    = stderrors.New("user_id is required")
	ErrUserNotFound     = stderrors.New("user not found")
	ErrTokenGeneration  = stderrors.New("token generation failed")
	ErrInvalidToken     = stderrors.New("invalid or expired token")

	ErrInvalidCredentials = stderrors.New("invalid chat service credentials")

	// Room session side
	ErrConnectFailure      = stderrors.New("room connection failed")
	ErrSendFailure         = stderrors.New("message send failed")
	ErrSessionNotActive    = stderrors.New("room session is not active")
	ErrSessionTerminated   = stderrors.New("room session has been left")
	ErrReentrantTransition = stderrors.New("re-entrant session transition")
	ErrEmptyMessage        = stderrors.New("message has no text and no attachment")
	ErrSubscriptionClosed  = stderrors.New("room subscription closed")
	ErrLeaveFailure        = stderrors.New("leaving the room failed")
	ErrAttachmentTooLarge  = stderrors.New("attachment is too large")
)

// MapToHTTPStatus translates domain errors into an HTTP status code.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrAuthFailure):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrUnknownEventType):
		// Unknown events are dropped, the sender must not retry them.
		return http.StatusOK
	case stderrors.Is(err, ErrInvalidPayload), stderrors.Is(err, ErrMissingUserID):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrLookupFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
