package service

import "errors"

var (
	// ErrUnauthenticated means no session: callers redirect to login
	// rather than showing an error.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnauthorized means the session's role does not permit the
	// action (including mutating a listing it does not own).
	ErrUnauthorized = errors.New("role does not permit this action")

	// ErrSubmitInProgress guards against re-submission while a request
	// for the same chat is still in flight.
	ErrSubmitInProgress = errors.New("a submission is already in progress")

	// ErrDraftNotReady means the draft has not reached a valid state.
	ErrDraftNotReady = errors.New("booking draft is not complete")
)
