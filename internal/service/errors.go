package service

import "errors"

var (
	// ErrSubmissionNotFound is returned when no stored row carries the requested key
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrAlreadyProcessed is returned when a submission is already in a
	// terminal state, including when another operator processed it between
	// page load and the write
	ErrAlreadyProcessed = errors.New("submission already processed")

	// ErrReasonRequired is returned when a rejection carries no reason
	ErrReasonRequired = errors.New("rejection reason is required")

	// ErrInvalidAction is returned for actions other than approve/reject
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrStoreUnavailable is returned when the row store rejects a review write
	ErrStoreUnavailable = errors.New("submission store unavailable")
)
