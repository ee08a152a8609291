package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates a status change the state machine does
	// not permit. It is never caused by the store being unavailable, so
	// callers should not retry it.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyFulfilled indicates the order is already shipped, delivered
	// or cancelled and cannot be fulfilled again.
	ErrAlreadyFulfilled = errors.New("order already fulfilled or cancelled")
)
