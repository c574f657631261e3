package dispatch

import "errors"

var (
	// ErrInvalidRequest - malformed caller input, never retried.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound - referenced ticket is not in the waiting set.
	ErrNotFound = errors.New("ticket not found")
	// ErrNoWaitingTicket - valid request but nothing eligible for the sector.
	ErrNoWaitingTicket = errors.New("no waiting ticket for sector")
	// ErrStoreUnavailable - ticket store unreachable.
	ErrStoreUnavailable = errors.New("ticket store unavailable")
	// ErrDispatchFailed - claim attempt failed against the store.
	ErrDispatchFailed = errors.New("dispatch failed")
)
