package store

import (
	"context"
	"errors"
	"time"

	"backend-dispatch/internal/models"
)

// ErrNotFound - no row matched the id, or its status already moved on.
var ErrNotFound = errors.New("ticket not found")

// TicketStore - durable persistence boundary for tickets. The dispatch
// engine only ever creates, lists waiting, and transitions status; the
// status transitions are compare-and-set so concurrent dispatchers cannot
// both claim the same row.
type TicketStore interface {
	// Create inserts a new waiting ticket.
	Create(ctx context.Context, t models.Ticket) error

	// FindWaiting returns all waiting tickets ordered by arrival, oldest
	// first. Priority partitioning is the caller's job.
	FindWaiting(ctx context.Context) ([]models.Ticket, error)

	// Claim transitions waiting -> served, stamping the room and time.
	// Returns false (no error) when the ticket was no longer waiting, so
	// the caller can move on to the next candidate.
	Claim(ctx context.Context, id, room string, servedAt time.Time) (bool, error)

	// Cancel transitions waiting -> cancelled. ErrNotFound when the ticket
	// does not exist or already left the waiting status.
	Cancel(ctx context.Context, id string) error
}
