package dispatch

import (
	"context"
	"log"

	"backend-dispatch/internal/models"
	"backend-dispatch/internal/store"
)

// partition reorders an arrival-ordered slice priority-first. Relative
// order inside each class is preserved, which is what makes this and the
// incremental Queue insertion rule produce identical sequences.
func partition(tickets []models.Ticket) []models.Ticket {
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Priority {
			out = append(out, t)
		}
	}
	for _, t := range tickets {
		if !t.Priority {
			out = append(out, t)
		}
	}
	return out
}

// Materialize loads the waiting set from the store and returns it in
// serving order. On store failure it returns an empty sequence and
// ErrStoreUnavailable; it never panics through to the caller.
func Materialize(ctx context.Context, ts store.TicketStore) ([]models.Ticket, error) {
	waiting, err := ts.FindWaiting(ctx)
	if err != nil {
		log.Printf("[dispatch] materialize: %v", err)
		return []models.Ticket{}, ErrStoreUnavailable
	}
	return partition(waiting), nil
}
