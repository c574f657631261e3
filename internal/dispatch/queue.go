package dispatch

import (
	"sync"

	"backend-dispatch/internal/models"
)

// Queue - in-memory waiting line for deployments without a database.
// Priority tickets stay contiguous at the front, in arrival order among
// themselves; regular tickets follow, also in arrival order.
type Queue struct {
	mu      sync.Mutex
	tickets []models.Ticket
}

func NewQueue() *Queue {
	return &Queue{}
}

// Insert places a ticket according to its priority flag. Regular tickets
// append to the end. Priority tickets land right after the last priority
// ticket already present, so earlier priority arrivals keep precedence.
func (q *Queue) Insert(t models.Ticket) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !t.Priority {
		q.tickets = append(q.tickets, t)
		return
	}

	insertAt := 0
	for i := len(q.tickets) - 1; i >= 0; i-- {
		if q.tickets[i].Priority {
			insertAt = i + 1
			break
		}
	}

	q.tickets = append(q.tickets, models.Ticket{})
	copy(q.tickets[insertAt+1:], q.tickets[insertAt:])
	q.tickets[insertAt] = t
}

// Remove takes the ticket with the given id out of the line. Order of the
// remaining tickets is untouched.
func (q *Queue) Remove(id string) (models.Ticket, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tickets {
		if t.ID == id {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return t, nil
		}
	}
	return models.Ticket{}, ErrNotFound
}

// Snapshot returns a copy of the current ordering.
func (q *Queue) Snapshot() []models.Ticket {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.Ticket, len(q.tickets))
	copy(out, q.tickets)
	return out
}

// Restore replaces the whole line, re-applying the insertion rule so a
// dump taken from another ordering still ends up priority-first.
func (q *Queue) Restore(tickets []models.Ticket) {
	q.mu.Lock()
	q.tickets = q.tickets[:0]
	q.mu.Unlock()

	for _, t := range tickets {
		q.Insert(t)
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tickets)
}
