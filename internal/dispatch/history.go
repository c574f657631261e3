package dispatch

import "backend-dispatch/internal/models"

// historySize - how many past calls the displays show.
const historySize = 3

// History - bounded list of the most recent calls, newest first.
// Lives only for the process lifetime, never persisted.
type History struct {
	calls []models.Call
}

// Push prepends a call, evicting the oldest once full.
func (h *History) Push(c models.Call) {
	h.calls = append([]models.Call{c}, h.calls...)
	if len(h.calls) > historySize {
		h.calls = h.calls[:historySize]
	}
}

// Snapshot returns a copy, newest first.
func (h *History) Snapshot() []models.Call {
	out := make([]models.Call, len(h.calls))
	copy(out, h.calls)
	return out
}
