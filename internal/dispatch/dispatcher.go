package dispatch

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"backend-dispatch/internal/models"
	"backend-dispatch/internal/store"
)

// Broadcaster - fan-out boundary. The engine pushes state changes here and
// never talks to sockets itself.
type Broadcaster interface {
	QueueChanged(queue []models.Ticket)
	CallChanged(call models.Call)
	HistoryChanged(history []models.Call)
}

// Dispatcher - single authority over the waiting line, the current call
// and the call history. All mutations go through its methods under one
// mutex, so every broadcast reflects one consistent snapshot.
//
// Two deployment modes share the type: with a TicketStore the waiting set
// lives in MySQL and claims are compare-and-set there; without one the
// in-memory Queue is the whole truth.
type Dispatcher struct {
	mu      sync.Mutex
	queue   *Queue
	store   store.TicketStore
	current models.Call
	history History
	bc      Broadcaster

	now   func() time.Time
	newID func() string
}

func NewMemory(bc Broadcaster) *Dispatcher {
	return &Dispatcher{
		queue:   NewQueue(),
		current: models.WelcomeCall(),
		bc:      bc,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func NewPersistent(ts store.TicketStore, bc Broadcaster) *Dispatcher {
	d := NewMemory(bc)
	d.store = ts
	return d
}

// Persistent reports whether the waiting set lives in a ticket store.
func (d *Dispatcher) Persistent() bool {
	return d.store != nil
}

// Admit creates a waiting ticket. Name is required and normalized to upper
// case so the displays always show one consistent spelling.
func (d *Dispatcher) Admit(ctx context.Context, name, sectorCode, sectorLabel string, priority bool) (models.Ticket, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" || sectorCode == "" {
		return models.Ticket{}, ErrInvalidRequest
	}

	t := models.Ticket{
		ID:          d.newID(),
		Name:        name,
		SectorCode:  sectorCode,
		SectorLabel: sectorLabel,
		Priority:    priority,
		Status:      models.StatusWaiting,
		ArrivedAt:   d.now(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.store != nil {
		if err := d.store.Create(ctx, t); err != nil {
			log.Printf("[dispatch] admit: %v", err)
			return models.Ticket{}, ErrStoreUnavailable
		}
	} else {
		d.queue.Insert(t)
	}

	d.broadcastQueue(ctx)
	return t, nil
}

// Cancel removes a waiting ticket. Only valid while the ticket is still
// waiting; anything else reports not found in both modes.
func (d *Dispatcher) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRequest
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.store != nil {
		err := d.store.Cancel(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			log.Printf("[dispatch] cancel %s: %v", id, err)
			return ErrStoreUnavailable
		}
	} else {
		if _, err := d.queue.Remove(id); err != nil {
			return err
		}
	}

	d.broadcastQueue(ctx)
	return nil
}

// RequestNext claims the first waiting ticket of the sector for the given
// room. The sector label shown on the call is the one supplied by the
// requesting counter, not the one stored at admission.
func (d *Dispatcher) RequestNext(ctx context.Context, sectorCode, room, sectorLabel string) (models.Call, error) {
	if sectorCode == "" {
		return models.Call{}, ErrInvalidRequest
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var claimed models.Ticket
	var ok bool
	var err error
	if d.store != nil {
		claimed, ok, err = d.claimFromStore(ctx, sectorCode, room)
	} else {
		claimed, ok = d.claimFromQueue(sectorCode, room)
	}
	if err != nil {
		return models.Call{}, err
	}
	if !ok {
		return models.Call{}, ErrNoWaitingTicket
	}

	label := sectorLabel
	if label == "" {
		label = claimed.SectorLabel
	}

	call := models.Call{
		Name:     claimed.Name,
		Sector:   label,
		Room:     room,
		Priority: claimed.Priority,
	}

	d.current = call
	d.history.Push(call)

	d.broadcastQueue(ctx)
	d.bc.CallChanged(call)
	d.bc.HistoryChanged(d.history.Snapshot())

	return call, nil
}

// claimFromQueue serves the memory mode. The dispatcher mutex already
// serializes callers, so a plain scan-and-remove cannot double-claim.
func (d *Dispatcher) claimFromQueue(sectorCode, room string) (models.Ticket, bool) {
	for _, t := range d.queue.Snapshot() {
		if t.SectorCode != sectorCode {
			continue
		}
		removed, err := d.queue.Remove(t.ID)
		if err != nil {
			continue
		}
		servedAt := d.now()
		removed.Status = models.StatusServed
		removed.ServedAt = &servedAt
		removed.ServedRoom = room
		return removed, true
	}
	return models.Ticket{}, false
}

// claimFromStore walks the materialized order and compare-and-sets each
// candidate. A lost race just means another dispatcher got there first;
// the scan moves on instead of failing the request.
func (d *Dispatcher) claimFromStore(ctx context.Context, sectorCode, room string) (models.Ticket, bool, error) {
	ordered, err := Materialize(ctx, d.store)
	if err != nil {
		return models.Ticket{}, false, ErrDispatchFailed
	}

	for _, t := range ordered {
		if t.SectorCode != sectorCode {
			continue
		}
		servedAt := d.now()
		won, err := d.store.Claim(ctx, t.ID, room, servedAt)
		if err != nil {
			log.Printf("[dispatch] claim %s: %v", t.ID, err)
			return models.Ticket{}, false, ErrDispatchFailed
		}
		if !won {
			continue
		}
		t.Status = models.StatusServed
		t.ServedAt = &servedAt
		t.ServedRoom = room
		return t, true, nil
	}
	return models.Ticket{}, false, nil
}

// Recall rebroadcasts the current call with the repeat flag set. Reports
// false while only the welcome placeholder has ever been shown. History
// and the waiting line are untouched.
func (d *Dispatcher) Recall() (models.Call, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current.Name == models.WelcomeName {
		return models.Call{}, false
	}

	repeat := d.current
	repeat.IsRepeat = true
	d.bc.CallChanged(repeat)
	return repeat, true
}

// Restore bulk-replaces the in-memory waiting line, memory mode only.
// Tickets must carry a name and sector; missing ids and arrival times are
// filled in. A malformed sequence is rejected whole, nothing changes.
func (d *Dispatcher) Restore(ctx context.Context, tickets []models.Ticket) error {
	if d.store != nil {
		return ErrInvalidRequest
	}
	for i := range tickets {
		if strings.TrimSpace(tickets[i].Name) == "" || tickets[i].SectorCode == "" {
			return ErrInvalidRequest
		}
		tickets[i].Name = strings.ToUpper(strings.TrimSpace(tickets[i].Name))
		tickets[i].Status = models.StatusWaiting
		if tickets[i].ID == "" {
			tickets[i].ID = d.newID()
		}
		if tickets[i].ArrivedAt.IsZero() {
			tickets[i].ArrivedAt = d.now()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.queue.Restore(tickets)
	d.broadcastQueue(ctx)
	return nil
}

// State returns one consistent snapshot for displays joining late.
func (d *Dispatcher) State(ctx context.Context) ([]models.Ticket, models.Call, []models.Call, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	queue, err := d.waiting(ctx)
	return queue, d.current, d.history.Snapshot(), err
}

// waiting returns the current serving order. Callers hold d.mu.
func (d *Dispatcher) waiting(ctx context.Context) ([]models.Ticket, error) {
	if d.store != nil {
		return Materialize(ctx, d.store)
	}
	return d.queue.Snapshot(), nil
}

// broadcastQueue pushes the waiting order to all displays. A store failure
// here is logged and skipped: the mutation already committed, the displays
// catch up on the next change.
func (d *Dispatcher) broadcastQueue(ctx context.Context) {
	queue, err := d.waiting(ctx)
	if err != nil {
		log.Printf("[dispatch] queue broadcast skipped: %v", err)
		return
	}
	d.bc.QueueChanged(queue)
}
