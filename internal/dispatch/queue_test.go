package dispatch

import (
	"fmt"
	"testing"

	"backend-dispatch/internal/models"
)

func ticket(id string, sector string, priority bool) models.Ticket {
	return models.Ticket{
		ID:         id,
		Name:       "T " + id,
		SectorCode: sector,
		Priority:   priority,
		Status:     models.StatusWaiting,
	}
}

func ids(tickets []models.Ticket) []string {
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Ticket, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, ids(got), want)
		}
	}
}

func TestInsertOrdering(t *testing.T) {
	cases := []struct {
		name    string
		inserts []models.Ticket
		want    []string
	}{
		{
			name:    "regular keeps arrival order",
			inserts: []models.Ticket{ticket("a", "1", false), ticket("b", "1", false), ticket("c", "2", false)},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "priority jumps regulars",
			inserts: []models.Ticket{ticket("a", "1", false), ticket("b", "1", true)},
			want:    []string{"b", "a"},
		},
		{
			name:    "priority lands after earlier priority",
			inserts: []models.Ticket{ticket("a", "1", false), ticket("b", "1", true), ticket("c", "2", true)},
			want:    []string{"b", "c", "a"},
		},
		{
			name: "interleaved classes",
			inserts: []models.Ticket{
				ticket("a", "1", false), ticket("p1", "1", true), ticket("b", "2", false),
				ticket("p2", "2", true), ticket("c", "1", false),
			},
			want: []string{"p1", "p2", "a", "b", "c"},
		},
		{
			name:    "only priority",
			inserts: []models.Ticket{ticket("p1", "1", true), ticket("p2", "1", true), ticket("p3", "1", true)},
			want:    []string{"p1", "p2", "p3"},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			for _, tk := range tt.inserts {
				q.Insert(tk)
			}
			assertOrder(t, q.Snapshot(), tt.want...)
		})
	}
}

// Every priority ticket must precede every regular one, and each class
// keeps admission order, no matter how the flags interleave.
func TestInsertPartitionProperty(t *testing.T) {
	patterns := []uint{0b0, 0b10110, 0b11111, 0b01010101, 0b1000001}

	for _, pattern := range patterns {
		q := NewQueue()
		var wantPrio, wantReg []string
		for i := 0; i < 8; i++ {
			id := fmt.Sprintf("t%d", i)
			prio := pattern&(1<<i) != 0
			q.Insert(ticket(id, "1", prio))
			if prio {
				wantPrio = append(wantPrio, id)
			} else {
				wantReg = append(wantReg, id)
			}
		}

		got := ids(q.Snapshot())
		want := append(append([]string{}, wantPrio...), wantReg...)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("pattern %b: got %v, want %v", pattern, got, want)
			}
		}
	}
}

func TestRemove(t *testing.T) {
	q := NewQueue()
	q.Insert(ticket("a", "1", false))
	q.Insert(ticket("b", "1", true))
	q.Insert(ticket("c", "2", false))

	removed, err := q.Remove("a")
	if err != nil {
		t.Fatalf("remove a: %v", err)
	}
	if removed.ID != "a" {
		t.Fatalf("removed %s, want a", removed.ID)
	}
	assertOrder(t, q.Snapshot(), "b", "c")

	if _, err := q.Remove("missing"); err != ErrNotFound {
		t.Fatalf("remove missing: got %v, want ErrNotFound", err)
	}
	if q.Len() != 2 {
		t.Fatalf("len after failed remove: got %d, want 2", q.Len())
	}
}

func TestRestoreReappliesOrdering(t *testing.T) {
	q := NewQueue()
	q.Insert(ticket("old", "1", false))

	// Dump arrives regular-first; restore must still put priority ahead.
	q.Restore([]models.Ticket{
		ticket("a", "1", false),
		ticket("p1", "1", true),
		ticket("b", "2", false),
		ticket("p2", "2", true),
	})

	assertOrder(t, q.Snapshot(), "p1", "p2", "a", "b")
}

func TestSnapshotIsACopy(t *testing.T) {
	q := NewQueue()
	q.Insert(ticket("a", "1", false))

	snap := q.Snapshot()
	snap[0].ID = "mutated"

	if got := q.Snapshot()[0].ID; got != "a" {
		t.Fatalf("internal state mutated through snapshot: %s", got)
	}
}
