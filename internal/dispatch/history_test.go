package dispatch

import (
	"testing"

	"backend-dispatch/internal/models"
)

func TestHistoryNewestFirst(t *testing.T) {
	var h History
	h.Push(models.Call{Name: "A"})
	h.Push(models.Call{Name: "B"})

	got := h.Snapshot()
	if len(got) != 2 || got[0].Name != "B" || got[1].Name != "A" {
		t.Fatalf("got %v, want [B A]", got)
	}
}

func TestHistoryBounded(t *testing.T) {
	var h History
	for _, name := range []string{"A", "B", "C", "D"} {
		h.Push(models.Call{Name: name})
	}

	got := h.Snapshot()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"D", "C", "B"} {
		if got[i].Name != want {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Name, want)
		}
	}
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	var h History
	h.Push(models.Call{Name: "A"})

	snap := h.Snapshot()
	snap[0].Name = "mutated"

	if h.Snapshot()[0].Name != "A" {
		t.Fatal("internal state mutated through snapshot")
	}
}
