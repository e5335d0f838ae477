package seat

import "testing"

func TestSeatAndUnseatRoundTrip(t *testing.T) {
	m := NewManager()
	idx, err := m.Seat(Occupant{UserID: "alice", Chips: 500})
	if err != nil {
		t.Fatalf("Seat: %v", err)
	}
	if got, ok := m.Get(idx); !ok || got.UserID != "alice" {
		t.Fatalf("expected alice at seat %d, got %+v ok=%v", idx, got, ok)
	}
	if err := m.Unseat(idx); err != nil {
		t.Fatalf("Unseat: %v", err)
	}
	if _, ok := m.Get(idx); ok {
		t.Errorf("expected seat %d to be empty after unseat", idx)
	}
}

func TestSeatingFillsLowestIndexFirst(t *testing.T) {
	m := NewManager()
	first, _ := m.Seat(Occupant{UserID: "a"})
	m.Unseat(first)
	second, _ := m.Seat(Occupant{UserID: "b"})
	if second != 0 {
		t.Errorf("expected the freed lowest slot to be reused, got %d", second)
	}
}

func TestTableFullReturnsError(t *testing.T) {
	m := NewManager()
	for i := 0; i < Count; i++ {
		if _, err := m.Seat(Occupant{UserID: "p"}); err != nil {
			t.Fatalf("unexpected error seating player %d: %v", i, err)
		}
	}
	if _, err := m.Seat(Occupant{UserID: "overflow"}); err == nil {
		t.Errorf("expected an error seating a 7th player")
	}
}

func TestMarkLeavingDefersUnseatUntilClearLeavers(t *testing.T) {
	m := NewManager()
	idx, _ := m.Seat(Occupant{UserID: "alice"})
	m.MarkLeaving(idx)
	if _, ok := m.Get(idx); !ok {
		t.Fatalf("seat should still be occupied mid-hand")
	}
	if !m.IsLeaving(idx) {
		t.Errorf("expected seat to be flagged as leaving")
	}
	cleared := m.ClearLeavers()
	if len(cleared) != 1 || cleared[0] != idx {
		t.Fatalf("expected ClearLeavers to report seat %d, got %v", idx, cleared)
	}
	if _, ok := m.Get(idx); ok {
		t.Errorf("expected seat to be empty after ClearLeavers")
	}
}

func TestSeatOfFindsOccupant(t *testing.T) {
	m := NewManager()
	idx, _ := m.Seat(Occupant{UserID: "bob"})
	if got := m.SeatOf("bob"); got != idx {
		t.Errorf("SeatOf(bob) = %d, want %d", got, idx)
	}
	if got := m.SeatOf("nobody"); got != -1 {
		t.Errorf("SeatOf(nobody) = %d, want -1", got)
	}
}
